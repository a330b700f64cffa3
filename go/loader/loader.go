package loader

import (
	"encoding/binary"
)

type LoaderBase struct {
	arch      string
	bits      int
	byteOrder binary.ByteOrder
	os        string
	entry     uint64
}

func (l *LoaderBase) Arch() string {
	return l.arch
}

func (l *LoaderBase) Bits() int {
	return l.bits
}

func (l *LoaderBase) ByteOrder() binary.ByteOrder {
	if l.byteOrder == nil {
		return binary.LittleEndian
	}
	return l.byteOrder
}

func (l *LoaderBase) OS() string {
	return l.os
}

func (l *LoaderBase) Entry() uint64 {
	return l.entry
}
