package models

import (
	"encoding/binary"
)

type Loader interface {
	Arch() string
	Bits() int
	ByteOrder() binary.ByteOrder
	OS() string
	Entry() uint64
	Segments() ([]Segment[uint64], error)
	DataAt(seg Segment[uint64], off, n uint64) ([]byte, error)
}
