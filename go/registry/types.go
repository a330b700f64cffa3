package registry

import (
	"fmt"
)

// TypeInfo describes what is known to live at an address range. The
// implementations are Function, Integer, Struct, Union and Array.
type TypeInfo interface {
	fmt.Stringer
	// Size is the byte size of the type, or 0 if unknown.
	Size() uint64
	typeInfo()
}

type Function struct {
	Name   string
	Extern bool
}

type Integer struct {
	Bits   uint32
	Signed bool
}

type Struct struct {
	Name     string
	ByteSize uint64
}

type Union struct {
	Name     string
	ByteSize uint64
}

type Array struct {
	Elem  TypeInfo
	Count uint64
}

func (Function) typeInfo() {}
func (Integer) typeInfo()  {}
func (Struct) typeInfo()   {}
func (Union) typeInfo()    {}
func (Array) typeInfo()    {}

func (f Function) Size() uint64 { return 0 }

func (f Function) String() string {
	if f.Extern {
		return "extern " + f.Name + "()"
	}
	return f.Name + "()"
}

func (i Integer) Size() uint64 { return uint64(i.Bits+7) / 8 }

func (i Integer) String() string {
	if i.Signed {
		return fmt.Sprintf("s%d", i.Bits)
	}
	return fmt.Sprintf("u%d", i.Bits)
}

func (s Struct) Size() uint64   { return s.ByteSize }
func (s Struct) String() string { return "struct " + s.Name }

func (u Union) Size() uint64   { return u.ByteSize }
func (u Union) String() string { return "union " + u.Name }

func (a Array) Size() uint64 {
	if a.Elem == nil {
		return 0
	}
	return a.Elem.Size() * a.Count
}

func (a Array) String() string {
	elem := "?"
	if a.Elem != nil {
		elem = a.Elem.String()
	}
	return fmt.Sprintf("%s[%d]", elem, a.Count)
}
