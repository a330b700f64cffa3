package models

import (
	"github.com/mgutz/ansi"
)

// Prot is a set of segment permissions. Combinations are meaningful, so
// it is a bitmask rather than an enumeration.
type Prot uint32

const (
	PROT_NONE   Prot = 0
	PROT_READ   Prot = 1
	PROT_WRITE  Prot = 2
	PROT_EXEC   Prot = 4
	PROT_UNINIT Prot = 8

	PROT_RX  = PROT_READ | PROT_EXEC
	PROT_RW  = PROT_READ | PROT_WRITE
	PROT_RWU = PROT_READ | PROT_WRITE | PROT_UNINIT
)

var protChars = []struct {
	prot Prot
	char string
}{
	{PROT_READ, "r"},
	{PROT_WRITE, "w"},
	{PROT_EXEC, "x"},
	{PROT_UNINIT, "u"},
}

func (p Prot) Has(o Prot) bool {
	return p&o == o
}

func (p Prot) String() string {
	s := ""
	for _, c := range protChars {
		if p&c.prot != 0 {
			s += c.char
		} else {
			s += "-"
		}
	}
	return s
}

var (
	protExec   = ansi.ColorCode("red+b")
	protUninit = ansi.ColorCode("blue")
)

// ColorString highlights code and zero-filled regions for terminal output.
func (p Prot) ColorString() string {
	switch {
	case p&PROT_EXEC != 0:
		return protExec + p.String() + ansi.Reset
	case p&PROT_UNINIT != 0:
		return protUninit + p.String() + ansi.Reset
	default:
		return p.String()
	}
}
