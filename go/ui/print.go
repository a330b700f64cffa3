package ui

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/mgutz/ansi"

	ferrox "github.com/ferrox-re/ferrox/go"
	"github.com/ferrox-re/ferrox/go/models"
	"github.com/ferrox-re/ferrox/go/registry"
)

var typeColor = ansi.ColorCode("green")

func PrintSegments(w io.Writer, segs []models.Segment[uint64], color bool) {
	fmt.Fprintf(w, "%-10s %-10s %-10s %-4s %s\n", "start", "end", "size", "prot", "offset")
	for _, seg := range segs {
		prot := seg.Prot.String()
		if color {
			prot = seg.Prot.ColorString()
		}
		off := fmt.Sprintf("0x%08x", seg.Off)
		if seg.Prot.Has(models.PROT_UNINIT) {
			off = "-"
		}
		fmt.Fprintf(w, "0x%08x 0x%08x 0x%08x %s %s\n", seg.Addr, seg.End(), seg.Size, prot, off)
	}
}

func PrintAnnotation(w io.Writer, a *ferrox.Annotation, color bool) {
	fmt.Fprintf(w, "0x%08x:", a.Addr)
	if len(a.Segments) == 0 {
		fmt.Fprint(w, " unmapped")
	}
	for _, seg := range a.Segments {
		prot := seg.Prot.String()
		if color {
			prot = seg.Prot.ColorString()
		}
		fmt.Fprintf(w, " [0x%08x-0x%08x %s +0x%x]", seg.Addr, seg.End(), prot, a.Addr-seg.Addr)
	}
	fmt.Fprintln(w)
	for _, t := range a.Types {
		s := t.String()
		if color {
			s = typeColor + s + ansi.Reset
		}
		fmt.Fprintf(w, "  %s\n", s)
	}
}

func PrintTypes(w io.Writer, s *ferrox.Session, color bool) {
	s.WalkTypes(func(r registry.Range, info registry.TypeInfo) bool {
		t := info.String()
		if color {
			t = typeColor + t + ansi.Reset
		}
		fmt.Fprintf(w, "0x%08x-0x%08x %s\n", r.Start, r.End, t)
		return true
	})
}

func PrintHex(w io.Writer, p []byte) {
	fmt.Fprint(w, hex.Dump(p))
}
