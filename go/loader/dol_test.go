package loader

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/ferrox-re/ferrox/go/models"
)

type dolSlot struct {
	off, addr, size uint32
}

// makeDol builds a 0x100 byte header. Slots 0-6 are text, 7-17 data.
func makeDol(t *testing.T, slots map[int]dolSlot, bssAddr, bssSize, entry uint32) []byte {
	var hdr dolHeader
	for n, s := range slots {
		hdr.Sections.Offsets[n] = s.off
		hdr.Sections.Addrs[n] = s.addr
		hdr.Sections.Sizes[n] = s.size
	}
	hdr.Sections.BssAddr = bssAddr
	hdr.Sections.BssSize = bssSize
	hdr.Entry = entry
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, &hdr); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != dolHeaderSize {
		t.Fatalf("header is 0x%x bytes", buf.Len())
	}
	return buf.Bytes()
}

func dolSegments(t *testing.T, p []byte) []models.Segment[uint32] {
	segs, err := DolSegments(p)
	if err != nil {
		t.Fatal(err)
	}
	return segs
}

func checkSegments(t *testing.T, want, got []models.Segment[uint32]) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestDolEmpty(t *testing.T) {
	segs := dolSegments(t, makeDol(t, nil, 0, 0, 0))
	if len(segs) != 0 {
		t.Fatalf("expected no segments, got %v", segs)
	}
}

func TestDolTruncated(t *testing.T) {
	full := makeDol(t, map[int]dolSlot{0: {0x100, 0x80003100, 0x40}}, 0x80003140, 0x10c, 0)
	for _, n := range []int{0, 1, 4, 0x48, 0xdc, 0xdf} {
		_, err := DolSegments(full[:n])
		if err == nil {
			t.Fatalf("no error on %d byte header", n)
		}
		if !errors.Is(err, ErrTruncated) || errors.Cause(err) != ErrTruncated {
			t.Fatalf("%d byte header: unexpected error %v", n, err)
		}
	}
	// the entry point and padding are not needed for segments
	if _, err := DolSegments(full[:0xe0]); err != nil {
		t.Fatal(err)
	}
}

func TestDolBssUncovered(t *testing.T) {
	p := makeDol(t, map[int]dolSlot{0: {0x100, 0x80003100, 0x40}}, 0x80003140, 0x10c, 0)
	checkSegments(t, []models.Segment[uint32]{
		{Addr: 0x80003100, Size: 0x40, Off: 0x100, Prot: models.PROT_RX},
		{Addr: 0x80003140, Size: 0x10c, Prot: models.PROT_RWU},
	}, dolSegments(t, p))
}

func TestDolBssOverlapsData(t *testing.T) {
	p := makeDol(t, map[int]dolSlot{
		0: {0x100, 0x80003100, 0x40},
		7: {0x140, 0x80003140, 0x0c},
	}, 0x80003140, 0x10c, 0)
	checkSegments(t, []models.Segment[uint32]{
		{Addr: 0x80003100, Size: 0x40, Off: 0x100, Prot: models.PROT_RX},
		{Addr: 0x80003140, Size: 0x0c, Off: 0x140, Prot: models.PROT_RW},
		{Addr: 0x8000314c, Size: 0x100, Prot: models.PROT_RWU},
	}, dolSegments(t, p))
}

func TestDolBssMatchesSegment(t *testing.T) {
	p := makeDol(t, map[int]dolSlot{8: {0x200, 0x80010000, 0x800}}, 0x80010000, 0x800, 0)
	checkSegments(t, []models.Segment[uint32]{
		{Addr: 0x80010000, Size: 0x800, Off: 0x200, Prot: models.PROT_RW},
	}, dolSegments(t, p))
}

func TestDolBssSplit(t *testing.T) {
	p := makeDol(t, map[int]dolSlot{17: {0x400, 0x80001000, 0x100}}, 0x80000f00, 0x300, 0)
	checkSegments(t, []models.Segment[uint32]{
		{Addr: 0x80000f00, Size: 0x100, Prot: models.PROT_RWU},
		{Addr: 0x80001000, Size: 0x100, Off: 0x400, Prot: models.PROT_RW},
		{Addr: 0x80001100, Size: 0x100, Prot: models.PROT_RWU},
	}, dolSegments(t, p))
}

func TestDolBssZero(t *testing.T) {
	p := makeDol(t, map[int]dolSlot{
		1: {0x100, 0x80004000, 0x20},
		9: {0x120, 0x80005000, 0x20},
	}, 0x80006000, 0, 0)
	segs := dolSegments(t, p)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %v", segs)
	}
	for _, seg := range segs {
		if seg.Prot&models.PROT_UNINIT != 0 {
			t.Fatalf("unexpected bss segment %v", seg)
		}
	}
}

func TestDolSorted(t *testing.T) {
	p := makeDol(t, map[int]dolSlot{
		0:  {0x100, 0x80009000, 0x10},
		3:  {0x110, 0x80001000, 0x10},
		7:  {0x120, 0x80005000, 0x10},
		12: {0x130, 0x80000100, 0x10},
	}, 0x80000000, 0x10000, 0)
	segs := dolSegments(t, p)
	for i := 1; i < len(segs); i++ {
		if segs[i].Addr < segs[i-1].Addr {
			t.Fatalf("segments out of order at %d: %v", i, segs)
		}
	}
	// 4 declared + 5 gaps
	if len(segs) != 9 {
		t.Fatalf("expected 9 segments, got %d: %v", len(segs), segs)
	}
}

func TestDolLoader(t *testing.T) {
	p := makeDol(t, map[int]dolSlot{
		0: {0x100, 0x80003100, 0x8},
		7: {0x108, 0x80003140, 0x4},
	}, 0x80003140, 0x10, 0x80003100)
	p = append(p, 0x7c, 0x08, 0x02, 0xa6, 0x90, 0x01, 0x00, 0x04, 0xde, 0xad, 0xbe, 0xef)

	l, err := NewDolLoader(bytes.NewReader(p), int64(len(p)))
	if err != nil {
		t.Fatal(err)
	}
	if l.Entry() != 0x80003100 || l.Arch() != "ppc" || l.Bits() != 32 || l.ByteOrder() != binary.BigEndian {
		t.Fatalf("bad loader identity: %s/%d entry=0x%x", l.Arch(), l.Bits(), l.Entry())
	}
	segs, err := l.Segments()
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %v", segs)
	}

	text, err := l.DataAt(segs[0], 0, segs[0].Size)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(text, p[0x100:0x108]) {
		t.Fatalf("text data mismatch: %x", text)
	}
	data, err := l.DataAt(segs[1], 0, 0x100)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Fatalf("data mismatch: %x", data)
	}
	bss, err := l.DataAt(segs[2], 0, segs[2].Size)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(bss, make([]byte, 0xc)) {
		t.Fatalf("bss should be zeroed: %x", bss)
	}

	_, err = l.DataAt(models.Segment[uint64]{Addr: 0x80000000, Size: 0x10, Off: 0x108, Prot: models.PROT_RW}, 0, 0x10)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncation error, got %v", err)
	}
}

func TestDolLoaderDataAt(t *testing.T) {
	p := makeDol(t, map[int]dolSlot{0: {0x100, 0xf8000000, 0x8}}, 0x00100000, 0xf0000000, 0)
	p = append(p, 1, 2, 3, 4, 5, 6, 7, 8)
	l, err := NewDolLoader(bytes.NewReader(p), int64(len(p)))
	if err != nil {
		t.Fatal(err)
	}
	segs, err := l.Segments()
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 2 || segs[0].Size != 0xf0000000 || segs[1].Addr != 0xf8000000 {
		t.Fatalf("unexpected segments %v", segs)
	}
	bss, text := segs[0], segs[1]

	// window inside the file-backed segment, clamped to its end
	got, err := l.DataAt(text, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{3, 4, 5}) {
		t.Fatalf("DataAt(2, 3) = %x", got)
	}
	got, err = l.DataAt(text, 6, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{7, 8}) {
		t.Fatalf("DataAt(6, 100) = %x", got)
	}
	if got, err = l.DataAt(text, 8, 4); err != nil || len(got) != 0 {
		t.Fatalf("DataAt past segment end = %x, %v", got, err)
	}

	// only the requested window of a huge bss is materialized
	got, err = l.DataAt(bss, 0x10000000, 16)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, make([]byte, 16)) {
		t.Fatalf("bss DataAt = %x", got)
	}
	got, err = l.DataAt(bss, bss.Size-4, 16)
	if err != nil || len(got) != 4 {
		t.Fatalf("bss tail DataAt = %x, %v", got, err)
	}
}

func TestDolLoaderShortHeader(t *testing.T) {
	p := makeDol(t, nil, 0, 0, 0)[:0xe0]
	if _, err := NewDolLoader(bytes.NewReader(p), int64(len(p))); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncation error, got %v", err)
	}
}
