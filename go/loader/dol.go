package loader

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/ferrox-re/ferrox/go/models"
)

var ErrTruncated = errors.New("truncated or malformed header")

const (
	dolTextSlots = 7
	dolDataSlots = 11
	dolSlots     = dolTextSlots + dolDataSlots

	dolHeaderSize = 0x100
)

// dolSections is the part of the DOL header consumed by segment extraction.
type dolSections struct {
	Offsets [dolSlots]uint32
	Addrs   [dolSlots]uint32
	Sizes   [dolSlots]uint32
	BssAddr uint32
	BssSize uint32
}

type dolHeader struct {
	Sections dolSections
	Entry    uint32
	Pad      [0x1c]byte
}

// DolSegments decodes the section tables of a GameCube DOL executable.
// Declared text sections are PROT_RX and data sections PROT_RW. Parts of
// the BSS range not covered by a declared section become PROT_RWU
// segments. The result is sorted by address.
func DolSegments(p []byte) ([]models.Segment[uint32], error) {
	var hdr dolSections
	if err := unpackAt(bytes.NewReader(p), &hdr, 0, binary.BigEndian); err != nil {
		return nil, errors.Wrap(err, "failed to read DOL section table")
	}
	return hdr.segments(), nil
}

func (h *dolSections) segments() []models.Segment[uint32] {
	// 18 declared sections, plus BSS gaps between them
	segs := make([]models.Segment[uint32], 0, 2*dolSlots+1)
	for n := 0; n < dolSlots; n++ {
		if h.Sizes[n] == 0 {
			continue
		}
		// text is technically writable since the SDK patches exception
		// vectors, but programs treat it as RX
		prot := models.PROT_RX
		if n >= dolTextSlots {
			prot = models.PROT_RW
		}
		segs = append(segs, models.Segment[uint32]{
			Addr: h.Addrs[n],
			Size: h.Sizes[n],
			Off:  h.Offsets[n],
			Prot: prot,
		})
	}
	segs = append(segs, ReconcileBSS(segs, h.BssAddr, h.BssSize)...)
	models.SortSegments(segs)
	return segs
}

type DolOption func(*DolLoader)

func WithLogger(logger log.Logger) DolOption {
	return func(d *DolLoader) { d.logger = logger }
}

type DolLoader struct {
	LoaderBase
	segs   []models.Segment[uint32]
	size   int64
	r      io.ReaderAt
	logger log.Logger
}

// NewDolLoader reads the full 0x100 byte DOL header from r. size is the
// length of the file backing r.
func NewDolLoader(r io.ReaderAt, size int64, opts ...DolOption) (*DolLoader, error) {
	var hdr dolHeader
	if err := unpackAt(r, &hdr, 0, binary.BigEndian); err != nil {
		return nil, errors.Wrap(err, "failed to read DOL header")
	}
	d := &DolLoader{
		LoaderBase: LoaderBase{
			arch:      "ppc",
			bits:      32,
			byteOrder: binary.BigEndian,
			os:        "gamecube",
			entry:     uint64(hdr.Entry),
		},
		segs:   hdr.Sections.segments(),
		size:   size,
		r:      r,
		logger: log.NewNopLogger(),
	}
	for _, o := range opts {
		o(d)
	}
	return d, nil
}

func (d *DolLoader) Segments() ([]models.Segment[uint64], error) {
	for _, seg := range d.segs {
		level.Debug(d.logger).Log(
			"msg", "segment",
			"addr", fmt.Sprintf("0x%08X", seg.Addr),
			"size", fmt.Sprintf("0x%08X", seg.Size),
			"off", fmt.Sprintf("0x%08X", seg.Off),
			"prot", seg.Prot,
		)
	}
	return models.WidenSegments(d.segs), nil
}

// DataAt returns up to n bytes of the initial contents of seg, starting
// off bytes into it. Uninitialized segments read as zeroes.
func (d *DolLoader) DataAt(seg models.Segment[uint64], off, n uint64) ([]byte, error) {
	if off >= seg.Size {
		return nil, nil
	}
	if n > seg.Size-off {
		n = seg.Size - off
	}
	if seg.Prot.Has(models.PROT_UNINIT) {
		return make([]byte, n), nil
	}
	pos := models.SatAdd(seg.Off, off)
	if pos > uint64(d.size) || n > uint64(d.size)-pos {
		return nil, errors.Wrapf(ErrTruncated, "segment 0x%x data at 0x%x+0x%x is past end of file", seg.Addr, pos, n)
	}
	p := make([]byte, n)
	got, err := d.r.ReadAt(p, int64(pos))
	// Eat EOF error
	if err == io.EOF && got == len(p) {
		err = nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read segment data")
	}
	return p, nil
}
