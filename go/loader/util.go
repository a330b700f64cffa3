package loader

import (
	"encoding/binary"
	"io"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// unpackAt decodes i from r at offset at. A short read is reported as
// ErrTruncated.
func unpackAt(r io.ReaderAt, i interface{}, at int64, order binary.ByteOrder) error {
	size, err := struc.Sizeof(i)
	if err != nil {
		return errors.Wrap(err, "struc.Sizeof() failed")
	}
	err = struc.UnpackWithOrder(io.NewSectionReader(r, at, int64(size)), i, order)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.Wrapf(ErrTruncated, "need 0x%x bytes at 0x%x", size, at)
	}
	return errors.Wrap(err, "struc.Unpack() failed")
}
