package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-kit/log"
	"github.com/pkg/errors"

	"github.com/ferrox-re/ferrox/go/models"
)

var ErrUnknownFormat = errors.New("Could not identify file format.")

func LoadFile(path string) (models.Loader, error) {
	return LoadFormat(path, "auto", log.NewNopLogger())
}

// LoadFormat reads path and decodes it as format. DOL files carry no
// magic, so "auto" goes by file extension.
func LoadFormat(path, format string, logger log.Logger) (models.Loader, error) {
	if format == "auto" || format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	if format != "dol" {
		return nil, errors.Wrapf(ErrUnknownFormat, "%s", path)
	}
	p, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	l, err := NewDolLoader(bytes.NewReader(p), int64(len(p)), WithLogger(logger))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return l, nil
}
