package ferrox

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"

	"github.com/ferrox-re/ferrox/go/loader"
	"github.com/ferrox-re/ferrox/go/models"
	"github.com/ferrox-re/ferrox/go/registry"
)

var ErrUnmapped = errors.New("address is not in any segment")

const defaultTypesFile = "types.yaml"

// Annotation is everything known about a single address.
type Annotation struct {
	Addr     uint64
	Segments []models.Segment[uint64]
	Types    []registry.TypeInfo
}

// Session is a loaded binary together with the type information known
// about it. The registry is guarded so lookups may run alongside AddType.
type Session struct {
	exe      string
	config   *models.Config
	logger   log.Logger
	loader   models.Loader
	segments []models.Segment[uint64]

	mu    sync.RWMutex
	types *registry.TypeRegistry
}

func NewSession(exe string, config *models.Config) (*Session, error) {
	config = config.Init()
	logger := log.With(config.Logger(), "exe", exe)
	l, err := loader.LoadFormat(exe, config.Format, logger)
	if err != nil {
		return nil, err
	}
	segs, err := l.Segments()
	if err != nil {
		return nil, errors.Wrap(err, "failed to extract segments")
	}
	s := &Session{
		exe:      exe,
		config:   config,
		logger:   logger,
		loader:   l,
		segments: segs,
		types:    registry.NewTypeRegistry(),
	}
	if err := s.loadTypes(); err != nil {
		return nil, err
	}
	level.Info(logger).Log("msg", "loaded", "arch", l.Arch(), "entry", fmt.Sprintf("0x%08x", l.Entry()), "segments", len(segs), "types", s.types.Len())
	return s, nil
}

func (s *Session) loadTypes() error {
	path := s.config.TypesPath
	if path == "" {
		dirs := configdir.New("ferrox", "types")
		folder := dirs.QueryFolderContainsFile(defaultTypesFile)
		if folder == nil {
			return nil
		}
		path = filepath.Join(folder.Path, defaultTypesFile)
	}
	return s.ImportTypes(path)
}

// ImportTypes adds the annotations in a YAML file to the registry.
func (s *Session) ImportTypes(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open types")
	}
	defer f.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := registry.LoadAnnotations(f, s.types)
	if err != nil {
		return errors.Wrapf(err, "failed to load types from %s", path)
	}
	level.Debug(s.logger).Log("msg", "imported types", "path", path, "count", n)
	return nil
}

func (s *Session) Loader() models.Loader { return s.loader }

func (s *Session) Config() *models.Config { return s.config }

func (s *Session) Segments() []models.Segment[uint64] {
	return s.segments
}

func (s *Session) AddType(r registry.Range, info registry.TypeInfo) {
	s.mu.Lock()
	s.types.Insert(r, info)
	s.mu.Unlock()
}

// WalkTypes calls fn for every known type in address order until fn
// returns false.
func (s *Session) WalkTypes(fn func(r registry.Range, info registry.TypeInfo) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.types.Walk(fn)
}

func (s *Session) Describe(addr uint64) *Annotation {
	a := &Annotation{Addr: addr}
	for _, seg := range s.segments {
		if seg.Contains(addr) {
			a.Segments = append(a.Segments, seg)
		}
	}
	s.mu.RLock()
	a.Types = s.types.Lookup(addr)
	s.mu.RUnlock()
	return a
}

// Read returns up to n bytes of initial memory contents starting at addr,
// stopping at the end of the containing segment.
func (s *Session) Read(addr, n uint64) ([]byte, error) {
	for _, seg := range s.segments {
		if !seg.Contains(addr) {
			continue
		}
		return s.loader.DataAt(seg, addr-seg.Addr, n)
	}
	return nil, errors.Wrapf(ErrUnmapped, "0x%x", addr)
}
