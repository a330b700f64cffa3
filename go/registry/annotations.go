package registry

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// typeSpec is the YAML form of a TypeInfo.
type typeSpec struct {
	Kind   string    `yaml:"kind"`
	Name   string    `yaml:"name"`
	Extern bool      `yaml:"extern"`
	Bits   uint32    `yaml:"bits"`
	Signed bool      `yaml:"signed"`
	Size   uint64    `yaml:"size"`
	Count  uint64    `yaml:"count"`
	Elem   *typeSpec `yaml:"elem"`
}

type annotation struct {
	Start uint64    `yaml:"start"`
	End   uint64    `yaml:"end"`
	Size  uint64    `yaml:"size"`
	Type  *typeSpec `yaml:"type"`
}

func (s *typeSpec) TypeInfo() (TypeInfo, error) {
	if s == nil {
		return nil, errors.New("missing type")
	}
	switch s.Kind {
	case "function", "func":
		if s.Name == "" {
			return nil, errors.New("function without name")
		}
		return Function{Name: s.Name, Extern: s.Extern}, nil
	case "int", "integer":
		if s.Bits == 0 {
			return nil, errors.New("integer without bits")
		}
		return Integer{Bits: s.Bits, Signed: s.Signed}, nil
	case "struct":
		return Struct{Name: s.Name, ByteSize: s.Size}, nil
	case "union":
		return Union{Name: s.Name, ByteSize: s.Size}, nil
	case "array":
		elem, err := s.Elem.TypeInfo()
		if err != nil {
			return nil, errors.Wrap(err, "array element")
		}
		return Array{Elem: elem, Count: s.Count}, nil
	default:
		return nil, errors.Errorf("unknown type kind %q", s.Kind)
	}
}

// extent resolves the annotation's extent. An explicit end wins; otherwise
// size, and finally the size of the type itself.
func (a *annotation) extent(info TypeInfo) (Range, error) {
	end := a.End
	if end == 0 {
		size := a.Size
		if size == 0 {
			size = info.Size()
		}
		if size == 0 {
			return Range{}, errors.Errorf("annotation at 0x%x has no extent", a.Start)
		}
		end = a.Start + size
		if end < a.Start {
			end = ^uint64(0)
		}
	}
	if end <= a.Start {
		return Range{}, errors.Errorf("annotation at 0x%x ends at 0x%x", a.Start, end)
	}
	return Range{a.Start, end}, nil
}

// LoadAnnotations reads a YAML list of typed address ranges and inserts
// them into reg. Nothing is inserted if any record is invalid.
func LoadAnnotations(r io.Reader, reg *TypeRegistry) (int, error) {
	var list []annotation
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&list); err != nil && err != io.EOF {
		return 0, errors.Wrap(err, "failed to decode annotations")
	}
	type pending struct {
		r    Range
		info TypeInfo
	}
	batch := make([]pending, 0, len(list))
	for i := range list {
		a := &list[i]
		info, err := a.Type.TypeInfo()
		if err != nil {
			return 0, errors.Wrapf(err, "annotation %d", i)
		}
		rng, err := a.extent(info)
		if err != nil {
			return 0, errors.Wrapf(err, "annotation %d", i)
		}
		batch = append(batch, pending{rng, info})
	}
	for _, p := range batch {
		reg.Insert(p.r, p.info)
	}
	return len(batch), nil
}
