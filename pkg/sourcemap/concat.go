package sourcemap

import (
	"github.com/gosrcmap/sourcemap/pkg/mapping"
	"github.com/gosrcmap/sourcemap/pkg/srcmaperr"
)

// Concat appends each of others, in call order, onto s: names and sources
// are appended, sourcesContent is appended (padded with empty strings only
// where strictly necessary to keep index alignment with sources), and each
// other's frames are decoded with namesBase/sourcesBase/linesBase seeded
// from s's current arrays. On any error s is left unchanged: the merge is
// staged into a copy and only committed on full success.
func (s *Service) Concat(others ...*Service) error {
	if len(others) == 0 {
		return srcmaperr.EmptyConcatErr()
	}
	merged, err := concatInto(s.clone(), others, s.logger)
	if err != nil {
		return err
	}
	*s = *merged
	return nil
}

// ConcatNewMap returns a new Service holding s plus others concatenated in
// call order, leaving s untouched.
func (s *Service) ConcatNewMap(others ...*Service) (*Service, error) {
	if len(others) == 0 {
		return nil, srcmaperr.EmptyConcatErr()
	}
	return concatInto(s.clone(), others, s.logger)
}

// clone makes an independent copy of s's mutable state (envelope slices and
// decoded frames) so Concat/ConcatNewMap can stage changes without
// mutating the original on failure.
func (s *Service) clone() *Service {
	env := Envelope{
		Version:    s.env.Version,
		File:       s.env.File,
		SourceRoot: s.env.SourceRoot,
		Mappings:   s.env.Mappings,
	}
	env.Names = append([]string(nil), s.env.Names...)
	env.Sources = append([]string(nil), s.env.Sources...)
	env.SourcesContent = append([]*string(nil), s.env.SourcesContent...)

	frames := append(mapping.Map(nil), s.engine.Map()...)

	return &Service{env: env, engine: mapping.NewEngine(frames), logger: s.logger}
}

func concatInto(base *Service, others []*Service, logger Logger) (*Service, error) {
	for _, other := range others {
		namesBase := len(base.env.Names)
		sourcesBase := len(base.env.Sources)
		linesBase := len(base.engine.Map())

		newEngine, err := mapping.FromString(other.env.Mappings, namesBase, sourcesBase, linesBase)
		if err != nil {
			return nil, err
		}

		base.env.Names = append(base.env.Names, other.env.Names...)
		base.env.Sources = append(base.env.Sources, other.env.Sources...)
		base.env.SourcesContent = concatSourcesContent(
			base.env.SourcesContent, sourcesBase,
			other.env.SourcesContent, len(other.env.Sources),
			logger,
		)

		base.engine = mapping.NewEngine(append(base.engine.Map(), newEngine.Map()...))
	}

	base.env.Mappings = base.engine.Encode()
	return base, nil
}

// concatSourcesContent appends right onto left, padding each side with
// empty-string entries only where strictly necessary to keep each array
// aligned with its own sources count. If neither side carries any content
// at all, no array is introduced.
func concatSourcesContent(left []*string, leftSources int, right []*string, rightSources int, logger Logger) []*string {
	if len(left) == 0 && len(right) == 0 {
		return nil
	}

	if missing := leftSources - len(left); missing > 0 {
		logger.Warnf("padding %d missing sourcesContent entries to preserve index alignment", missing)
		left = append(append([]*string(nil), left...), emptyStrings(missing)...)
	}
	if missing := rightSources - len(right); missing > 0 {
		logger.Warnf("padding %d missing sourcesContent entries to preserve index alignment", missing)
		right = append(append([]*string(nil), right...), emptyStrings(missing)...)
	}

	return append(left, right...)
}

func emptyStrings(n int) []*string {
	out := make([]*string, n)
	for i := range out {
		empty := ""
		out[i] = &empty
	}
	return out
}
