// Package sourcemap is the top-level Source Map v3 service: it owns an
// Envelope (the wire-format arrays) and a mapping.Engine (the decoded
// frame index), and answers position queries, concatenation, and
// serialization over the two in combination.
package sourcemap

import (
	"encoding/json"
	"strings"

	"github.com/gosrcmap/sourcemap/pkg/mapping"
	"github.com/gosrcmap/sourcemap/pkg/srcmaperr"
)

const supportedVersion = 3

// Config carries the optional construction-time dependencies of a Service.
type Config struct {
	// Logger receives the permissible construction/concat warnings (§2.2 of
	// SPEC_FULL.md). A nil Logger is treated as a no-op.
	Logger Logger
	// File overrides the envelope's file field, if set.
	File string
}

// Service is the mutable owner of one source map's envelope and decoded
// mapping index. It is not safe for concurrent mutation; concurrent reads
// against an instance that is not being mutated are safe.
type Service struct {
	env    Envelope
	engine *mapping.Engine
	logger Logger
}

// New constructs a Service from an already-parsed Envelope. Required-key
// presence checking is only meaningful when parsing raw JSON — see
// Parse — since a Go Envelope value has no way to distinguish an absent
// field from a present-but-zero one.
func New(env Envelope, cfg Config) (*Service, error) {
	return newService(env, cfg)
}

func newService(env Envelope, cfg Config) (*Service, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	if cfg.File != "" {
		f := cfg.File
		env.File = &f
	}

	if env.Version == 0 {
		logger.Debugf("envelope missing version field, assuming version %d", supportedVersion)
	} else if env.Version != supportedVersion {
		return nil, srcmaperr.UnsupportedVersionErr(env.Version)
	}

	engine, err := mapping.FromString(env.Mappings, 0, 0, 0)
	if err != nil {
		return nil, err
	}

	return &Service{env: env, engine: engine, logger: logger}, nil
}

// Parse constructs a Service from a raw Source Map v3 JSON byte buffer.
// Unlike New, Parse can distinguish a key that is entirely absent (a
// MISSING_REQUIRED_KEY error) from one present but holding a zero value.
func Parse(data []byte, cfg Config) (*Service, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for _, key := range []string{"sources", "mappings", "names"} {
		if _, ok := raw[key]; !ok {
			return nil, srcmaperr.MissingRequiredKeyErr(key)
		}
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	return newService(env, cfg)
}

// Envelope returns a copy of the Service's current wire-format arrays.
// Mappings reflects the live decoded frames, re-encoded on demand. Names
// and Sources are always non-nil so that ToJSON never emits "names":null
// or "sources":null for a Service built from a zero-value Envelope.
func (s *Service) Envelope() Envelope {
	env := s.env
	env.Mappings = s.engine.Encode()
	if env.Names == nil {
		env.Names = []string{}
	}
	if env.Sources == nil {
		env.Sources = []string{}
	}
	return env
}

// ToJSON serializes the current envelope in the stable key order: version,
// file?, names, sources, mappings, sourcesContent?, sourceRoot?.
func (s *Service) ToJSON() ([]byte, error) {
	env := s.Envelope()
	return json.Marshal(env)
}

// PositionByGenerated resolves a generated (line, column) to its original
// position, applying bias when there is no exact column match.
func (s *Service) PositionByGenerated(line, column int, bias mapping.Bias) (*Position, bool) {
	seg, ok := s.engine.GetByGenerated(line, column, bias)
	if !ok {
		return nil, false
	}
	return s.toPosition(seg), true
}

// PositionByOriginal resolves an original (line, column) within the given
// source back to its generated position. It returns SourceNotFound when
// source is a query string matching no entry in Sources.
func (s *Service) PositionByOriginal(line, column int, source SourceRef, bias mapping.Bias) (*Position, bool, error) {
	idx, err := s.resolveSourceIndex(source)
	if err != nil {
		return nil, false, err
	}
	seg, ok := s.engine.GetByOriginal(idx, line, column, bias)
	if !ok {
		return nil, false, nil
	}
	return s.toPosition(seg), true, nil
}

func (s *Service) resolveSourceIndex(ref SourceRef) (int, error) {
	if ref.byIndex {
		return ref.index, nil
	}
	for i, src := range s.env.Sources {
		if strings.Contains(src, ref.query) {
			return i, nil
		}
	}
	return 0, srcmaperr.SourceNotFoundErr(ref.query)
}

func (s *Service) toPosition(seg mapping.Segment) *Position {
	pos := &Position{
		SourceRoot:      s.env.SourceRoot,
		GeneratedLine:   seg.GeneratedLine,
		GeneratedColumn: seg.GeneratedColumn,
	}
	if seg.HasSource {
		pos.SourceIndex = seg.SourceIndex
		pos.OriginalLine = seg.Line
		pos.OriginalColumn = seg.Column
		if seg.SourceIndex >= 0 && seg.SourceIndex < len(s.env.Sources) {
			pos.Source = s.env.Sources[seg.SourceIndex]
		}
	}
	if seg.HasName && seg.NameIndex >= 0 && seg.NameIndex < len(s.env.Names) {
		name := s.env.Names[seg.NameIndex]
		pos.Name = &name
	}
	return pos
}

// PositionWithContent resolves a generated position and attaches the full
// text of the resolved source, split on "\n". It returns false if no
// content is stored for the resolved source.
func (s *Service) PositionWithContent(line, column int, bias mapping.Bias) (*PositionWithCode, bool) {
	pos, ok := s.PositionByGenerated(line, column, bias)
	if !ok {
		return nil, false
	}
	content, ok := s.sourceContent(pos.SourceIndex)
	if !ok {
		return nil, false
	}
	lines := strings.Split(content, "\n")
	return &PositionWithCode{Position: *pos, Code: lines, StartLine: 0, EndLine: len(lines)}, true
}

// PositionWithSnippet resolves a generated position and attaches a bounded
// window of the resolved source's text around OriginalLine.
func (s *Service) PositionWithSnippet(line, column int, bias mapping.Bias, opts SnippetOptions) (*PositionWithCode, bool) {
	pos, ok := s.PositionByGenerated(line, column, bias)
	if !ok {
		return nil, false
	}
	content, ok := s.sourceContent(pos.SourceIndex)
	if !ok {
		return nil, false
	}
	lines := strings.Split(content, "\n")

	start := pos.OriginalLine - opts.LinesBefore
	if start < 0 {
		start = 0
	}
	end := pos.OriginalLine + opts.LinesAfter
	if end > len(lines) {
		end = len(lines)
	}

	return &PositionWithCode{
		Position:  *pos,
		Code:      lines[start:end],
		StartLine: start,
		EndLine:   end,
	}, true
}

func (s *Service) sourceContent(index int) (string, bool) {
	if index < 0 || index >= len(s.env.SourcesContent) {
		return "", false
	}
	c := s.env.SourcesContent[index]
	if c == nil {
		return "", false
	}
	return *c, true
}
