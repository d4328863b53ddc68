// Package mapping decodes and encodes the Source Map v3 mappings blob into
// an indexable sequence of Frames, and answers bidirectional position
// queries with bias-based tie-breaking over that index.
package mapping

import "github.com/gosrcmap/sourcemap/pkg/srcmaperr"

// Bias controls how GetByGenerated/GetByOriginal resolve a query position
// that falls strictly between two mapped columns.
type Bias int

const (
	// Exact returns a segment only on an exact column match.
	Exact Bias = iota
	// Floor returns the greatest segment with column <= target.
	Floor
	// Ceiling returns the least segment with column >= target.
	Ceiling
)

// Segment is one position correspondence between generated and original
// source. SourceIndex, Line and Column are only meaningful when HasSource
// is true; NameIndex is only meaningful when HasName is true. Generated
// lines/columns and original lines/columns are 1-based in this in-memory
// representation (the wire format is 0-based).
type Segment struct {
	GeneratedLine   int
	GeneratedColumn int

	HasSource   bool
	SourceIndex int
	Line        int
	Column      int

	HasName   bool
	NameIndex int
}

// NewSegment validates and constructs a Segment from already-resolved
// absolute (not delta) values, for programmatic (non-decode) construction.
func NewSegment(generatedLine, generatedColumn int, hasSource bool, sourceIndex, line, column int, hasName bool, nameIndex int) (Segment, error) {
	if generatedLine < 1 {
		return Segment{}, srcmaperr.InvalidSegmentFieldErr("generatedLine", generatedLine)
	}
	if generatedColumn < 1 {
		return Segment{}, srcmaperr.InvalidSegmentFieldErr("generatedColumn", generatedColumn)
	}
	if hasSource {
		if sourceIndex < 0 {
			return Segment{}, srcmaperr.InvalidSegmentFieldErr("sourceIndex", sourceIndex)
		}
		if line < 1 {
			return Segment{}, srcmaperr.InvalidSegmentFieldErr("line", line)
		}
		if column < 1 {
			return Segment{}, srcmaperr.InvalidSegmentFieldErr("column", column)
		}
	}
	if hasName && nameIndex < 0 {
		return Segment{}, srcmaperr.InvalidSegmentFieldErr("nameIndex", nameIndex)
	}
	return Segment{
		GeneratedLine:   generatedLine,
		GeneratedColumn: generatedColumn,
		HasSource:       hasSource,
		SourceIndex:     sourceIndex,
		Line:            line,
		Column:          column,
		HasName:         hasName,
		NameIndex:       nameIndex,
	}, nil
}

// Frame is the ordered sequence of Segments sharing one generated line. A
// nil or zero-length Frame represents a generated line with no mappings.
type Frame []Segment

// Map is a dense, ordered sequence of Frames indexed by generatedLine-1.
type Map []Frame

// Offset is the transient accumulator threaded through decode/encode. All
// fields start at zero except when seeded for concatenation (NameIndex,
// SourceIndex, GeneratedLine bases).
type Offset struct {
	Line            int
	Column          int
	NameIndex       int
	SourceIndex     int
	GeneratedLine   int
	GeneratedColumn int
}
