package sourcemap

// Position is the result of a bidirectional position query, joining a
// Segment against the owning Service's names/sources arrays.
type Position struct {
	Name            *string
	Source          string
	SourceRoot      *string
	SourceIndex     int
	OriginalLine    int
	OriginalColumn  int
	GeneratedLine   int
	GeneratedColumn int
}

// PositionWithCode adds the resolved source's text around the matched
// position to a Position.
type PositionWithCode struct {
	Position
	Code      []string
	StartLine int
	EndLine   int
}

// SnippetOptions bounds the window PositionWithSnippet extracts around the
// matched original line.
type SnippetOptions struct {
	LinesBefore int
	LinesAfter  int
}

// Default window returned by DefaultSnippetOptions. PositionWithSnippet uses
// the SnippetOptions it is passed as they are and does not substitute these
// values for zero fields.
const (
	DefaultLinesBefore = 3
	DefaultLinesAfter  = 4
)

// DefaultSnippetOptions returns a SnippetOptions holding DefaultLinesBefore
// and DefaultLinesAfter.
func DefaultSnippetOptions() SnippetOptions {
	return SnippetOptions{LinesBefore: DefaultLinesBefore, LinesAfter: DefaultLinesAfter}
}

// SourceRef selects a source either by its numeric index into Sources, or
// by a substring query matched against Sources (first containing match
// wins). Two constructors keep the input type enforced at compile time
// rather than sniffed at runtime.
type SourceRef struct {
	index   int
	query   string
	byIndex bool
}

// BySourceIndex selects a source by its numeric index into Sources.
func BySourceIndex(index int) SourceRef {
	return SourceRef{index: index, byIndex: true}
}

// BySourceQuery selects the first source whose path contains query.
func BySourceQuery(query string) SourceRef {
	return SourceRef{query: query}
}
