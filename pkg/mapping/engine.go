package mapping

import (
	"strings"

	"github.com/gosrcmap/sourcemap/pkg/srcmaperr"
	"github.com/gosrcmap/sourcemap/pkg/vlq"
)

// mappingsCharset is the full set of bytes a well-formed mappings blob may
// contain: the VLQ alphabet plus the two structural separators.
const mappingsCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/,;"

var validMappingsByte [256]bool

func init() {
	for i := 0; i < len(mappingsCharset); i++ {
		validMappingsByte[mappingsCharset[i]] = true
	}
}

// Engine owns a decoded Map; byte-level VLQ work is done by the vlq package.
type Engine struct {
	m Map
}

// NewEngine wraps an already-built Map, for callers constructing frames
// programmatically rather than decoding a blob.
func NewEngine(m Map) *Engine {
	return &Engine{m: m}
}

// FromFrames builds an Engine directly from a Map of already-resolved
// frames. namesBase and sourcesBase are accepted for symmetry with
// FromString but are not consulted here: frames passed to FromFrames
// already carry absolute (non-delta) indices.
func FromFrames(frames Map, namesBase, sourcesBase int) *Engine {
	return &Engine{m: frames}
}

// FromString decodes a mappings blob into a new Engine. namesBase and
// sourcesBase seed the name/source-index accumulator fields (nonzero only
// when decoding the right-hand side of a concatenation). linesBase is the
// number of frames already present in the map this blob is being decoded
// into (0 for a standalone decode); the resulting frames' 1-based
// GeneratedLine fields start at linesBase+1, so a blob decoded for
// concatenation lands immediately after the frames already present in the
// left-hand map.
func FromString(blob string, namesBase, sourcesBase, linesBase int) (*Engine, error) {
	if err := validateCharset(blob); err != nil {
		return nil, err
	}

	lines := strings.Split(blob, ";")
	frames := make(Map, 0, len(lines))

	off := Offset{
		NameIndex:   namesBase,
		SourceIndex: sourcesBase,
	}

	for i, line := range lines {
		off.GeneratedLine = linesBase + i + 1
		if line == "" {
			frames = append(frames, nil)
			continue
		}

		off.GeneratedColumn = 0
		segStrs := strings.Split(line, ",")
		frame := make(Frame, 0, len(segStrs))

		for segIdx, segStr := range segStrs {
			values, err := vlq.Decode(segStr)
			if err != nil {
				return nil, err
			}
			seg, err := applyDelta(&off, values, i, segIdx)
			if err != nil {
				return nil, err
			}
			frame = append(frame, seg)
		}
		frames = append(frames, frame)
	}

	return &Engine{m: frames}, nil
}

func validateCharset(blob string) error {
	for i := 0; i < len(blob); i++ {
		if !validMappingsByte[blob[i]] {
			return srcmaperr.InvalidMappingsCharsetErr(blob[i], i)
		}
	}
	return nil
}

// applyDelta applies one decoded delta vector to the offset accumulator and
// returns the resulting 1-based Segment. frame/segIdx are 0-based indices
// used only for error context.
func applyDelta(off *Offset, values []int, frame, segIdx int) (Segment, error) {
	switch len(values) {
	case 1, 4, 5:
	default:
		return Segment{}, srcmaperr.InvalidSegmentLenErr(frame, segIdx, len(values))
	}

	off.GeneratedColumn += values[0]
	if off.GeneratedColumn < 0 {
		return Segment{}, srcmaperr.NegativeCoordinateErr("generatedColumn", frame, segIdx)
	}

	seg := Segment{
		GeneratedLine:   off.GeneratedLine,
		GeneratedColumn: off.GeneratedColumn + 1,
	}

	if len(values) >= 4 {
		off.SourceIndex += values[1]
		if off.SourceIndex < 0 {
			return Segment{}, srcmaperr.NegativeCoordinateErr("sourceIndex", frame, segIdx)
		}
		off.Line += values[2]
		if off.Line < 0 {
			return Segment{}, srcmaperr.NegativeCoordinateErr("line", frame, segIdx)
		}
		off.Column += values[3]
		if off.Column < 0 {
			return Segment{}, srcmaperr.NegativeCoordinateErr("column", frame, segIdx)
		}
		seg.HasSource = true
		seg.SourceIndex = off.SourceIndex
		seg.Line = off.Line + 1
		seg.Column = off.Column + 1
	}

	if len(values) == 5 {
		off.NameIndex += values[4]
		if off.NameIndex < 0 {
			return Segment{}, srcmaperr.NegativeCoordinateErr("nameIndex", frame, segIdx)
		}
		seg.HasName = true
		seg.NameIndex = off.NameIndex
	}

	return seg, nil
}

// Map returns the decoded frame sequence.
func (e *Engine) Map() Map {
	return e.m
}

// Encode serializes the Engine's frames back to the v3 wire mappings format.
func (e *Engine) Encode() string {
	var b strings.Builder
	off := Offset{}

	for i, frame := range e.m {
		if i > 0 {
			b.WriteByte(';')
		}
		if len(frame) == 0 {
			continue
		}
		off.GeneratedColumn = 0
		for segIdx, seg := range frame {
			if segIdx > 0 {
				b.WriteByte(',')
			}
			b.WriteString(encodeSegmentDelta(&off, seg))
		}
	}
	return b.String()
}

func encodeSegmentDelta(off *Offset, seg Segment) string {
	genCol := seg.GeneratedColumn - 1
	values := make([]int, 1, 5)
	values[0] = genCol - off.GeneratedColumn
	off.GeneratedColumn = genCol

	if seg.HasSource {
		line := seg.Line - 1
		col := seg.Column - 1
		values = append(values,
			seg.SourceIndex-off.SourceIndex,
			line-off.Line,
			col-off.Column,
		)
		off.SourceIndex = seg.SourceIndex
		off.Line = line
		off.Column = col

		if seg.HasName {
			values = append(values, seg.NameIndex-off.NameIndex)
			off.NameIndex = seg.NameIndex
		}
	}

	return vlq.EncodeArray(values)
}

// GetByGenerated looks up the segment at (line, column) in the generated
// axis, applying bias when there is no exact column match. line and column
// are 1-based; an out-of-range line or an empty frame returns (Segment{}, false).
func (e *Engine) GetByGenerated(line, column int, bias Bias) (Segment, bool) {
	if line < 1 || line > len(e.m) {
		return Segment{}, false
	}
	frame := e.m[line-1]
	if len(frame) == 0 {
		return Segment{}, false
	}

	low, high := 0, len(frame)
	for low < high {
		mid := (low + high) / 2
		if frame[mid].GeneratedColumn < column {
			low = mid + 1
		} else {
			high = mid
		}
	}

	if low < len(frame) && frame[low].GeneratedColumn == column {
		return frame[low], true
	}

	switch bias {
	case Floor:
		if low == 0 {
			return Segment{}, false
		}
		return frame[low-1], true
	case Ceiling:
		if low >= len(frame) {
			return Segment{}, false
		}
		return frame[low], true
	default: // Exact
		return Segment{}, false
	}
}

// GetByOriginal looks up a segment by its original-axis position. It scans
// all frames (the index is ordered by the generated axis, not the original
// one), restricting to segments attributed to sourceIndex and comparing
// (line, column) lexicographically.
func (e *Engine) GetByOriginal(sourceIndex, line, column int, bias Bias) (Segment, bool) {
	var floorCand, ceilCand Segment
	haveFloor, haveCeil := false, false

	for _, frame := range e.m {
		for _, seg := range frame {
			if !seg.HasSource || seg.SourceIndex != sourceIndex {
				continue
			}
			switch compareOriginal(seg, line, column) {
			case 0:
				return seg, true
			case -1:
				// Replace on seg > floorCand (new max) or seg == floorCand
				// (tie; the later-encountered segment wins).
				if !haveFloor || !less(seg, floorCand) {
					floorCand, haveFloor = seg, true
				}
			case 1:
				if !haveCeil || less(seg, ceilCand) {
					ceilCand, haveCeil = seg, true
				}
			}
		}
	}

	switch bias {
	case Floor:
		if !haveFloor {
			return Segment{}, false
		}
		return floorCand, true
	case Ceiling:
		if !haveCeil {
			return Segment{}, false
		}
		return ceilCand, true
	default: // Exact
		return Segment{}, false
	}
}

// compareOriginal compares seg's (Line, Column) against the target,
// returning -1, 0 or 1 as seg is before, at, or after the target.
func compareOriginal(seg Segment, line, column int) int {
	switch {
	case seg.Line < line:
		return -1
	case seg.Line > line:
		return 1
	case seg.Column < column:
		return -1
	case seg.Column > column:
		return 1
	default:
		return 0
	}
}

// less reports whether a's (Line, Column) sorts strictly before b's.
func less(a, b Segment) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}
