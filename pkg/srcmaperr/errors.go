// Package srcmaperr defines the error taxonomy shared by the vlq, mapping
// and sourcemap packages. Errors carry a machine-readable Kind plus the
// frame/segment context callers need to localize a failure, rather than
// relying on string matching against Error().
package srcmaperr

import "fmt"

// Kind identifies the category of a codec/lookup failure.
type Kind int

const (
	// MissingRequiredKey means the envelope lacks sources, mappings or names.
	MissingRequiredKey Kind = iota
	// InvalidVLQChar means a byte outside the base64 VLQ alphabet was seen.
	InvalidVLQChar
	// InvalidMappingsCharset means the mappings blob contains a byte outside [A-Za-z0-9+/,;].
	InvalidMappingsCharset
	// InvalidSegmentLen means a decoded VLQ vector had a length other than 1, 4 or 5.
	InvalidSegmentLen
	// NegativeCoordinate means a delta drove an accumulator below zero.
	NegativeCoordinate
	// InvalidSegmentField means an out-of-range value was given to a constructor.
	InvalidSegmentField
	// NotAnArray means a structured decode input was not the expected array shape.
	NotAnArray
	// EmptyConcat means Concat was called with zero maps.
	EmptyConcat
	// SourceNotFound means a string source query matched no entry in sources.
	SourceNotFound
	// UnsupportedVersion means the envelope's version field is present but not 3.
	UnsupportedVersion
)

func (k Kind) String() string {
	switch k {
	case MissingRequiredKey:
		return "MISSING_REQUIRED_KEY"
	case InvalidVLQChar:
		return "INVALID_VLQ_CHAR"
	case InvalidMappingsCharset:
		return "INVALID_MAPPINGS_CHARSET"
	case InvalidSegmentLen:
		return "INVALID_SEGMENT_LEN"
	case NegativeCoordinate:
		return "NEGATIVE_COORDINATE"
	case InvalidSegmentField:
		return "INVALID_SEGMENT_FIELD"
	case NotAnArray:
		return "NOT_AN_ARRAY"
	case EmptyConcat:
		return "EMPTY_CONCAT"
	case SourceNotFound:
		return "SOURCE_NOT_FOUND"
	case UnsupportedVersion:
		return "UNSUPPORTED_VERSION"
	default:
		return "UNKNOWN"
	}
}

// Error is the concrete error type returned by this module. Frame and
// Segment are 0-based indices and are -1 when not applicable to Kind. For
// InvalidVLQChar and InvalidMappingsCharset, Segment holds the 0-based byte
// offset of the offending byte and Frame is -1.
type Error struct {
	kind    Kind
	Message string
	Frame   int
	Segment int
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Frame >= 0 && e.Segment >= 0:
		return fmt.Sprintf("%s: %s (frame %d, segment %d)", e.kind, e.Message, e.Frame, e.Segment)
	case e.Frame >= 0:
		return fmt.Sprintf("%s: %s (frame %d)", e.kind, e.Message, e.Frame)
	default:
		return fmt.Sprintf("%s: %s", e.kind, e.Message)
	}
}

// Unwrap exposes a wrapped cause, if any, so callers can errors.Is/As through it.
func (e *Error) Unwrap() error {
	return e.Err
}

// Kind reports the machine-readable category of this error.
func (e *Error) Kind() Kind {
	return e.kind
}

func newErr(k Kind, msg string) *Error {
	return &Error{kind: k, Message: msg, Frame: -1, Segment: -1}
}

// MissingRequiredKeyErr reports that the envelope lacks a required top-level key.
func MissingRequiredKeyErr(key string) *Error {
	return newErr(MissingRequiredKey, fmt.Sprintf("envelope is missing required key %q", key))
}

// InvalidVLQCharErr reports a non-alphabet byte at the given offset into a VLQ blob.
func InvalidVLQCharErr(b byte, offset int) *Error {
	e := newErr(InvalidVLQChar, fmt.Sprintf("byte %q is not a valid base64 VLQ digit", b))
	e.Segment = offset
	return e
}

// InvalidMappingsCharsetErr reports a byte outside the mappings charset.
func InvalidMappingsCharsetErr(b byte, offset int) *Error {
	e := newErr(InvalidMappingsCharset, fmt.Sprintf("byte %q is not in [A-Za-z0-9+/,;]", b))
	e.Segment = offset
	return e
}

// InvalidSegmentLenErr reports a decoded segment vector of illegal length.
func InvalidSegmentLenErr(frame, seg, length int) *Error {
	e := newErr(InvalidSegmentLen, fmt.Sprintf("segment has length %d, want 1, 4 or 5", length))
	e.Frame = frame
	e.Segment = seg
	return e
}

// NegativeCoordinateErr reports a delta that drove an accumulator field below 0.
func NegativeCoordinateErr(field string, frame, seg int) *Error {
	e := newErr(NegativeCoordinate, fmt.Sprintf("delta drives %s below 0", field))
	e.Frame = frame
	e.Segment = seg
	return e
}

// InvalidSegmentFieldErr reports an out-of-range value on programmatic construction.
func InvalidSegmentFieldErr(field string, received int) *Error {
	return newErr(InvalidSegmentField, fmt.Sprintf("field %s received invalid value %d", field, received))
}

// NotAnArrayErr reports a structured decode input that was not an array where expected.
func NotAnArrayErr(where string) *Error {
	return newErr(NotAnArray, fmt.Sprintf("expected an array at %s", where))
}

// EmptyConcatErr reports a Concat call with zero arguments.
func EmptyConcatErr() *Error {
	return newErr(EmptyConcat, "concat requires at least one map")
}

// SourceNotFoundErr reports a string source query that matched no entry.
func SourceNotFoundErr(query string) *Error {
	return newErr(SourceNotFound, fmt.Sprintf("no source matching %q", query))
}

// UnsupportedVersionErr reports an envelope whose version field is present
// but holds a value other than 3.
func UnsupportedVersionErr(version int) *Error {
	return newErr(UnsupportedVersion, fmt.Sprintf("version %d is present but not 3, the only accepted value", version))
}
