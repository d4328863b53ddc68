// Package vlq implements the base64 variable-length quantity encoding used
// by the Source Map v3 mappings field: a sign-bit-first, little-endian
// base-32 digit stream rendered through the standard base64 alphabet.
package vlq

import "github.com/gosrcmap/sourcemap/pkg/srcmaperr"

const (
	baseShift       = 5
	base            = 1 << baseShift // 32
	baseMask        = base - 1       // 31
	continuationBit = base           // 32
)

// alphabet is the fixed 64-character VLQ digit table.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// digitValue maps an alphabet byte to its 6-bit digit value, or -1 if the
// byte is not part of the VLQ alphabet.
var digitValue [256]int8

func init() {
	for i := range digitValue {
		digitValue[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		digitValue[alphabet[i]] = int8(i)
	}
}

// Encode renders a single signed integer as a VLQ string. Zero encodes to "A".
func Encode(value int) string {
	var carrier int
	if value < 0 {
		carrier = ((-value) << 1) | 1
	} else {
		carrier = value << 1
	}

	// Common case: value fits in a single digit.
	if carrier>>baseShift == 0 {
		return string(alphabet[carrier])
	}

	buf := make([]byte, 0, 7)
	for {
		digit := carrier & baseMask
		carrier >>= baseShift
		if carrier != 0 {
			digit |= continuationBit
		}
		buf = append(buf, alphabet[digit])
		if carrier == 0 {
			break
		}
	}
	return string(buf)
}

// EncodeArray concatenates the VLQ encoding of each integer with no separator.
func EncodeArray(values []int) string {
	if len(values) == 0 {
		return ""
	}
	var out []byte
	for _, v := range values {
		out = append(out, Encode(v)...)
	}
	return string(out)
}

// Decode reads a full VLQ-encoded string and returns every integer it contains.
func Decode(s string) ([]int, error) {
	var out []int
	pos := 0
	for pos < len(s) {
		v, next, err := decodeOne(s, pos)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		pos = next
	}
	return out, nil
}

// decodeOne reads a single VLQ integer starting at pos and returns its value
// together with the index immediately after it. Decode loops over it, and it
// is exported as DecodeOne.
func decodeOne(s string, pos int) (value int, next int, err error) {
	shift := 0
	acc := 0
	for {
		if pos >= len(s) {
			return 0, pos, srcmaperr.InvalidVLQCharErr(0, pos)
		}
		b := s[pos]
		d := digitValue[b]
		if d < 0 {
			return 0, pos, srcmaperr.InvalidVLQCharErr(b, pos)
		}
		pos++
		acc |= int(d&0x1F) << shift
		shift += baseShift
		if d&0x20 == 0 {
			break
		}
	}

	sign := acc & 1
	magnitude := acc >> 1
	if sign == 1 {
		magnitude = -magnitude
	}
	return magnitude, pos, nil
}

// DecodeOne is the exported form of decodeOne: it reads one integer starting
// at pos. The mapping package does not use it; it splits the blob on ';' and
// ',' and calls Decode once per segment.
func DecodeOne(s string, pos int) (value int, next int, err error) {
	return decodeOne(s, pos)
}
