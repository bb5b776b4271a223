package instrument

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSignature is returned for patterns that are not space separated hex bytes.
var ErrInvalidSignature = errors.New("invalid signature")

// Signature is a byte pattern where masked-out positions match anything.
type Signature struct {
	text  string
	bytes []byte
	mask  []bool
}

// ParseSignature parses "0F 28 ?? 10 02" style patterns. "?" and "??" are wildcards.
func ParseSignature(s string) (Signature, error) {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return Signature{}, fmt.Errorf("%w: empty pattern", ErrInvalidSignature)
	}

	sig := Signature{
		text:  strings.Join(tokens, " "),
		bytes: make([]byte, len(tokens)),
		mask:  make([]bool, len(tokens)),
	}
	for i, tok := range tokens {
		if tok == "?" || tok == "??" {
			continue
		}
		if len(tok) != 2 {
			return Signature{}, fmt.Errorf("%w: token %q at %d", ErrInvalidSignature, tok, i)
		}
		b, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return Signature{}, fmt.Errorf("%w: token %q at %d", ErrInvalidSignature, tok, i)
		}
		sig.bytes[i] = byte(b)
		sig.mask[i] = true
	}
	if !sig.anchored() {
		return Signature{}, fmt.Errorf("%w: pattern is all wildcards", ErrInvalidSignature)
	}
	return sig, nil
}

// MustParseSignature is ParseSignature for literal patterns known to be valid.
func MustParseSignature(s string) Signature {
	sig, err := ParseSignature(s)
	if err != nil {
		panic(err)
	}
	return sig
}

func (s Signature) anchored() bool {
	for _, m := range s.mask {
		if m {
			return true
		}
	}
	return false
}

// Len is the pattern length in bytes.
func (s Signature) Len() int {
	return len(s.bytes)
}

func (s Signature) String() string {
	return s.text
}

// Index returns the offset of the first match in image, or -1.
func (s Signature) Index(image []byte) int {
	n := len(s.bytes)
	for i := 0; i+n <= len(image); i++ {
		if s.matchAt(image, i) {
			return i
		}
	}
	return -1
}

func (s Signature) matchAt(image []byte, at int) bool {
	for j, want := range s.bytes {
		if s.mask[j] && image[at+j] != want {
			return false
		}
	}
	return true
}
