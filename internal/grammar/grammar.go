// Package grammar implements the RFC 3986 character classes, percent codec,
// host classification and generic URL decomposition.
package grammar

//go:generate errtrace -w .

// Error is a grammar error.
type Error string

func (e Error) Error() string { return string(e) }

func (Error) Grammar() bool { return true }

const (
	ErrInvalidPort     Error = "invalid port"
	ErrInvalidHost     Error = "invalid host"
	ErrInvalidScheme   Error = "invalid scheme"
	ErrInvalidEncoding Error = "invalid percent-encoding"
)

// IsValidScheme checks that the scheme consists of the characters the
// RFC 3986 scheme rule allows: ALPHA / DIGIT / "+" / "-" / ".". The empty
// scheme is accepted, it stands for a relative reference.
func IsValidScheme[T ~string](s T) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isAlphanum(c) && c != '+' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

func isAlphanum(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

func isHex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

const upperhex = "0123456789ABCDEF"
