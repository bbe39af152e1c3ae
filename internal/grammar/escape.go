package grammar

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"braces.dev/errtrace"
	"golang.org/x/text/unicode/norm"

	"github.com/ghettovoice/urlkit/internal/errorutil"
	"github.com/ghettovoice/urlkit/internal/util"
)

// Component selects the safe-character set used when percent-encoding.
type Component uint8

const (
	ComponentUserinfo Component = iota
	ComponentPath
	ComponentQuery
	ComponentFragment
)

type charset [256]bool

func makeCharset(chars string) charset {
	var cs charset
	for i := 0; i < len(chars); i++ {
		cs[chars[i]] = true
	}
	return cs
}

func (cs charset) union(other charset) charset {
	for i, ok := range other {
		if ok {
			cs[i] = true
		}
	}
	return cs
}

func (cs charset) minus(chars string) charset {
	for i := 0; i < len(chars); i++ {
		cs[chars[i]] = false
	}
	return cs
}

func (cs charset) minusSet(other charset) charset {
	for i, ok := range other {
		if ok {
			cs[i] = false
		}
	}
	return cs
}

// RFC 3986 section 2.2-2.3 character classes.
var (
	unreservedSet = func() charset {
		cs := makeCharset("~-._")
		for c := byte(0); c < 0x80; c++ {
			if isAlphanum(c) {
				cs[c] = true
			}
		}
		return cs
	}()
	genDelimsSet = makeCharset(":/?#[]@")
	subDelimsSet = makeCharset("!$&'()*+,;=")
	allDelimsSet = genDelimsSet.union(subDelimsSet)

	userinfoSafe = unreservedSet.union(subDelimsSet)
	pathSafe     = userinfoSafe.union(makeCharset(":@%"))
	fragmentSafe = pathSafe.union(makeCharset("/?"))
	querySafe    = fragmentSafe.minus("&=+")
)

// quoteMap is a 256-entry substitution table: safe bytes map to themselves,
// the rest to their upper-case "%XX" form.
type quoteMap [256]string

func makeQuoteMap(safe charset) *quoteMap {
	var qm quoteMap
	for i := 0; i < 256; i++ {
		if safe[i] {
			qm[i] = string(byte(i))
		} else {
			qm[i] = "%" + string(upperhex[i>>4]) + string(upperhex[i&15])
		}
	}
	return &qm
}

var componentTables = [...]struct {
	quote  *quoteMap
	safe   charset
	delims charset
}{
	// The ":" separating user from password stays raw in minimal form.
	ComponentUserinfo: {makeQuoteMap(userinfoSafe), userinfoSafe, allDelimsSet.minusSet(userinfoSafe).minus(":")},
	ComponentPath:     {makeQuoteMap(pathSafe), pathSafe, allDelimsSet.minusSet(pathSafe)},
	ComponentQuery:    {makeQuoteMap(querySafe), querySafe, allDelimsSet.minusSet(querySafe)},
	ComponentFragment: {makeQuoteMap(fragmentSafe), fragmentSafe, allDelimsSet.minusSet(fragmentSafe)},
}

// Encode percent-encodes a single component of a URL.
//
// With maximal set, the text is NFC-normalized and every UTF-8 byte outside
// the component's safe set is replaced with its "%XX" form, converting a
// portion of an IRI into a portion of a URI. Existing valid "%XX" triplets
// are left untouched, so re-encoding encoded output is a no-op.
//
// Without maximal, only the ASCII delimiters reserved against the component
// are quoted, any other character passes through unchanged. This keeps
// IRI-style text readable in the default rendering.
func Encode(text string, comp Component, maximal bool) string {
	t := &componentTables[comp]
	if maximal {
		return encodeMaximal(text, t.quote)
	}
	return encodeMinimal(text, t.quote, &t.delims)
}

func encodeMaximal(text string, qm *quoteMap) string {
	text = norm.NFC.String(text)

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '%' && i+2 < len(text) && isHex(text[i+1]) && isHex(text[i+2]) {
			sb.WriteByte(text[i])
			sb.WriteByte(text[i+1])
			sb.WriteByte(text[i+2])
			i += 2
			continue
		}
		sb.WriteString(qm[c])
	}
	return sb.String()
}

func encodeMinimal(text string, qm *quoteMap, delims *charset) string {
	var hit bool
	for i := 0; i < len(text); i++ {
		if delims[text[i]] {
			hit = true
			break
		}
	}
	if !hit {
		return text
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if delims[c] {
			sb.WriteString(qm[c])
		} else {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// Decode percent-decodes a component into UTF-8 text.
// Input containing non-ASCII text is returned unchanged, there is nothing
// to decode. Percent triplets with bad hex digits are kept verbatim.
// A result that is not valid UTF-8 is reported as [ErrInvalidEncoding].
func Decode(text string) (string, error) {
	if !util.IsASCII(text) || !strings.Contains(text, "%") {
		return text, nil
	}

	var b bytes.Buffer
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '%' && i+2 < len(text) && isHex(text[i+1]) && isHex(text[i+2]) {
			b.WriteByte(unhex(text[i+1])<<4 | unhex(text[i+2]))
			i += 2
		} else {
			b.WriteByte(text[i])
		}
	}
	if !utf8.Valid(b.Bytes()) {
		return "", errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidEncoding, "%q is not valid UTF-8", text))
	}
	return b.String(), nil
}

// Unescape is the lossy-safe variant of [Decode]: undecodable input is
// returned unchanged instead of raising an error.
func Unescape(text string) string {
	s, err := Decode(text)
	if err != nil {
		return text
	}
	return s
}

// DecodeIRI decodes percent sequences for human-readable display. Triplets
// that decode to a reserved delimiter or to "%" stay encoded, otherwise
// decoding and re-encoding would not round-trip; everything else, including
// multi-byte UTF-8 runs, is decoded. Undecodable input is returned
// unchanged.
func DecodeIRI(text string) string {
	if !util.IsASCII(text) || !strings.Contains(text, "%") {
		return text
	}

	var b bytes.Buffer
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '%' && i+2 < len(text) && isHex(text[i+1]) && isHex(text[i+2]) {
			c := unhex(text[i+1])<<4 | unhex(text[i+2])
			if c < 0x80 && (allDelimsSet[c] || c == '%') {
				b.WriteByte(text[i])
				b.WriteByte(text[i+1])
				b.WriteByte(text[i+2])
			} else {
				b.WriteByte(c)
			}
			i += 2
		} else {
			b.WriteByte(text[i])
		}
	}
	if !utf8.Valid(b.Bytes()) {
		return text
	}
	return b.String()
}
