package urlkit

import (
	"fmt"
	"strings"
	"sync"

	"braces.dev/errtrace"
	"golang.org/x/net/idna"

	"github.com/ghettovoice/urlkit/internal/errorutil"
	"github.com/ghettovoice/urlkit/internal/grammar"
	"github.com/ghettovoice/urlkit/internal/util"
)

// memoCell caches one decoded component. The underlying URL is immutable,
// so a component decodes at most once.
type memoCell[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (c *memoCell[T]) get(f func() (T, error)) (T, error) {
	c.once.Do(func() { c.val, c.err = f() })
	return c.val, errtrace.Wrap(c.err)
}

// decodedMemo sits behind a pointer so that DecodedURL values stay
// copyable and assignable.
type decodedMemo struct {
	userinfo memoCell[string]
	host     memoCell[string]
	path     memoCell[[]string]
	query    memoCell[[]QueryParam]
	fragment memoCell[string]
}

// DecodedURL is the human-readable view of a [URL]: component accessors
// return percent-decoded text, the hostname IDNA-decoded. Decoding is
// strict, a component holding an undecodable percent sequence reports
// [ErrInvalidEncoding] from its accessor. Decoding happens on first access
// and is cached; [Parse] forces it up front, [ParseLazy] defers it.
//
// Like URL, the value is immutable and safe for concurrent use.
type DecodedURL struct {
	url  *URL
	memo *decodedMemo
}

// WrapEncoded wraps an encoded URL in its decoded view without copying.
func WrapEncoded(u *URL) *DecodedURL {
	if u == nil {
		u = &URL{}
	}
	return &DecodedURL{url: u, memo: &decodedMemo{}}
}

// Encoded returns the underlying encoded URL.
func (d *DecodedURL) Encoded() *URL {
	if d == nil || d.url == nil {
		return &URL{}
	}
	return d.url
}

// cells returns the memo block, or a throwaway one for zero values so that
// accessors stay usable, just uncached.
func (d *DecodedURL) cells() *decodedMemo {
	if d == nil || d.memo == nil {
		return &decodedMemo{}
	}
	return d.memo
}

// decodeAll forces every component decode, returning the first failure.
func (d *DecodedURL) decodeAll() error {
	if _, err := d.Userinfo(); err != nil {
		return errtrace.Wrap(err)
	}
	if _, err := d.Host(); err != nil {
		return errtrace.Wrap(err)
	}
	if _, err := d.Path(); err != nil {
		return errtrace.Wrap(err)
	}
	if _, err := d.Query(); err != nil {
		return errtrace.Wrap(err)
	}
	_, err := d.Fragment()
	return errtrace.Wrap(err)
}

// Scheme returns the lowercase URI scheme, empty for relative references.
func (d *DecodedURL) Scheme() string { return d.Encoded().Scheme() }

// Port returns the port and whether one is set.
func (d *DecodedURL) Port() (int, bool) { return d.Encoded().Port() }

// Rooted reports whether the path conceptually starts at "/".
func (d *DecodedURL) Rooted() bool { return d.Encoded().Rooted() }

// Family returns the host classification.
func (d *DecodedURL) Family() Family { return d.Encoded().Family() }

// IsAbsolute reports whether both scheme and host are set.
func (d *DecodedURL) IsAbsolute() bool { return d.Encoded().IsAbsolute() }

// Userinfo returns the decoded userinfo, the user and password parts
// decoded separately around the first ":".
func (d *DecodedURL) Userinfo() (string, error) {
	u := d.Encoded()
	return errtrace.Wrap2(d.cells().userinfo.get(func() (string, error) {
		userinfo := u.Userinfo()
		if userinfo == "" {
			return "", nil
		}
		user, passwd, found := strings.Cut(userinfo, ":")
		user, err := grammar.Decode(user)
		if err != nil {
			return "", errtrace.Wrap(err)
		}
		if !found {
			return user, nil
		}
		passwd, err = grammar.Decode(passwd)
		if err != nil {
			return "", errtrace.Wrap(err)
		}
		return user + ":" + passwd, nil
	}))
}

// User returns the decoded userinfo up to the first ":".
func (d *DecodedURL) User() (string, error) {
	user, _, _ := strings.Cut(d.Encoded().Userinfo(), ":")
	return errtrace.Wrap2(grammar.Decode(user))
}

// Host returns the hostname as it should be presented to a human: an
// IDNA-encoded name is converted back to Unicode, IP literals pass through.
func (d *DecodedURL) Host() (string, error) {
	u := d.Encoded()
	return errtrace.Wrap2(d.cells().host.get(func() (string, error) {
		host := u.Host()
		if u.Family() != FamilyNone || !util.IsASCII(host) {
			return host, nil
		}
		host, err := idna.ToUnicode(host)
		if err != nil {
			return "", errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidHost, err))
		}
		return host, nil
	}))
}

// Path returns the decoded path segments.
func (d *DecodedURL) Path() ([]string, error) {
	u := d.Encoded()
	segs, err := d.cells().path.get(func() ([]string, error) {
		raw := u.Path()
		for i, seg := range raw {
			dec, err := grammar.Decode(seg)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			raw[i] = dec
		}
		return raw, nil
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	out := make([]string, len(segs))
	copy(out, segs)
	return out, nil
}

// Query returns the decoded query pairs in source order.
func (d *DecodedURL) Query() ([]QueryParam, error) {
	u := d.Encoded()
	pairs, err := d.cells().query.get(func() ([]QueryParam, error) {
		raw := u.Query()
		for i, p := range raw {
			key, err := grammar.Decode(p.Key)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			val, err := grammar.Decode(p.Value)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			raw[i] = QueryParam{Key: key, Value: val, HasValue: p.HasValue}
		}
		return raw, nil
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	out := make([]QueryParam, len(pairs))
	copy(out, pairs)
	return out, nil
}

// Fragment returns the decoded fragment.
func (d *DecodedURL) Fragment() (string, error) {
	u := d.Encoded()
	return errtrace.Wrap2(d.cells().fragment.get(func() (string, error) {
		return errtrace.Wrap2(grammar.Decode(u.Fragment()))
	}))
}

// Get returns all decoded values associated with the given decoded query
// parameter name, in order of appearance.
func (d *DecodedURL) Get(name string) ([]string, error) {
	pairs, err := d.Query()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	var vals []string
	for _, p := range pairs {
		if p.Key == name {
			vals = append(vals, p.Value)
		}
	}
	return vals, nil
}

// Replace returns a new decoded view with the given components replaced on
// the underlying encoded URL. Options take encoded text, same as
// [URL.Replace].
func (d *DecodedURL) Replace(opts ...URLOption) (*DecodedURL, error) {
	u, err := d.Encoded().Replace(opts...)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return WrapEncoded(u), nil
}

// Add returns a new decoded view with the name=value query parameter
// appended. Name and value are plain text and get percent-encoded.
func (d *DecodedURL) Add(name, value string) (*DecodedURL, error) {
	u, err := d.Encoded().Add(
		grammar.Encode(name, grammar.ComponentQuery, true),
		grammar.Encode(value, grammar.ComponentQuery, true),
	)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return WrapEncoded(u), nil
}

// AddFlag returns a new decoded view with the stand-alone query parameter
// name appended.
func (d *DecodedURL) AddFlag(name string) (*DecodedURL, error) {
	u, err := d.Encoded().AddFlag(grammar.Encode(name, grammar.ComponentQuery, true))
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return WrapEncoded(u), nil
}

// Set returns a new decoded view with every occurrence of the named query
// parameter replaced by a single name=value pair. Name and value are plain
// text and get percent-encoded.
func (d *DecodedURL) Set(name, value string) (*DecodedURL, error) {
	u, err := d.Encoded().Set(
		grammar.Encode(name, grammar.ComponentQuery, true),
		grammar.Encode(value, grammar.ComponentQuery, true),
	)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return WrapEncoded(u), nil
}

// Remove returns a new decoded view with every occurrence of the named
// query parameter dropped.
func (d *DecodedURL) Remove(name string) (*DecodedURL, error) {
	u, err := d.Encoded().Remove(grammar.Encode(name, grammar.ComponentQuery, true))
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return WrapEncoded(u), nil
}

// Click resolves the given URI reference against this base URL, see
// [URL.Click].
func (d *DecodedURL) Click(href string) (*DecodedURL, error) {
	u, err := d.Encoded().Click(href)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return WrapEncoded(u), nil
}

// Child returns a new decoded view with the given plain-text path segments
// appended.
func (d *DecodedURL) Child(segments ...string) (*DecodedURL, error) {
	enc := make([]string, len(segments))
	for i, seg := range segments {
		enc[i] = grammar.Encode(seg, grammar.ComponentPath, true)
	}
	u, err := d.Encoded().Child(enc...)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return WrapEncoded(u), nil
}

// Sibling returns a new decoded view with its final path segment replaced
// by the given plain-text segment.
func (d *DecodedURL) Sibling(segment string) (*DecodedURL, error) {
	u, err := d.Encoded().Sibling(grammar.Encode(segment, grammar.ComponentPath, true))
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return WrapEncoded(u), nil
}

// Equal compares against another decoded view or a bare [URL]; two decoded
// views are equal exactly when their encoded forms are.
func (d *DecodedURL) Equal(val any) bool {
	if other, ok := val.(*DecodedURL); ok {
		if d == other {
			return true
		} else if other == nil {
			return false
		}
		val = other.Encoded()
	}
	return d.Encoded().Equal(val)
}

// Render returns the textual representation of the underlying URL.
func (d *DecodedURL) Render(opts *RenderOptions) string { return d.Encoded().Render(opts) }

// String returns the default rendering, with secrets redacted.
func (d *DecodedURL) String() string { return d.Encoded().String() }

// MarshalText implements [encoding.TextMarshaler].
func (d *DecodedURL) MarshalText() ([]byte, error) {
	return errtrace.Wrap2(d.Encoded().MarshalText())
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *DecodedURL) UnmarshalText(text []byte) error {
	d2, err := Parse(string(text))
	if err != nil {
		*d = *WrapEncoded(nil)
		return errtrace.Wrap(err)
	}
	*d = *d2
	return nil
}

// Format implements fmt.Formatter for custom formatting of the URL.
func (d *DecodedURL) Format(f fmt.State, verb rune) {
	d.Encoded().Format(f, verb)
}
