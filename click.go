package urlkit

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/urlkit/internal/errorutil"
)

// ResolveDotSegments normalizes a path by resolving "." and ".." segments,
// per RFC 3986 section 5.2.4. Excess ".." segments at the root are dropped,
// never an error. A trailing "." or ".." leaves a trailing empty segment so
// that the resolved path keeps its trailing slash.
func ResolveDotSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case ".":
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}
	if n := len(segments); n > 0 && (segments[n-1] == "." || segments[n-1] == "..") {
		out = append(out, "")
	}
	return out
}

// Click resolves the given URI reference against this base URL, per
// RFC 3986 section 5. The result matches what a web browser would fetch
// when following href from this URL.
//
// A reference that is already absolute is returned as is. A reference that
// carries a scheme but a rootless path is not supported and fails with
// [ErrRootlessPath].
func (u *URL) Click(href string) (*URL, error) {
	if u == nil {
		u = &URL{}
	}

	ref := &URL{}
	if href != "" {
		var err error
		if ref, err = ParseEncoded(href); err != nil {
			return nil, errtrace.Wrap(err)
		}
		if ref.IsAbsolute() {
			return ref, nil
		}
	}

	if ref.scheme != "" && !ref.rooted {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrRootlessPath, "%q", href))
	}

	query := ref.query
	var path []string
	switch {
	case ref.rooted:
		path = ref.path
	case len(ref.path) > 0:
		if len(u.path) > 0 {
			path = append(path, u.path[:len(u.path)-1]...)
		}
		path = append(path, ref.path...)
	default:
		path = u.path
		if len(query) == 0 {
			query = u.query
		}
	}

	scheme := ref.scheme
	if scheme == "" {
		scheme = u.scheme
	}
	host := ref.host
	if host == "" {
		host = u.host
	}
	opts := []URLOption{
		WithScheme(scheme),
		WithHost(host),
		WithPath(ResolveDotSegments(path)...),
		WithQuery(query...),
		WithFragment(ref.fragment),
	}
	if ref.hasPort {
		opts = append(opts, WithPort(ref.port))
	}
	return errtrace.Wrap2(u.Replace(opts...))
}

// Child returns a new URL with the given path segments appended, preserving
// query and fragment. A trailing empty segment, the trailing slash, is
// replaced rather than kept.
func (u *URL) Child(segments ...string) (*URL, error) {
	if u == nil {
		u = &URL{}
	}
	base := u.path
	if n := len(base); n > 0 && base[n-1] == "" {
		base = base[:n-1]
	}
	path := make([]string, 0, len(base)+len(segments))
	path = append(path, base...)
	path = append(path, segments...)
	return errtrace.Wrap2(u.Replace(WithPath(path...)))
}

// Sibling returns a new URL with its final path segment replaced.
func (u *URL) Sibling(segment string) (*URL, error) {
	if u == nil {
		u = &URL{}
	}
	var path []string
	if len(u.path) > 0 {
		path = append(path, u.path[:len(u.path)-1]...)
	}
	path = append(path, segment)
	return errtrace.Wrap2(u.Replace(WithPath(path...)))
}
