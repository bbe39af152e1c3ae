package grammar

import (
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/urlkit/internal/errorutil"
)

// SplitURL carries the raw, still percent-encoded decomposition of a URL
// string per RFC 3986 Appendix B.
type SplitURL struct {
	Scheme       string
	Userinfo     string
	Host         string
	Port         int
	RawPath      string
	RawQuery     string
	Fragment     string
	HasAuthority bool
	HasHostInfo  bool
	HasPort      bool
}

// Split decomposes a URL string into scheme, authority, path, query and
// fragment. The grammar is deliberately permissive: only a malformed port
// fails, everything else is carried through raw for the layers above.
//
//	scheme ":" [ "//" userinfo "@" host ":" port ] path [ "?" query ] [ "#" fragment ]
func Split(s string) (SplitURL, error) {
	var sp SplitURL

	rest := s
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if c == ':' {
			// A scheme needs at least one char before the colon,
			// otherwise the colon belongs to the path.
			if i > 0 {
				sp.Scheme = rest[:i]
				rest = rest[i+1:]
			}
			break
		}
		if c == '/' || c == '?' || c == '#' {
			break
		}
	}

	if strings.HasPrefix(rest, "//") {
		sp.HasAuthority = true
		rest = rest[2:]
		end := strings.IndexAny(rest, "/?#")
		if end < 0 {
			end = len(rest)
		}
		if err := sp.splitAuthority(rest[:end]); err != nil {
			return SplitURL{}, errtrace.Wrap(err)
		}
		rest = rest[end:]
	}

	end := strings.IndexAny(rest, "?#")
	if end < 0 {
		end = len(rest)
	}
	sp.RawPath = rest[:end]
	rest = rest[end:]

	if strings.HasPrefix(rest, "?") {
		rest = rest[1:]
		if i := strings.IndexByte(rest, '#'); i >= 0 {
			sp.RawQuery = rest[:i]
			rest = rest[i:]
		} else {
			sp.RawQuery = rest
			rest = ""
		}
	}
	if strings.HasPrefix(rest, "#") {
		sp.Fragment = rest[1:]
	}
	return sp, nil
}

func (sp *SplitURL) splitAuthority(authority string) error {
	hostinfo := authority
	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		// Last "@" wins so that userinfo may itself contain "@"-ish data.
		sp.Userinfo = authority[:i]
		hostinfo = authority[i+1:]
	}
	sp.HasHostInfo = hostinfo != ""

	i := strings.IndexByte(hostinfo, ':')
	if i < 0 {
		sp.Host = hostinfo
		return nil
	}

	if !strings.Contains(hostinfo, "]") && strings.Count(hostinfo, ":") > 1 {
		// Several colons and no brackets cannot be a host:port split.
		// Keep the whole thing as the host and let host validation
		// reject the unbracketed IPv6 literal.
		sp.Host = hostinfo
		return nil
	}

	if strings.Contains(hostinfo[i+1:], "]") {
		// The colon belonged to a bracketed IPv6 literal. Re-split after
		// the closing bracket, where an optional port may still follow.
		end := strings.IndexByte(hostinfo, ']')
		tail := hostinfo[end+1:]
		if tail == "" {
			sp.Host = hostinfo
			return nil
		}
		if tail[0] != ':' {
			// Garbage after the bracket, keep it attached to the host
			// and let host validation reject it.
			sp.Host = hostinfo
			return nil
		}
		sp.Host = hostinfo[:end+1]
		return errtrace.Wrap(sp.parsePort(tail[1:]))
	}

	sp.Host = hostinfo[:i]
	return errtrace.Wrap(sp.parsePort(hostinfo[i+1:]))
}

func (sp *SplitURL) parsePort(portStr string) error {
	if portStr == "" {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidPort, "port must not be empty"))
	}
	for i := 0; i < len(portStr); i++ {
		if portStr[i] < '0' || portStr[i] > '9' {
			return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidPort, "expected integer for port, not %q", portStr))
		}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidPort, "%q: %v", portStr, err))
	}
	sp.Port = port
	sp.HasPort = true
	return nil
}
