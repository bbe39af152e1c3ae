package urlkit

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/urlkit/internal/grammar"
	"github.com/ghettovoice/urlkit/internal/util"
)

// RenderOptions contains options for rendering URLs.
type RenderOptions struct {
	// IncludeSecrets renders the full userinfo. By default everything
	// after the first ":" is elided, per RFC 3986 section 3.2.1.
	IncludeSecrets bool `json:"include_secrets,omitempty"`
}

// Authority returns the userinfo/host/port combination. IPv6 hosts are
// bracketed and a port equal to the scheme's registered default is elided.
func (u *URL) Authority(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	if opts == nil {
		opts = &RenderOptions{}
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	if u.userinfo != "" {
		userinfo := u.userinfo
		if !opts.IncludeSecrets {
			if i := strings.IndexByte(userinfo, ':'); i >= 0 {
				userinfo = userinfo[:i+1]
			}
		}
		sb.WriteString(grammar.Encode(userinfo, grammar.ComponentUserinfo, false))
		sb.WriteString("@")
	}
	if u.family == FamilyIPv6 {
		sb.WriteString("[")
		sb.WriteString(u.host)
		sb.WriteString("]")
	} else {
		sb.WriteString(u.host)
	}
	if u.hasPort {
		if dp, ok := DefaultRegistry().DefaultPort(u.scheme); !ok || dp != u.port {
			sb.WriteString(":")
			sb.WriteString(strconv.Itoa(u.port))
		}
	}
	return sb.String()
}

// Render returns the textual representation of the URL. Path, query and
// fragment keep their IRI-style text, only the delimiters reserved against
// each component are percent-encoded.
func (u *URL) Render(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// RenderTo writes the URL to the provided writer.
func (u *URL) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if u == nil {
		return 0, nil
	}

	authority := u.Authority(opts)
	path := u.renderPath()

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	if u.scheme != "" {
		sb.WriteString(u.scheme)
		sb.WriteString(":")
	}
	switch {
	case authority != "":
		sb.WriteString("//")
		sb.WriteString(authority)
	case u.scheme != "" && !strings.HasPrefix(path, "//") && u.usesNetloc == netlocYes:
		sb.WriteString("//")
	}
	if path != "" {
		// A relative path joined to an authority needs its own slash.
		if u.scheme != "" && authority != "" && path[0] != '/' {
			sb.WriteString("/")
		}
		sb.WriteString(path)
	}
	if qs := u.renderQuery(); qs != "" {
		sb.WriteString("?")
		sb.WriteString(qs)
	}
	if u.fragment != "" {
		sb.WriteString("#")
		sb.WriteString(grammar.Encode(u.fragment, grammar.ComponentFragment, false))
	}
	return errtrace.Wrap2(fmt.Fprint(w, sb.String()))
}

func (u *URL) renderPath() string {
	if len(u.path) == 0 {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	if u.rooted {
		sb.WriteString("/")
	}
	for i, seg := range u.path {
		if i > 0 {
			sb.WriteString("/")
		}
		sb.WriteString(grammar.Encode(seg, grammar.ComponentPath, false))
	}
	return sb.String()
}

func (u *URL) renderQuery() string {
	if len(u.query) == 0 {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for i, p := range u.query {
		if i > 0 {
			sb.WriteString("&")
		}
		sb.WriteString(grammar.Encode(p.Key, grammar.ComponentQuery, false))
		if p.HasValue {
			sb.WriteString("=")
			sb.WriteString(grammar.Encode(p.Value, grammar.ComponentQuery, false))
		}
	}
	return sb.String()
}

// String returns the default rendering of the URL, with secrets redacted.
func (u *URL) String() string {
	if u == nil {
		return ""
	}
	return u.Render(nil)
}
