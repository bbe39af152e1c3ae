package urlkit

import (
	"fmt"
	"hash/fnv"
	"slices"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/urlkit/internal/errorutil"
	"github.com/ghettovoice/urlkit/internal/grammar"
	"github.com/ghettovoice/urlkit/internal/util"
)

// Family classifies the host component of a URL.
type Family = grammar.Family

const (
	FamilyNone = grammar.FamilyNone
	FamilyIPv4 = grammar.FamilyIPv4
	FamilyIPv6 = grammar.FamilyIPv6
)

// netlocPolicy records whether "//" separates the scheme from the rest.
// For unregistered schemes it preserves what was observed in source text;
// netlocUnknown means there was nothing to observe.
type netlocPolicy uint8

const (
	netlocUnknown netlocPolicy = iota
	netlocYes
	netlocNo
)

// URL is the immutable structural decomposition of a URL: scheme,
// userinfo, host, port, path segments, query pairs and fragment, together
// with the host family and the netloc policy. Component accessors return
// text as it appeared on the wire, percent-encoded; see [DecodedURL] for
// the human-readable view.
//
// The zero value is the empty relative reference. Every transformation
// returns a new value.
type URL struct {
	scheme     string
	userinfo   string
	host       string
	fragment   string
	path       []string
	query      []QueryParam
	port       int
	hasPort    bool
	rooted     bool
	family     Family
	usesNetloc netlocPolicy
}

// urlParts collects constructor arguments before validation.
type urlParts struct {
	scheme     string
	userinfo   string
	host       string
	fragment   string
	path       []string
	query      []QueryParam
	port       int
	hasPort    bool
	rooted     bool
	usesNetloc netlocPolicy

	schemeSet bool
	rootedSet bool
}

// URLOption configures a component in [New] and [URL.Replace].
type URLOption func(*urlParts)

// WithScheme sets the URI scheme.
func WithScheme(scheme string) URLOption {
	return func(p *urlParts) { p.scheme = scheme; p.schemeSet = true }
}

// WithHost sets the host. IP literals may be given with or without brackets.
func WithHost(host string) URLOption {
	return func(p *urlParts) { p.host = host }
}

// WithUserinfo sets the userinfo in "user[:password]" form.
func WithUserinfo(userinfo string) URLOption {
	return func(p *urlParts) { p.userinfo = userinfo }
}

// WithPort sets an explicit port.
func WithPort(port int) URLOption {
	return func(p *urlParts) { p.port = port; p.hasPort = true }
}

// WithoutPort removes the port, including a scheme default inherited from
// the source URL.
func WithoutPort() URLOption {
	return func(p *urlParts) { p.port = 0; p.hasPort = false }
}

// WithPath sets the path segments. Rootedness is carried separately, see
// [WithRooted].
func WithPath(segments ...string) URLOption {
	return func(p *urlParts) { p.path = segments }
}

// WithRooted marks whether the path conceptually starts at "/".
func WithRooted(rooted bool) URLOption {
	return func(p *urlParts) { p.rooted = rooted; p.rootedSet = true }
}

// WithQuery sets the query pairs.
func WithQuery(params ...QueryParam) URLOption {
	return func(p *urlParts) { p.query = params }
}

// WithFragment sets the fragment.
func WithFragment(fragment string) URLOption {
	return func(p *urlParts) { p.fragment = fragment }
}

// New builds a URL from components.
//
// The scheme defaults to "http" when a host is given without a scheme. The
// port defaults to the scheme's registered default when a host is present
// and no explicit port is given. Rootedness defaults to host presence.
func New(opts ...URLOption) (*URL, error) {
	var p urlParts
	for _, opt := range opts {
		opt(&p)
	}
	if p.host != "" && !p.schemeSet {
		p.scheme = "http"
	}
	return errtrace.Wrap2(buildURL(&p))
}

func buildURL(p *urlParts) (*URL, error) {
	scheme := util.LCase(p.scheme)
	if !grammar.IsValidScheme(scheme) {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(grammar.ErrInvalidScheme,
			"%q: only alphanumeric, \"+\", \"-\" and \".\" allowed", p.scheme))
	}

	family, host, err := classifyHost(p.host)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	for _, seg := range p.path {
		if strings.Contains(seg, "/") {
			return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError(
				"path segment %q must not contain \"/\"", seg))
		}
	}

	port, hasPort := p.port, p.hasPort
	if !hasPort && host != "" {
		if dp, ok := DefaultRegistry().DefaultPort(scheme); ok {
			port, hasPort = dp, true
		}
	}

	rooted := p.rooted
	if !p.rootedSet {
		rooted = host != ""
	}

	usesNetloc := p.usesNetloc
	if uses, known := DefaultRegistry().UsesNetloc(scheme); known {
		usesNetloc = netlocNo
		if uses {
			usesNetloc = netlocYes
		}
	}

	return &URL{
		scheme:     scheme,
		userinfo:   p.userinfo,
		host:       host,
		fragment:   p.fragment,
		path:       slices.Clone(p.path),
		query:      slices.Clone(p.query),
		port:       port,
		hasPort:    hasPort,
		rooted:     rooted,
		family:     family,
		usesNetloc: usesNetloc,
	}, nil
}

// classifyHost accepts IP literals with or without brackets; a bare host
// containing ":" must still be a valid IPv6 literal.
func classifyHost(host string) (Family, string, error) {
	if host != "" && host[0] != '[' && strings.Contains(host, ":") {
		return errtrace.Wrap3(grammar.ParseHost("[" + host + "]"))
	}
	return errtrace.Wrap3(grammar.ParseHost(host))
}

// parts returns a copy of the URL's components for [URL.Replace].
func (u *URL) parts() urlParts {
	return urlParts{
		scheme:     u.scheme,
		userinfo:   u.userinfo,
		host:       u.host,
		fragment:   u.fragment,
		path:       u.path,
		query:      u.query,
		port:       u.port,
		hasPort:    u.hasPort,
		rooted:     u.rooted,
		usesNetloc: u.usesNetloc,
		schemeSet:  true,
		rootedSet:  true,
	}
}

// Replace returns a new URL with the given components replaced and all
// others kept. The host family and the netloc policy are re-resolved.
func (u *URL) Replace(opts ...URLOption) (*URL, error) {
	if u == nil {
		u = &URL{}
	}
	p := u.parts()
	for _, opt := range opts {
		opt(&p)
	}
	return errtrace.Wrap2(buildURL(&p))
}

// Scheme returns the lowercase URI scheme, empty for relative references.
func (u *URL) Scheme() string {
	if u == nil {
		return ""
	}
	return u.scheme
}

// Userinfo returns the userinfo in "user[:password]" form, empty when absent.
func (u *URL) Userinfo() string {
	if u == nil {
		return ""
	}
	return u.userinfo
}

// User returns the userinfo up to the first ":".
func (u *URL) User() string {
	if u == nil {
		return ""
	}
	user, _, _ := strings.Cut(u.userinfo, ":")
	return user
}

// Host returns the host, without brackets for IP literals, empty when absent.
func (u *URL) Host() string {
	if u == nil {
		return ""
	}
	return u.host
}

// Port returns the port and whether one is set. A registered scheme default
// counts as set.
func (u *URL) Port() (int, bool) {
	if u == nil {
		return 0, false
	}
	return u.port, u.hasPort
}

// Path returns a copy of the path segments.
func (u *URL) Path() []string {
	if u == nil {
		return nil
	}
	return slices.Clone(u.path)
}

// Rooted reports whether the path conceptually starts at "/".
func (u *URL) Rooted() bool {
	return u != nil && u.rooted
}

// Query returns a copy of the query pairs in source order.
func (u *URL) Query() []QueryParam {
	if u == nil {
		return nil
	}
	return slices.Clone(u.query)
}

// Fragment returns the fragment, empty when absent.
func (u *URL) Fragment() string {
	if u == nil {
		return ""
	}
	return u.fragment
}

// Family returns the host classification.
func (u *URL) Family() Family {
	if u == nil {
		return FamilyNone
	}
	return u.family
}

// UsesNetloc reports whether "//" separates the scheme from the rest, and
// whether that is known at all.
func (u *URL) UsesNetloc() (uses, known bool) {
	if u == nil {
		return false, false
	}
	return u.usesNetloc == netlocYes, u.usesNetloc != netlocUnknown
}

// IsAbsolute reports whether the URL is complete enough to resolve a
// resource without a base: both scheme and host are set.
func (u *URL) IsAbsolute() bool {
	return u != nil && u.scheme != "" && u.host != ""
}

// Clone returns a deep copy of the URL.
func (u *URL) Clone() *URL {
	if u == nil {
		return nil
	}
	u2 := *u
	u2.path = slices.Clone(u.path)
	u2.query = slices.Clone(u.query)
	return &u2
}

// Equal compares this URL with another for structural equality: every
// component must match, including the host family and the netloc policy.
// Two URLs that render identically but disagree on those are not equal.
func (u *URL) Equal(val any) bool {
	var other *URL
	switch v := val.(type) {
	case URL:
		other = &v
	case *URL:
		other = v
	default:
		return false
	}

	if u == other {
		return true
	} else if u == nil || other == nil {
		return false
	}

	return u.scheme == other.scheme &&
		u.userinfo == other.userinfo &&
		u.host == other.host &&
		u.fragment == other.fragment &&
		u.port == other.port &&
		u.hasPort == other.hasPort &&
		u.rooted == other.rooted &&
		u.family == other.family &&
		u.usesNetloc == other.usesNetloc &&
		slices.Equal(u.path, other.path) &&
		slices.Equal(u.query, other.query)
}

// Hash returns a 64-bit hash consistent with [URL.Equal], usable as a map
// key for structural deduplication.
func (u *URL) Hash() uint64 {
	if u == nil {
		return 0
	}

	h := fnv.New64a()
	for _, s := range []string{u.scheme, u.userinfo, u.host, u.fragment} {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	for _, seg := range u.path {
		h.Write([]byte(seg))
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, p := range u.query {
		h.Write([]byte(p.Key))
		h.Write([]byte{0})
		h.Write([]byte(p.Value))
		h.Write([]byte{0, boolByte(p.HasValue)})
	}
	h.Write([]byte{
		byte(u.port >> 24), byte(u.port >> 16), byte(u.port >> 8), byte(u.port),
		boolByte(u.hasPort), boolByte(u.rooted), byte(u.family), byte(u.usesNetloc),
	})
	return h.Sum64()
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// IsValid checks whether the URL holds a syntactically consistent record.
func (u *URL) IsValid() bool {
	if u == nil {
		return false
	}
	if !grammar.IsValidScheme(u.scheme) {
		return false
	}
	for _, seg := range u.path {
		if strings.Contains(seg, "/") {
			return false
		}
	}
	family, _, err := classifyHost(u.host)
	return err == nil && family == u.family
}

// MarshalText implements [encoding.TextMarshaler]. Secrets are included so
// that the round trip through text is lossless.
func (u *URL) MarshalText() ([]byte, error) {
	return []byte(u.Render(&RenderOptions{IncludeSecrets: true})), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (u *URL) UnmarshalText(text []byte) error {
	u1, err := ParseEncoded(string(text))
	if err != nil {
		*u = URL{}
		return errtrace.Wrap(err)
	}
	*u = *u1
	return nil
}

// Format implements fmt.Formatter for custom formatting of the URL.
func (u *URL) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		if f.Flag('+') {
			u.RenderTo(f, &RenderOptions{IncludeSecrets: true}) //nolint:errcheck
			return
		}
		fmt.Fprint(f, u.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
		return
	default:
		type hideMethods URL
		type URL hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*URL)(u))
		return
	}
}
