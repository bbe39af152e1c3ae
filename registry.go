package urlkit

import (
	"strings"
	"sync"

	"braces.dev/errtrace"

	"github.com/ghettovoice/urlkit/internal/errorutil"
	"github.com/ghettovoice/urlkit/internal/grammar"
	"github.com/ghettovoice/urlkit/internal/util"
)

// SchemeRegistry maps scheme names to their default port and whether they
// use a network location. Reads may race with registration, the table is
// guarded by a read-write lock; registration is expected at process
// start-up.
type SchemeRegistry struct {
	mu       sync.RWMutex
	ports    map[string]int // 0 = registered with no default port
	noNetloc map[string]struct{}
}

// NewSchemeRegistry returns an empty registry. Most callers want
// [DefaultRegistry], which is pre-seeded with the well-known schemes.
func NewSchemeRegistry() *SchemeRegistry {
	return &SchemeRegistry{
		ports:    map[string]int{},
		noNetloc: map[string]struct{}{},
	}
}

// Register records scheme information. A scheme that does not use a
// network location cannot carry a default port; that combination is an
// [ErrInvalidArgument].
func (r *SchemeRegistry) Register(name string, usesNetloc bool, defaultPort int) error {
	name = util.LCase(name)
	if name == "" || !grammar.IsValidScheme(name) {
		return errtrace.Wrap(errorutil.NewWrapperError(grammar.ErrInvalidScheme, "%q", name))
	}
	if defaultPort < 0 || defaultPort > 65535 {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("default port %d out of range", defaultPort))
	}
	if !usesNetloc && defaultPort != 0 {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError(
			"unexpected default port %d for non-netloc scheme %q", defaultPort, name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if usesNetloc {
		r.ports[name] = defaultPort
		delete(r.noNetloc, name)
	} else {
		r.noNetloc[name] = struct{}{}
		delete(r.ports, name)
	}
	return nil
}

// UsesNetloc reports whether a scheme separates itself from the rest of
// the URL with "//". An exact match in either table wins; otherwise the
// suffix after the last "+" is tried, so that compound schemes like
// "git+ssh" behave intuitively. Unregistered schemes report known=false
// and the caller decides, typically by preserving what the source text
// showed.
func (r *SchemeRegistry) UsesNetloc(scheme string) (uses, known bool) {
	if scheme == "" {
		return false, true
	}
	scheme = util.LCase(scheme)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.ports[scheme]; ok {
		return true, true
	}
	if _, ok := r.noNetloc[scheme]; ok {
		return false, true
	}
	if i := strings.LastIndexByte(scheme, '+'); i >= 0 {
		if _, ok := r.ports[scheme[i+1:]]; ok {
			return true, true
		}
	}
	return false, false
}

// DefaultPort returns the registered default port for a scheme, and
// whether it has one.
func (r *SchemeRegistry) DefaultPort(scheme string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	port, ok := r.ports[util.LCase(scheme)]
	return port, ok && port != 0
}

// The seed tables are curated from the IANA URI scheme and service name
// registries.
var defaultRegistry = func() *SchemeRegistry {
	r := NewSchemeRegistry()
	r.ports = map[string]int{
		"acap": 674, "afp": 548, "dict": 2628, "dns": 53,
		"file": 0, "ftp": 21, "git": 9418, "gopher": 70,
		"http": 80, "https": 443, "imap": 143, "ipp": 631,
		"ipps": 631, "irc": 194, "ircs": 6697, "ldap": 389,
		"ldaps": 636, "mms": 1755, "msrp": 2855, "msrps": 0,
		"mtqp": 1038, "nfs": 111, "nntp": 119, "nntps": 563,
		"pop": 110, "prospero": 1525, "redis": 6379, "rsync": 873,
		"rtsp": 554, "rtsps": 322, "rtspu": 5005, "sftp": 22,
		"smb": 445, "snmp": 161, "ssh": 22, "steam": 0,
		"svn": 3690, "telnet": 23, "ventrilo": 3784, "vnc": 5900,
		"wais": 210, "ws": 80, "wss": 443, "xmpp": 0,
	}
	for _, s := range []string{
		"urn", "about", "bitcoin", "blob", "data", "geo", "magnet",
		"mailto", "news", "pkcs11", "sip", "sips", "tel",
	} {
		r.noNetloc[s] = struct{}{}
	}
	return r
}()

// DefaultRegistry returns the process-wide scheme registry used by parsing
// and rendering.
func DefaultRegistry() *SchemeRegistry { return defaultRegistry }

// RegisterScheme registers scheme information in the default registry,
// affecting port and separator behavior of every URL value. Dozens of
// standard schemes are preregistered; this is meant for proprietary
// internal customizations or stopgaps on missing standards information.
func RegisterScheme(name string, usesNetloc bool, defaultPort int) error {
	return errtrace.Wrap(defaultRegistry.Register(name, usesNetloc, defaultPort))
}

// SchemeUsesNetloc reports whether a scheme uses a network location,
// consulting the default registry.
func SchemeUsesNetloc(scheme string) (uses, known bool) {
	return defaultRegistry.UsesNetloc(scheme)
}
