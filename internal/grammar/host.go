package grammar

import (
	"net/netip"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/urlkit/internal/errorutil"
)

// Family classifies the host component of a URL.
type Family uint8

const (
	FamilyNone Family = iota
	FamilyIPv4
	FamilyIPv6
)

// String returns the string representation of the host family.
func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	default:
		return "none"
	}
}

// ParseHost classifies a host string and returns it normalized, without
// the enclosing brackets for IP literals.
//
// A bracketed host must be a valid RFC 3986 IP literal: an IPv6 address,
// optionally followed by a "%25<zone>" suffix, or an IPvFuture form.
// Anything else inside brackets is an [ErrInvalidHost] error. An unbracketed
// host containing ":" is rejected as well, IPv6 literals are required to be
// bracketed on the wire. A valid dotted quad classifies as IPv4, any other
// unbracketed text is an opaque hostname, never an error.
func ParseHost(host string) (Family, string, error) {
	if host == "" {
		return FamilyNone, "", nil
	}

	if host[0] == '[' || host[len(host)-1] == ']' {
		if len(host) < 2 || host[0] != '[' || host[len(host)-1] != ']' {
			return FamilyNone, "", errtrace.Wrap(newInvalidHostErr(host))
		}
		lit := host[1 : len(host)-1]
		if err := validateIPLiteral(lit); err != nil {
			return FamilyNone, "", errtrace.Wrap(err)
		}
		return FamilyIPv6, lit, nil
	}

	if strings.Contains(host, ":") {
		return FamilyNone, "", errtrace.Wrap(
			errorutil.NewWrapperError(ErrInvalidHost, "IPv6 address %q must be enclosed in brackets", host))
	}

	if isIPv4(host) {
		return FamilyIPv4, host, nil
	}
	return FamilyNone, host, nil
}

func newInvalidHostErr(host string) error {
	return errorutil.NewWrapperError(ErrInvalidHost, "%q", host) //errtrace:skip
}

func isIPv4(host string) bool {
	a, err := netip.ParseAddr(host)
	return err == nil && a.Is4()
}

// validateIPLiteral checks the inside of a bracketed IP literal:
// IPv6address [ "%25" ZoneID ] or IPvFuture.
func validateIPLiteral(lit string) error {
	if lit == "" {
		return errtrace.Wrap(newInvalidHostErr(lit))
	}
	if lit[0] == 'v' || lit[0] == 'V' {
		if !isIPvFuture(lit) {
			return errtrace.Wrap(newInvalidHostErr(lit))
		}
		return nil
	}

	addr := lit
	if i := strings.Index(lit, "%"); i >= 0 {
		// RFC 6874: the zone is attached with an encoded "%25" separator.
		if !strings.HasPrefix(lit[i:], "%25") || !isZoneID(lit[i+3:]) {
			return errtrace.Wrap(newInvalidHostErr(lit))
		}
		addr = lit[:i]
	}

	a, err := netip.ParseAddr(addr)
	if err != nil || a.Is4() || a.Zone() != "" {
		return errtrace.Wrap(newInvalidHostErr(lit))
	}
	return nil
}

// isIPvFuture checks the rule "v" 1*HEXDIG "." 1*( unreserved / sub-delims / ":" ).
func isIPvFuture(lit string) bool {
	rest := lit[1:]
	dot := strings.IndexByte(rest, '.')
	if dot < 1 || dot == len(rest)-1 {
		return false
	}
	for i := 0; i < dot; i++ {
		if !isHex(rest[i]) {
			return false
		}
	}
	for i := dot + 1; i < len(rest); i++ {
		c := rest[i]
		if !unreservedSet[c] && !subDelimsSet[c] && c != ':' {
			return false
		}
	}
	return true
}

// isZoneID checks the rule 1*( unreserved / pct-encoded ).
func isZoneID(zone string) bool {
	if zone == "" {
		return false
	}
	for i := 0; i < len(zone); i++ {
		c := zone[i]
		if unreservedSet[c] {
			continue
		}
		if c == '%' && i+2 < len(zone) && isHex(zone[i+1]) && isHex(zone[i+2]) {
			i += 2
			continue
		}
		return false
	}
	return true
}
