package urlkit

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/urlkit/internal/grammar"
)

// ParseEncoded parses a URL string into its encoded, wire-form view.
//
// The grammar is deliberately permissive, most inputs parse; only genuinely
// malformed structure fails: a non-numeric or empty explicit port, a
// malformed or unbracketed IPv6 literal, an invalid scheme. There is no
// partial success.
func ParseEncoded(text string) (*URL, error) {
	sp, err := grammar.Split(text)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	// Hosts on the wire are held to the strict grammar: IPv6 literals
	// must be bracketed. Component constructors stay lenient.
	if _, _, err := grammar.ParseHost(sp.Host); err != nil {
		return nil, errtrace.Wrap(err)
	}

	p := urlParts{
		scheme:    sp.Scheme,
		userinfo:  sp.Userinfo,
		host:      sp.Host,
		fragment:  sp.Fragment,
		port:      sp.Port,
		hasPort:   sp.HasPort,
		schemeSet: true,
		rootedSet: true,
	}
	if sp.HasAuthority {
		p.usesNetloc = netlocYes
	} else {
		p.usesNetloc = netlocNo
	}

	if sp.RawPath != "" {
		segs := strings.Split(sp.RawPath, "/")
		if segs[0] == "" {
			segs = segs[1:]
			p.rooted = true
		}
		p.path = segs
	} else {
		// A host with no path still renders rooted.
		p.rooted = sp.HasHostInfo
	}

	if sp.RawQuery != "" {
		pairs := strings.Split(sp.RawQuery, "&")
		p.query = make([]QueryParam, 0, len(pairs))
		for _, pair := range pairs {
			if k, v, found := strings.Cut(pair, "="); found {
				p.query = append(p.query, Param(k, v))
			} else {
				p.query = append(p.query, FlagParam(pair))
			}
		}
	}

	return errtrace.Wrap2(buildURL(&p))
}

// Parse parses a URL string into its decoded, human-readable view. Every
// component is decoded up front, so undecodable percent sequences fail
// here rather than at access time; see [ParseLazy] for the deferred
// variant.
func Parse(text string) (*DecodedURL, error) {
	d, err := ParseLazy(text)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if err := d.decodeAll(); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return d, nil
}

// ParseLazy parses a URL string into a decoded view whose components are
// percent-decoded on first access. A decode failure in a component
// surfaces when that component is accessed, letting callers parse
// untrusted input and only pay for what they inspect.
func ParseLazy(text string) (*DecodedURL, error) {
	u, err := ParseEncoded(text)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return WrapEncoded(u), nil
}

// ParseHost classifies a host string as IPv4, IPv6 or an opaque name,
// returning IP literals without their brackets. IPv6 literals are required
// to be bracketed; a malformed bracketed literal is a parse error, an
// opaque name is not.
func ParseHost(host string) (Family, string, error) {
	return errtrace.Wrap3(grammar.ParseHost(host))
}
