package urlkit

import (
	"strings"

	"braces.dev/errtrace"
	"golang.org/x/net/idna"

	"github.com/ghettovoice/urlkit/internal/errorutil"
	"github.com/ghettovoice/urlkit/internal/grammar"
	"github.com/ghettovoice/urlkit/internal/util"
)

// ToURI converts a URL that potentially contains non-ASCII text into one
// where every component is in the US-ASCII range: the text is
// NFC-normalized and percent-encoded, the hostname IDNA-encoded. The
// result is suitable for wire transfer. The conversion is idempotent.
func (u *URL) ToURI() (*URL, error) {
	if u == nil {
		return nil, nil
	}

	host := u.host
	if u.family == FamilyNone && !util.IsASCII(host) {
		var err error
		if host, err = idna.ToASCII(host); err != nil {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidHost, err))
		}
	}

	path := make([]string, len(u.path))
	for i, seg := range u.path {
		path[i] = grammar.Encode(seg, grammar.ComponentPath, true)
	}
	query := make([]QueryParam, len(u.query))
	for i, p := range u.query {
		query[i] = QueryParam{
			Key:      grammar.Encode(p.Key, grammar.ComponentQuery, true),
			Value:    grammar.Encode(p.Value, grammar.ComponentQuery, true),
			HasValue: p.HasValue,
		}
	}

	return errtrace.Wrap2(u.Replace(
		WithUserinfo(encodeUserinfo(u.userinfo)),
		WithHost(host),
		WithPath(path...),
		WithQuery(query...),
		WithFragment(grammar.Encode(u.fragment, grammar.ComponentFragment, true)),
	))
}

// ToIRI converts a URL that potentially contains percent-encoded or
// IDNA-encoded text into one holding the text as it should be presented to
// a human. Percent sequences that decode to reserved delimiters stay
// encoded, so the conversion is idempotent and the result still parses the
// same way.
func (u *URL) ToIRI() (*URL, error) {
	if u == nil {
		return nil, nil
	}

	host := u.host
	if u.family == FamilyNone && util.IsASCII(host) {
		var err error
		if host, err = idna.ToUnicode(host); err != nil {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidHost, err))
		}
	}

	path := make([]string, len(u.path))
	for i, seg := range u.path {
		path[i] = grammar.DecodeIRI(seg)
	}
	query := make([]QueryParam, len(u.query))
	for i, p := range u.query {
		query[i] = QueryParam{
			Key:      grammar.DecodeIRI(p.Key),
			Value:    grammar.DecodeIRI(p.Value),
			HasValue: p.HasValue,
		}
	}

	return errtrace.Wrap2(u.Replace(
		WithUserinfo(decodeUserinfo(u.userinfo)),
		WithHost(host),
		WithPath(path...),
		WithQuery(query...),
		WithFragment(grammar.DecodeIRI(u.fragment)),
	))
}

// encodeUserinfo encodes the user and password parts separately, keeping
// the first ":" as the separator.
func encodeUserinfo(userinfo string) string {
	if userinfo == "" {
		return ""
	}
	user, passwd, found := strings.Cut(userinfo, ":")
	user = grammar.Encode(user, grammar.ComponentUserinfo, true)
	if !found {
		return user
	}
	return user + ":" + grammar.Encode(passwd, grammar.ComponentUserinfo, true)
}

func decodeUserinfo(userinfo string) string {
	if userinfo == "" {
		return ""
	}
	user, passwd, found := strings.Cut(userinfo, ":")
	user = grammar.DecodeIRI(user)
	if !found {
		return user
	}
	return user + ":" + grammar.DecodeIRI(passwd)
}
