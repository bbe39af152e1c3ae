// Package urlkit provides an immutable URL/IRI value type with RFC 3986
// parsing, percent-encoding, IDNA host handling and reference resolution.
//
// A [URL] is a structural decomposition of a URL string: scheme, authority
// (userinfo, host, port), path segments, query pairs and fragment. Values
// are never mutated, every transformation returns a new value:
//
//	u, _ := urlkit.ParseEncoded("http://example.com/a/b?x=y")
//	u2, _ := u.Click("../c")
//
// The same structural record backs two presentations. [URL] accessors
// return the text as it appeared on the wire, percent-encoded; [DecodedURL]
// accessors return human-readable text, percent- and IDNA-decoded, with
// per-component decoding performed lazily on first access. [URL.ToURI] and
// [URL.ToIRI] convert a whole record between the two normal forms.
package urlkit

//go:generate go tool errtrace -w .
