package urlkit

import (
	"github.com/ghettovoice/urlkit/internal/errorutil"
	"github.com/ghettovoice/urlkit/internal/grammar"
)

// Grammar errors returned by parsing operations. All of them carry the
// offending substring and match with [errors.Is].
const (
	ErrInvalidPort     = grammar.ErrInvalidPort
	ErrInvalidHost     = grammar.ErrInvalidHost
	ErrInvalidScheme   = grammar.ErrInvalidScheme
	ErrInvalidEncoding = grammar.ErrInvalidEncoding
)

// ErrInvalidArgument reports a contract violation, a programmer error
// rather than malformed input data.
const ErrInvalidArgument = errorutil.ErrInvalidArgument

// ErrRootlessPath is returned by [URL.Click] when the reference carries a
// scheme but a rootless path. RFC 3986 calls such references a "loophole in
// prior specifications"; resolving them is deliberately unsupported.
const ErrRootlessPath = errorutil.Error("absolute URI with rootless path")

// IsParseError reports whether err originated from URL grammar parsing.
func IsParseError(err error) bool { return errorutil.IsGrammarErr(err) }
