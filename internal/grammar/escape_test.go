package grammar_test

import (
	"errors"
	"testing"

	"github.com/ghettovoice/urlkit/internal/grammar"
)

func TestEncode_Maximal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		comp grammar.Component
		want string
	}{
		{"empty", "", grammar.ComponentPath, ""},
		{"plain", "abc-123", grammar.ComponentPath, "abc-123"},
		{"space", "hello world", grammar.ComponentPath, "hello%20world"},
		{"utf8", "café", grammar.ComponentPath, "caf%C3%A9"},
		{"existing triplet kept", "a%20b c", grammar.ComponentPath, "a%20b%20c"},
		{"path keeps bare percent", "100%", grammar.ComponentPath, "100%"},
		{"userinfo quotes bare percent", "100%", grammar.ComponentUserinfo, "100%25"},
		{"path keeps colon and at", "a:b@c", grammar.ComponentPath, "a:b@c"},
		{"path quotes slash", "a/b", grammar.ComponentPath, "a%2Fb"},
		{"query quotes plus", "1+2=3", grammar.ComponentQuery, "1%2B2%3D3"},
		{"query keeps slash", "a/b?c", grammar.ComponentQuery, "a/b?c"},
		{"userinfo quotes colon", "p:wd", grammar.ComponentUserinfo, "p%3Awd"},
		{"fragment keeps query chars", "a/b?c", grammar.ComponentFragment, "a/b?c"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := grammar.Encode(c.str, c.comp, true), c.want; got != want {
				t.Errorf("grammar.Encode(%q, %v, true) = %q, want %q", c.str, c.comp, got, want)
			}
		})
	}
}

func TestEncode_MaximalIdempotent(t *testing.T) {
	t.Parallel()

	for _, str := range []string{"hello world", "café", "a%20b c", "100%", "a/b"} {
		once := grammar.Encode(str, grammar.ComponentPath, true)
		if got, want := grammar.Encode(once, grammar.ComponentPath, true), once; got != want {
			t.Errorf("grammar.Encode(%q, path, true) = %q, want %q", once, got, want)
		}
	}
}

func TestEncode_Minimal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		comp grammar.Component
		want string
	}{
		{"empty", "", grammar.ComponentPath, ""},
		{"space kept", "a b", grammar.ComponentPath, "a b"},
		{"utf8 kept", "café", grammar.ComponentPath, "café"},
		{"path quotes slash", "a/b?c", grammar.ComponentPath, "a%2Fb%3Fc"},
		{"query quotes amp and eq", "a=b&c", grammar.ComponentQuery, "a%3Db%26c"},
		{"query keeps slash", "a/b", grammar.ComponentQuery, "a/b"},
		{"fragment quotes hash", "x#y", grammar.ComponentFragment, "x%23y"},
		{"userinfo keeps colon", "user:pass@host", grammar.ComponentUserinfo, "user:pass%40host"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := grammar.Encode(c.str, c.comp, false), c.want; got != want {
				t.Errorf("grammar.Encode(%q, %v, false) = %q, want %q", c.str, c.comp, got, want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		str     string
		want    string
		wantErr error
	}{
		{"empty", "", "", nil},
		{"no escapes", "abc", "abc", nil},
		{"non-ascii passthrough", "café", "café", nil},
		{"ascii triplet", "a%20b", "a b", nil},
		{"utf8 triplets", "caf%C3%A9", "café", nil},
		{"bad hex kept", "abc%ax%", "abc%ax%", nil},
		{"invalid utf8", "%C3%28", "", grammar.ErrInvalidEncoding},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := grammar.Decode(c.str)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("grammar.Decode(%q) error = %v, want %v", c.str, err, c.wantErr)
			}
			if got != c.want {
				t.Errorf("grammar.Decode(%q) = %q, want %q", c.str, got, c.want)
			}
		})
	}
}

func TestUnescape(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want string
	}{
		{"empty", "", ""},
		{"decodes", "a%20b", "a b"},
		{"invalid kept", "%C3%28", "%C3%28"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := grammar.Unescape(c.str), c.want; got != want {
				t.Errorf("grammar.Unescape(%q) = %q, want %q", c.str, got, want)
			}
		})
	}
}

func TestDecodeIRI(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want string
	}{
		{"empty", "", ""},
		{"utf8 decoded", "caf%C3%A9", "café"},
		{"reserved kept", "a%2Fb%20c", "a%2Fb c"},
		{"percent kept", "100%25", "100%25"},
		{"non-ascii passthrough", "café", "café"},
		{"invalid utf8 passthrough", "%C3%28", "%C3%28"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := grammar.DecodeIRI(c.str), c.want; got != want {
				t.Errorf("grammar.DecodeIRI(%q) = %q, want %q", c.str, got, want)
			}
		})
	}
}

func TestDecodeIRI_Idempotent(t *testing.T) {
	t.Parallel()

	for _, str := range []string{"caf%C3%A9", "a%2Fb%20c", "100%25"} {
		once := grammar.DecodeIRI(str)
		if got, want := grammar.DecodeIRI(once), once; got != want {
			t.Errorf("grammar.DecodeIRI(%q) = %q, want %q", once, got, want)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	cases := []struct {
		name    string
		str     string
		maximal bool
	}{
		{"minimal clean", "plain-segment", false},
		{"minimal quoted", "a/bما?c", false},
		{"maximal utf8", "caférésumé", true},
	}

	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ResetTimer()
			for b.Loop() {
				grammar.Encode(c.str, grammar.ComponentPath, c.maximal)
			}
		})
	}
}
