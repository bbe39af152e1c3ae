package grammar_test

import (
	"errors"
	"testing"

	"github.com/ghettovoice/urlkit/internal/grammar"
)

func TestParseHost(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		host       string
		wantFamily grammar.Family
		wantHost   string
		wantErr    error
	}{
		{"empty", "", grammar.FamilyNone, "", nil},
		{"name", "example.com", grammar.FamilyNone, "example.com", nil},
		{"idna name", "bücher.ch", grammar.FamilyNone, "bücher.ch", nil},
		{"ipv4", "192.168.1.1", grammar.FamilyIPv4, "192.168.1.1", nil},
		{"ipv4 leading zeros is a name", "192.168.001.1", grammar.FamilyNone, "192.168.001.1", nil},
		{"ipv4 out of range is a name", "300.1.2.3", grammar.FamilyNone, "300.1.2.3", nil},
		{"ipv6", "[::1]", grammar.FamilyIPv6, "::1", nil},
		{"ipv6 full", "[2001:db8::2:1]", grammar.FamilyIPv6, "2001:db8::2:1", nil},
		{"ipv6 zone", "[fe80::1%25eth0]", grammar.FamilyIPv6, "fe80::1%25eth0", nil},
		{"ipvfuture", "[v1.fe80::a+en1]", grammar.FamilyIPv6, "v1.fe80::a+en1", nil},
		{"unbracketed ipv6", "::1", grammar.FamilyNone, "", grammar.ErrInvalidHost},
		{"not an ip in brackets", "[not-valid]", grammar.FamilyNone, "", grammar.ErrInvalidHost},
		{"ipv4 in brackets", "[192.168.1.1]", grammar.FamilyNone, "", grammar.ErrInvalidHost},
		{"empty brackets", "[]", grammar.FamilyNone, "", grammar.ErrInvalidHost},
		{"unbalanced open", "[::1", grammar.FamilyNone, "", grammar.ErrInvalidHost},
		{"unbalanced close", "::1]", grammar.FamilyNone, "", grammar.ErrInvalidHost},
		{"zone without separator", "[fe80::1%eth0]", grammar.FamilyNone, "", grammar.ErrInvalidHost},
		{"empty zone", "[fe80::1%25]", grammar.FamilyNone, "", grammar.ErrInvalidHost},
		{"ipvfuture no dot", "[v1fe80]", grammar.FamilyNone, "", grammar.ErrInvalidHost},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			family, host, err := grammar.ParseHost(c.host)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("grammar.ParseHost(%q) error = %v, want %v", c.host, err, c.wantErr)
			}
			if family != c.wantFamily {
				t.Errorf("grammar.ParseHost(%q) family = %v, want %v", c.host, family, c.wantFamily)
			}
			if host != c.wantHost {
				t.Errorf("grammar.ParseHost(%q) host = %q, want %q", c.host, host, c.wantHost)
			}
		})
	}
}

func TestFamily_String(t *testing.T) {
	t.Parallel()

	cases := []struct {
		family grammar.Family
		want   string
	}{
		{grammar.FamilyNone, "none"},
		{grammar.FamilyIPv4, "ipv4"},
		{grammar.FamilyIPv6, "ipv6"},
	}

	for _, c := range cases {
		if got := c.family.String(); got != c.want {
			t.Errorf("Family(%d).String() = %q, want %q", c.family, got, c.want)
		}
	}
}
