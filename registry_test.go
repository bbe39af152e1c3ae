package urlkit_test

import (
	"errors"
	"testing"

	"github.com/ghettovoice/urlkit"
)

func TestSchemeRegistry_Register(t *testing.T) {
	t.Parallel()

	r := urlkit.NewSchemeRegistry()

	if err := r.Register("myproto", true, 7777); err != nil {
		t.Fatalf("registry.Register(...) error = %v, want nil", err)
	}
	if port, ok := r.DefaultPort("myproto"); !ok || port != 7777 {
		t.Errorf("registry.DefaultPort(...) = %v, %v, want 7777, true", port, ok)
	}
	if uses, known := r.UsesNetloc("myproto"); !uses || !known {
		t.Errorf("registry.UsesNetloc(...) = %v, %v, want true, true", uses, known)
	}

	if err := r.Register("myid", false, 0); err != nil {
		t.Fatalf("registry.Register(...) error = %v, want nil", err)
	}
	if uses, known := r.UsesNetloc("myid"); uses || !known {
		t.Errorf("registry.UsesNetloc(...) = %v, %v, want false, true", uses, known)
	}

	cases := []struct {
		name       string
		scheme     string
		usesNetloc bool
		port       int
		wantErr    error
	}{
		{"empty scheme", "", true, 0, urlkit.ErrInvalidScheme},
		{"bad chars", "my proto", true, 0, urlkit.ErrInvalidScheme},
		{"port without netloc", "myid2", false, 80, urlkit.ErrInvalidArgument},
		{"port out of range", "myproto2", true, 70000, urlkit.ErrInvalidArgument},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if err := r.Register(c.scheme, c.usesNetloc, c.port); !errors.Is(err, c.wantErr) {
				t.Errorf("registry.Register(%q, %v, %v) error = %v, want %v",
					c.scheme, c.usesNetloc, c.port, err, c.wantErr)
			}
		})
	}
}

func TestSchemeRegistry_UsesNetloc(t *testing.T) {
	t.Parallel()

	r := urlkit.DefaultRegistry()

	cases := []struct {
		scheme    string
		wantUses  bool
		wantKnown bool
	}{
		{"", false, true},
		{"http", true, true},
		{"HTTPS", true, true},
		{"mailto", false, true},
		{"urn", false, true},
		{"git+https", true, true},
		{"coolnewscheme", false, false},
		{"coolnew+proto", false, false},
	}

	for _, c := range cases {
		uses, known := r.UsesNetloc(c.scheme)
		if uses != c.wantUses || known != c.wantKnown {
			t.Errorf("registry.UsesNetloc(%q) = %v, %v, want %v, %v",
				c.scheme, uses, known, c.wantUses, c.wantKnown)
		}
	}
}

func TestSchemeRegistry_DefaultPort(t *testing.T) {
	t.Parallel()

	r := urlkit.DefaultRegistry()

	cases := []struct {
		scheme   string
		wantPort int
		wantOK   bool
	}{
		{"http", 80, true},
		{"https", 443, true},
		{"ftp", 21, true},
		{"ws", 80, true},
		// Registered without a default port.
		{"file", 0, false},
		{"steam", 0, false},
		{"mailto", 0, false},
		{"unknown", 0, false},
	}

	for _, c := range cases {
		port, ok := r.DefaultPort(c.scheme)
		if port != c.wantPort || ok != c.wantOK {
			t.Errorf("registry.DefaultPort(%q) = %v, %v, want %v, %v",
				c.scheme, port, ok, c.wantPort, c.wantOK)
		}
	}
}

func TestRegisterScheme(t *testing.T) {
	t.Parallel()

	// The default registry drives parsing of unregistered schemes.
	before := mustParse(t, "testscheme42://example.com/p")
	if uses, known := before.UsesNetloc(); !uses || !known {
		t.Errorf("url.UsesNetloc() = %v, %v, want true, true", uses, known)
	}

	if err := urlkit.RegisterScheme("testscheme42", true, 4242); err != nil {
		t.Fatalf("urlkit.RegisterScheme(...) error = %v, want nil", err)
	}
	u := mustParse(t, "testscheme42://example.com/p")
	if port, ok := u.Port(); !ok || port != 4242 {
		t.Errorf("url.Port() = %v, %v, want 4242, true", port, ok)
	}
	if got, want := u.String(), "testscheme42://example.com/p"; got != want {
		t.Errorf("url.String() = %q, want %q", got, want)
	}
}
