package urlkit_test

import (
	"testing"

	"github.com/ghettovoice/urlkit"
)

func TestURL_ToURI(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want string
	}{
		{"ascii passthrough", "http://example.com/a?x=y#z", "http://example.com/a?x=y#z"},
		{"path encoded", "http://example.com/café", "http://example.com/caf%C3%A9"},
		{"host idna encoded", "http://bücher.ch/", "http://xn--bcher-kva.ch/"},
		{
			"query and fragment encoded",
			"http://example.com/?greeting=привет#раздел",
			"http://example.com/?greeting=%D0%BF%D1%80%D0%B8%D0%B2%D0%B5%D1%82#%D1%80%D0%B0%D0%B7%D0%B4%D0%B5%D0%BB",
		},
		{"already encoded untouched", "http://example.com/caf%C3%A9", "http://example.com/caf%C3%A9"},
		{"ip literal untouched", "http://[::1]/café", "http://[::1]/caf%C3%A9"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := mustParse(t, c.str).ToURI()
			if err != nil {
				t.Fatalf("url.ToURI() error = %v, want nil", err)
			}
			if got.String() != c.want {
				t.Errorf("url.ToURI() = %q, want %q", got, c.want)
			}

			// Converting again changes nothing.
			again, err := got.ToURI()
			if err != nil {
				t.Fatalf("url.ToURI() twice error = %v, want nil", err)
			}
			if !again.Equal(got) {
				t.Errorf("url.ToURI() twice = %q, want %q", again, got)
			}
		})
	}
}

func TestURL_ToIRI(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want string
	}{
		{"ascii passthrough", "http://example.com/a?x=y#z", "http://example.com/a?x=y#z"},
		{"path decoded", "http://example.com/caf%C3%A9", "http://example.com/café"},
		{"host idna decoded", "http://xn--bcher-kva.ch/", "http://bücher.ch/"},
		{
			"reserved delimiters stay encoded",
			"http://example.com/a%2Fb%20c",
			"http://example.com/a%2Fb c",
		},
		{"undecodable left alone", "http://example.com/%C3%28", "http://example.com/%C3%28"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := mustParse(t, c.str).ToIRI()
			if err != nil {
				t.Fatalf("url.ToIRI() error = %v, want nil", err)
			}
			if got.String() != c.want {
				t.Errorf("url.ToIRI() = %q, want %q", got, c.want)
			}

			again, err := got.ToIRI()
			if err != nil {
				t.Fatalf("url.ToIRI() twice error = %v, want nil", err)
			}
			if !again.Equal(got) {
				t.Errorf("url.ToIRI() twice = %q, want %q", again, got)
			}
		})
	}
}

func TestURL_ConvertRoundTrip(t *testing.T) {
	t.Parallel()

	iri := mustParse(t, "http://bücher.ch/café?greeting=привет")
	uri, err := iri.ToURI()
	if err != nil {
		t.Fatalf("url.ToURI() error = %v, want nil", err)
	}
	back, err := uri.ToIRI()
	if err != nil {
		t.Fatalf("url.ToIRI() error = %v, want nil", err)
	}
	if !back.Equal(iri) {
		t.Errorf("uri.ToIRI() = %q, want %q", back, iri)
	}
}

func TestURL_ToURI_Userinfo(t *testing.T) {
	t.Parallel()

	u, err := urlkit.New(
		urlkit.WithScheme("http"),
		urlkit.WithHost("example.com"),
		urlkit.WithUserinfo("jürgen:p@ss"),
	)
	if err != nil {
		t.Fatalf("urlkit.New(...) error = %v, want nil", err)
	}
	uri, err := u.ToURI()
	if err != nil {
		t.Fatalf("url.ToURI() error = %v, want nil", err)
	}
	if got, want := uri.Userinfo(), "j%C3%BCrgen:p%40ss"; got != want {
		t.Errorf("uri.Userinfo() = %q, want %q", got, want)
	}
}
