package urlkit

import (
	"braces.dev/errtrace"
)

// QueryParam is a single query pair. HasValue distinguishes "?key=" from
// the stand-alone "?key" form.
type QueryParam struct {
	Key      string
	Value    string
	HasValue bool
}

// Param returns a key=value query parameter.
func Param(key, value string) QueryParam {
	return QueryParam{Key: key, Value: value, HasValue: true}
}

// FlagParam returns a stand-alone query parameter without a value.
func FlagParam(key string) QueryParam {
	return QueryParam{Key: key}
}

// Get returns all values associated with the given query parameter name,
// in order of appearance. Stand-alone parameters contribute an empty string.
func (u *URL) Get(name string) []string {
	if u == nil {
		return nil
	}
	var vals []string
	for _, p := range u.query {
		if p.Key == name {
			vals = append(vals, p.Value)
		}
	}
	return vals
}

// Add returns a new URL with the name=value query parameter appended.
func (u *URL) Add(name, value string) (*URL, error) {
	return errtrace.Wrap2(u.addParam(Param(name, value)))
}

// AddFlag returns a new URL with the stand-alone query parameter name appended.
func (u *URL) AddFlag(name string) (*URL, error) {
	return errtrace.Wrap2(u.addParam(FlagParam(name)))
}

func (u *URL) addParam(p QueryParam) (*URL, error) {
	if u == nil {
		u = &URL{}
	}
	q := make([]QueryParam, 0, len(u.query)+1)
	q = append(q, u.query...)
	q = append(q, p)
	return errtrace.Wrap2(u.Replace(WithQuery(q...)))
}

// Set returns a new URL with every occurrence of the named query parameter
// replaced by a single name=value pair at the position of the first
// occurrence, or appended when the name is absent.
func (u *URL) Set(name, value string) (*URL, error) {
	if u == nil {
		u = &URL{}
	}
	q := make([]QueryParam, 0, len(u.query)+1)
	idx := -1
	for _, p := range u.query {
		if p.Key == name {
			if idx < 0 {
				idx = len(q)
			}
			continue
		}
		q = append(q, p)
	}
	if idx < 0 {
		idx = len(q)
	}
	q = append(q, QueryParam{})
	copy(q[idx+1:], q[idx:])
	q[idx] = Param(name, value)
	return errtrace.Wrap2(u.Replace(WithQuery(q...)))
}

// Remove returns a new URL with every occurrence of the named query
// parameter dropped.
func (u *URL) Remove(name string) (*URL, error) {
	if u == nil {
		u = &URL{}
	}
	q := make([]QueryParam, 0, len(u.query))
	for _, p := range u.query {
		if p.Key != name {
			q = append(q, p)
		}
	}
	return errtrace.Wrap2(u.Replace(WithQuery(q...)))
}
