package api

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
)

// Jar is a cookie jar for the API host whose contents can be exported as a
// name to value map, so a session can carry the credentials between
// requests or process runs.
type Jar struct {
	inner *cookiejar.Jar
	base  *url.URL
	scope *url.URL
}

func NewJar(baseURL string, saved map[string]string) (*Jar, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", baseURL, err)
	}
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	// Cookies scoped to the API prefix must be visible when exporting.
	scope := base.JoinPath("api/v1/")

	j := &Jar{inner: inner, base: base, scope: scope}
	if len(saved) > 0 {
		j.Import(saved)
	}
	return j, nil
}

func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.inner.SetCookies(u, cookies)
}

func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

func (j *Jar) Import(saved map[string]string) {
	names := make([]string, 0, len(saved))
	for name := range saved {
		names = append(names, name)
	}
	sort.Strings(names)

	cookies := make([]*http.Cookie, 0, len(saved))
	for _, name := range names {
		cookies = append(cookies, &http.Cookie{Name: name, Value: saved[name], Path: "/"})
	}
	j.inner.SetCookies(j.base, cookies)
}

// Export returns the cookies currently held for the API host. An empty map
// means no credentials.
func (j *Jar) Export() map[string]string {
	out := map[string]string{}
	for _, c := range j.inner.Cookies(j.scope) {
		out[c.Name] = c.Value
	}
	return out
}
