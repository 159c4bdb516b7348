package client

import "net/http"

// AuthStrategy applies authentication to an HTTP request.
type AuthStrategy interface {
	Apply(req *http.Request)
}

// TokenAuth sends a WATS API token in the Authorization header. WATS tokens
// are issued already base64 encoded and use the "Basic" scheme.
type TokenAuth struct {
	Prefix string
	Token  string
}

func (a *TokenAuth) Apply(req *http.Request) {
	prefix := a.Prefix
	if prefix == "" {
		prefix = "Basic"
	}
	req.Header.Set("Authorization", prefix+" "+a.Token)
}

// HeaderAuth sends a key via a custom header.
type HeaderAuth struct {
	Header string
	Key    string
}

func (a *HeaderAuth) Apply(req *http.Request) {
	req.Header.Set(a.Header, a.Key)
}

// QueryAuth sends a key as a query parameter.
type QueryAuth struct {
	Param string
	Key   string
}

func (a *QueryAuth) Apply(req *http.Request) {
	q := req.URL.Query()
	q.Set(a.Param, a.Key)
	req.URL.RawQuery = q.Encode()
}

// BasicAuth uses HTTP basic authentication with a username and password.
type BasicAuth struct {
	Username string
	Password string
}

func (a *BasicAuth) Apply(req *http.Request) {
	req.SetBasicAuth(a.Username, a.Password)
}
