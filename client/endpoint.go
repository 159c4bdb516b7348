package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yosida95/uritemplate/v3"
	"go.uber.org/zap"
)

// Endpoint describes one REST operation. Path is a template whose {name}
// segments are filled from Request.Path.
type Endpoint struct {
	Method string
	Path   string
	// Success lists the statuses whose body is parsed. Defaults to 200.
	Success []int
}

func (ep Endpoint) succeeds(status int) bool {
	if len(ep.Success) == 0 {
		return status == http.StatusOK
	}
	for _, s := range ep.Success {
		if s == status {
			return true
		}
	}
	return false
}

// Request carries the per-call inputs of an Endpoint.
type Request struct {
	Path   map[string]string
	Query  any
	Body   Body
	Header http.Header
}

// Response is the detailed result of an operation.
type Response[T any] struct {
	StatusCode int
	Header     http.Header
	Content    []byte
	// Parsed is nil unless the status was one of the endpoint's success
	// codes and the body carried a model.
	Parsed *T
}

// Do executes ep and parses a successful response into T. Statuses outside
// ep.Success yield a Response with nil Parsed, and also an
// *UnexpectedStatusError when the client raises on unexpected statuses.
func Do[T any](ctx context.Context, c *Client, ep Endpoint, req Request) (*Response[T], error) {
	httpReq, err := c.newRequest(ctx, ep, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: executing request: %w", ep.Method, ep.Path, err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading response: %w", ep.Method, ep.Path, err)
	}

	out := &Response[T]{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Content:    content,
	}

	if !ep.succeeds(resp.StatusCode) {
		c.logger.Debug("unexpected status",
			zap.String("method", ep.Method),
			zap.String("path", ep.Path),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", time.Since(start)),
		)
		if c.raiseOnUnexpectedStatus {
			return out, &UnexpectedStatusError{
				Method:     ep.Method,
				Path:       httpReq.URL.Path,
				StatusCode: resp.StatusCode,
				Content:    content,
			}
		}
		return out, nil
	}

	parsed, err := decode[T](content)
	if err != nil {
		return out, fmt.Errorf("%s %s: decoding response: %w", ep.Method, ep.Path, err)
	}
	out.Parsed = parsed
	return out, nil
}

// Parsed drops the detailed response and returns only the parsed model.
func Parsed[T any](resp *Response[T], err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	return resp.Parsed, nil
}

// ParsedList is Parsed for list endpoints. A missing body yields a nil slice.
func ParsedList[T any](resp *Response[[]T], err error) ([]T, error) {
	v, err := Parsed(resp, err)
	if err != nil || v == nil {
		return nil, err
	}
	return *v, nil
}

// Raw issues an arbitrary request relative to the base URL and returns the
// body unparsed. Any 2xx status counts as success.
func (c *Client) Raw(ctx context.Context, method, path string, query url.Values, body Body) (*Response[[]byte], error) {
	ep := Endpoint{
		Method:  strings.ToUpper(method),
		Path:    path,
		Success: []int{200, 201, 202, 204},
	}
	return Do[[]byte](ctx, c, ep, Request{Query: query, Body: body})
}

func decode[T any](content []byte) (*T, error) {
	var out T
	switch p := any(&out).(type) {
	case *NoContent:
		return nil, nil
	case *[]byte:
		*p = content
		return &out, nil
	case *string:
		*p = string(content)
		return &out, nil
	}

	// An empty or null body means the server has no model to return.
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if err := json.Unmarshal(content, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExpandPath substitutes {name} segments of tmpl with escaped values from
// params using RFC 6570 simple expansion. Empty or absent values are reported
// as missing parameters.
func ExpandPath(tmpl string, params map[string]string) (string, error) {
	if !strings.ContainsAny(tmpl, "{}") {
		return tmpl, nil
	}
	t, err := uritemplate.New(tmpl)
	if err != nil {
		return "", fmt.Errorf("malformed path template %q: %w", tmpl, err)
	}

	vals := uritemplate.Values{}
	for _, name := range t.Varnames() {
		value := params[name]
		if value == "" {
			return "", &MissingParameterError{Name: name}
		}
		vals.Set(name, uritemplate.String(value))
	}
	return t.Expand(vals)
}

func (c *Client) newRequest(ctx context.Context, ep Endpoint, req Request) (*http.Request, error) {
	tmpl, rawQuery, _ := strings.Cut(ep.Path, "?")
	path, err := ExpandPath(tmpl, req.Path)
	if err != nil {
		return nil, err
	}

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("parsing query of %q: %w", ep.Path, err)
	}
	encoded, err := EncodeValues(req.Query)
	if err != nil {
		return nil, err
	}
	for k, vs := range encoded {
		for _, v := range vs {
			query.Add(k, v)
		}
	}

	var (
		payload     []byte
		contentType string
	)
	if req.Body != nil {
		payload, contentType, err = req.Body.Encode()
		if err != nil {
			return nil, err
		}
	}

	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, ep.Method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, vs := range c.headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	for k, vs := range req.Header {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	for _, ck := range c.cookies {
		httpReq.AddCookie(ck)
	}
	if c.auth != nil {
		c.auth.Apply(httpReq)
	}
	return httpReq, nil
}
