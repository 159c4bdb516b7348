package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/olreppe/pyWATS-sub001/config"
)

type widget struct {
	ID   int    `json:"id"`
	Name string `json:"name" validate:"required"`
}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, append([]Option{WithToken("dG9rZW4=")}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://host", "http://", "::bad"} {
		if _, err := New(raw); err == nil {
			t.Errorf("New(%q) expected error", raw)
		}
	}
}

func TestNewRejectsInsecureWithCustomTransport(t *testing.T) {
	hc := &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	if _, err := New("https://wats.example.com", WithHTTPClient(hc), WithInsecureSkipVerify(true)); err == nil {
		t.Error("expected error for insecure option with custom transport")
	}
	if _, err := New("https://wats.example.com", WithHTTPClient(&http.Client{}), WithInsecureSkipVerify(true)); err != nil {
		t.Errorf("client without transport: %v", err)
	}
	if _, err := New("https://wats.example.com", WithHTTPClient(hc)); err != nil {
		t.Errorf("custom transport: %v", err)
	}
}

func TestDoParsesSuccess(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"name":"gauge"}`))
	}, WithHeaders(map[string]string{"X-Station": "line-1"}), WithUserAgent("test-agent"))

	ep := Endpoint{Method: http.MethodGet, Path: "/api/Widget/{name}"}
	resp, err := Do[widget](context.Background(), c, ep, Request{
		Path:  map[string]string{"name": "a b/c"},
		Query: map[string]string{"top": "5"},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
	if resp.Parsed == nil || resp.Parsed.ID != 7 || resp.Parsed.Name != "gauge" {
		t.Fatalf("Parsed = %+v", resp.Parsed)
	}

	if got.URL.EscapedPath() != "/api/Widget/a%20b%2Fc" {
		t.Errorf("path = %q", got.URL.EscapedPath())
	}
	if got.URL.Query().Get("top") != "5" {
		t.Errorf("query = %q", got.URL.RawQuery)
	}
	if got.Header.Get("Authorization") != "Basic dG9rZW4=" {
		t.Errorf("Authorization = %q", got.Header.Get("Authorization"))
	}
	if got.Header.Get("Accept") != "application/json" {
		t.Errorf("Accept = %q", got.Header.Get("Accept"))
	}
	if got.Header.Get("X-Station") != "line-1" {
		t.Errorf("X-Station = %q", got.Header.Get("X-Station"))
	}
	if got.Header.Get("User-Agent") != "test-agent" {
		t.Errorf("User-Agent = %q", got.Header.Get("User-Agent"))
	}
}

func TestParsedHelper(t *testing.T) {
	v, err := Parsed(&Response[widget]{Parsed: &widget{ID: 1}}, nil)
	if err != nil || v == nil || v.ID != 1 {
		t.Errorf("Parsed = %+v, %v", v, err)
	}
	wantErr := errors.New("boom")
	if _, err := Parsed[widget](nil, wantErr); !errors.Is(err, wantErr) {
		t.Errorf("err = %v", err)
	}
}

func TestDoUnexpectedStatus(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"Message":"Unit not found"}`))
	}
	ep := Endpoint{Method: http.MethodGet, Path: "/api/Widget"}

	t.Run("quiet", func(t *testing.T) {
		c := newTestClient(t, handler)
		resp, err := Do[widget](context.Background(), c, ep, Request{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Parsed != nil {
			t.Errorf("Parsed = %+v, want nil", resp.Parsed)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d", resp.StatusCode)
		}
	})

	t.Run("raise", func(t *testing.T) {
		c := newTestClient(t, handler, WithRaiseOnUnexpectedStatus(true))
		resp, err := Do[widget](context.Background(), c, ep, Request{})
		var se *UnexpectedStatusError
		if !errors.As(err, &se) {
			t.Fatalf("err = %v, want UnexpectedStatusError", err)
		}
		if resp == nil || resp.StatusCode != http.StatusNotFound {
			t.Errorf("response should accompany the error: %+v", resp)
		}
		if !IsNotFound(err) {
			t.Error("IsNotFound = false")
		}
		if se.APIError() == nil || se.APIError().Message != "Unit not found" {
			t.Errorf("APIError = %+v", se.APIError())
		}
		if !strings.Contains(err.Error(), "Unit not found") {
			t.Errorf("Error() = %q", err.Error())
		}
	})
}

func TestDoCustomSuccessCodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":3,"name":"new"}`))
	}, WithRaiseOnUnexpectedStatus(true))

	ep := Endpoint{Method: http.MethodPost, Path: "/api/Widget", Success: []int{200, 201}}
	v, err := Parsed(Do[widget](context.Background(), c, ep, Request{Body: JSON(widget{Name: "new"})}))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if v.ID != 3 {
		t.Errorf("ID = %d", v.ID)
	}
}

func TestDoMissingPathParameter(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })

	_, err := Do[widget](context.Background(), c, Endpoint{Method: "GET", Path: "/api/Widget/{id}"}, Request{})
	var mp *MissingParameterError
	if !errors.As(err, &mp) || mp.Name != "id" {
		t.Fatalf("err = %v, want missing id", err)
	}
	if hits.Load() != 0 {
		t.Error("request was sent despite missing parameter")
	}
}

func TestDoValidatesJSONBody(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })

	ep := Endpoint{Method: http.MethodPut, Path: "/api/Widget"}
	_, err := Do[widget](context.Background(), c, ep, Request{Body: JSON([]widget{{Name: "ok"}, {ID: 2}})})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if !strings.Contains(ve.Error(), "name") {
		t.Errorf("Error() = %q, want json field name", ve.Error())
	}
	if hits.Load() != 0 {
		t.Error("request was sent despite invalid body")
	}
}

func TestDoDecodesSpecialTypes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/raw":
			_, _ = w.Write([]byte("<Report/>"))
		case "/empty":
			w.WriteHeader(http.StatusOK)
		case "/bad":
			_, _ = w.Write([]byte("{not json"))
		case "/null":
			_, _ = w.Write([]byte(" null\n"))
		}
	})
	ctx := context.Background()

	raw, err := Parsed(Do[[]byte](ctx, c, Endpoint{Method: "GET", Path: "/raw"}, Request{}))
	if err != nil || string(*raw) != "<Report/>" {
		t.Errorf("raw = %v, %v", raw, err)
	}
	text, err := Parsed(Do[string](ctx, c, Endpoint{Method: "GET", Path: "/raw"}, Request{}))
	if err != nil || *text != "<Report/>" {
		t.Errorf("text = %v, %v", text, err)
	}
	empty, err := Parsed(Do[widget](ctx, c, Endpoint{Method: "GET", Path: "/empty"}, Request{}))
	if err != nil || empty != nil {
		t.Errorf("empty = %v, %v", empty, err)
	}
	null, err := Parsed(Do[widget](ctx, c, Endpoint{Method: "GET", Path: "/null"}, Request{}))
	if err != nil || null != nil {
		t.Errorf("null = %+v, %v", null, err)
	}
	list, err := ParsedList(Do[[]widget](ctx, c, Endpoint{Method: "GET", Path: "/null"}, Request{}))
	if err != nil || list != nil {
		t.Errorf("null list = %v, %v", list, err)
	}
	none, err := Parsed(Do[NoContent](ctx, c, Endpoint{Method: "GET", Path: "/raw"}, Request{}))
	if err != nil || none != nil {
		t.Errorf("NoContent = %v, %v", none, err)
	}
	if _, err := Do[widget](ctx, c, Endpoint{Method: "GET", Path: "/bad"}, Request{}); err == nil {
		t.Error("expected decode error")
	}
}

func TestFormAndMultipartBodies(t *testing.T) {
	type form struct {
		Type     string  `schema:"serialNumberType"`
		Quantity int     `schema:"quantity"`
		Ref      *string `schema:"refSN,omitempty"`
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/form":
			if err := r.ParseForm(); err != nil {
				t.Errorf("ParseForm: %v", err)
			}
			if r.PostForm.Get("serialNumberType") != "PCBA" || r.PostForm.Get("quantity") != "3" {
				t.Errorf("form = %v", r.PostForm)
			}
			if _, ok := r.PostForm["refSN"]; ok {
				t.Error("unset refSN was sent")
			}
		case "/multipart":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("ParseMultipartForm: %v", err)
				return
			}
			if r.FormValue("comment") != "hello" {
				t.Errorf("comment = %q", r.FormValue("comment"))
			}
			f, hdr, err := r.FormFile("file")
			if err != nil {
				t.Errorf("FormFile: %v", err)
				return
			}
			defer f.Close()
			data, _ := io.ReadAll(f)
			if hdr.Filename != `måling "A".txt` || string(data) != "contents" {
				t.Errorf("file = %s %q", hdr.Filename, data)
			}
			if hdr.Header.Get("Content-Type") != "text/plain" {
				t.Errorf("part content type = %q", hdr.Header.Get("Content-Type"))
			}
		}
		w.WriteHeader(http.StatusOK)
	}, WithRaiseOnUnexpectedStatus(true))
	ctx := context.Background()

	if _, err := Do[NoContent](ctx, c, Endpoint{Method: "POST", Path: "/form"}, Request{Body: Form(form{Type: "PCBA", Quantity: 3})}); err != nil {
		t.Fatalf("form: %v", err)
	}

	body := Multipart(map[string]string{"comment": "hello"}, File{
		FileName:    `måling "A".txt`,
		ContentType: "text/plain",
		Payload:     strings.NewReader("contents"),
	})
	if _, err := Do[NoContent](ctx, c, Endpoint{Method: "POST", Path: "/multipart"}, Request{Body: body}); err != nil {
		t.Fatalf("multipart: %v", err)
	}
}

func TestRawCall(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Query().Get("id") != "9" {
			t.Errorf("got %s %s", r.Method, r.URL)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	resp, err := c.Raw(context.Background(), "delete", "/api/Asset", map[string][]string{"id": {"9"}}, nil)
	if err != nil {
		t.Fatalf("Raw: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
}

func TestRawCallMergesPathQuery(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := c.Raw(context.Background(), "GET", "/api/Asset?$top=1&$orderby=name", map[string][]string{"$filter": {"state eq 1"}}, nil)
	if err != nil {
		t.Fatalf("Raw: %v", err)
	}
	if got.URL.Path != "/api/Asset" {
		t.Errorf("path = %q", got.URL.Path)
	}
	q := got.URL.Query()
	if q.Get("$top") != "1" || q.Get("$orderby") != "name" || q.Get("$filter") != "state eq 1" {
		t.Errorf("query = %q", got.URL.RawQuery)
	}
	if strings.Count(got.URL.RawQuery, "?") != 0 {
		t.Errorf("raw query contains '?': %q", got.URL.RawQuery)
	}
}

func TestClientDerivations(t *testing.T) {
	var seen http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	})

	derived := c.WithHeaders(map[string]string{"Referer": c.BaseURL()}).
		WithCookies(&http.Cookie{Name: "session", Value: "abc"}).
		WithTimeout(5 * time.Second).
		WithRaiseOnUnexpectedStatus(true)

	if _, err := Do[widget](context.Background(), derived, Endpoint{Method: "GET", Path: "/x"}, Request{}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if seen.Get("Referer") != c.BaseURL() {
		t.Errorf("Referer = %q", seen.Get("Referer"))
	}
	if !strings.Contains(seen.Get("Cookie"), "session=abc") {
		t.Errorf("Cookie = %q", seen.Get("Cookie"))
	}
	if derived.HTTPClient().Timeout != 5*time.Second {
		t.Errorf("derived timeout = %v", derived.HTTPClient().Timeout)
	}
	if c.HTTPClient().Timeout != defaultTimeout {
		t.Errorf("original timeout changed to %v", c.HTTPClient().Timeout)
	}
	if c.RaisesOnUnexpectedStatus() || !derived.RaisesOnUnexpectedStatus() {
		t.Error("raise flag leaked between clients")
	}

	if _, err := Do[widget](context.Background(), c, Endpoint{Method: "GET", Path: "/x"}, Request{}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if seen.Get("Referer") != "" || seen.Get("Cookie") != "" {
		t.Errorf("original client picked up derived state: %v", seen)
	}
}

func TestAuthStrategies(t *testing.T) {
	tests := []struct {
		name  string
		auth  AuthStrategy
		check func(*http.Request) bool
	}{
		{"bearer", &TokenAuth{Prefix: "Bearer", Token: "t"}, func(r *http.Request) bool {
			return r.Header.Get("Authorization") == "Bearer t"
		}},
		{"header", &HeaderAuth{Header: "X-Api-Key", Key: "k"}, func(r *http.Request) bool {
			return r.Header.Get("X-Api-Key") == "k"
		}},
		{"query", &QueryAuth{Param: "token", Key: "q"}, func(r *http.Request) bool {
			return r.URL.Query().Get("token") == "q" && r.URL.Query().Get("top") == "1"
		}},
		{"basic", &BasicAuth{Username: "u", Password: "p"}, func(r *http.Request) bool {
			u, p, ok := r.BasicAuth()
			return ok && u == "u" && p == "p"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if !tt.check(r) {
					t.Errorf("auth not applied: %v %v", r.URL, r.Header)
				}
			}, WithAuth(tt.auth))
			if _, err := Do[NoContent](context.Background(), c, Endpoint{Method: "GET", Path: "/x"}, Request{Query: map[string]string{"top": "1"}}); err != nil {
				t.Fatalf("Do: %v", err)
			}
		})
	}
}

func TestRetryTransport(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.Method == http.MethodPut && string(body) != `{"id":1,"name":"a"}` {
			t.Errorf("attempt %d body = %q", hits.Load(), body)
		}
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"name":"a"}`))
	}, WithRetry(RetryConfig{MaxRetries: 3, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}))

	v, err := Parsed(Do[widget](context.Background(), c, Endpoint{Method: http.MethodPut, Path: "/x"}, Request{Body: JSON(widget{ID: 1, Name: "a"})}))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if v == nil || v.ID != 1 {
		t.Errorf("Parsed = %+v", v)
	}
	if hits.Load() != 3 {
		t.Errorf("attempts = %d, want 3", hits.Load())
	}
}

func TestRetryTransportSkipsPostAndExhausts(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, WithRetry(RetryConfig{MaxRetries: 1, InitialBackoff: time.Millisecond}), WithRaiseOnUnexpectedStatus(true))
	ctx := context.Background()

	_, err := Do[widget](ctx, c, Endpoint{Method: http.MethodPost, Path: "/x"}, Request{})
	if StatusCode(err) != http.StatusBadGateway {
		t.Fatalf("err = %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("POST attempts = %d, want 1", hits.Load())
	}

	hits.Store(0)
	_, err = Do[widget](ctx, c, Endpoint{Method: http.MethodGet, Path: "/x"}, Request{})
	if StatusCode(err) != http.StatusBadGateway {
		t.Fatalf("err = %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("GET attempts = %d, want 2", hits.Load())
	}
}

func TestCircuitBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, WithCircuitBreaker(BreakerConfig{FailureThreshold: 2, Timeout: time.Minute}))
	ctx := context.Background()
	ep := Endpoint{Method: http.MethodGet, Path: "/x"}

	for i := 0; i < 2; i++ {
		resp, err := Do[widget](ctx, c, ep, Request{})
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("call %d status = %d", i, resp.StatusCode)
		}
	}

	_, err := Do[widget](ctx, c, ep, Request{})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2", hits.Load())
	}
}

func TestRateLimitedClientThrottles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"name":"x"}`))
	}, WithRateLimit(5, 1))
	ep := Endpoint{Method: "GET", Path: "/x"}

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := Do[widget](context.Background(), c, ep, Request{}); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed < 350*time.Millisecond {
		t.Errorf("3 calls at 5 rps took %v, want >= 350ms", elapsed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Do[widget](ctx, c, ep, Request{})
	if err == nil || !strings.Contains(err.Error(), "rate limit:") {
		t.Errorf("err = %v, want rate limit error", err)
	}
}

func TestLoggingTransport(t *testing.T) {
	core, obs := observer.New(zapcore.DebugLevel)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}, WithLogger(zap.New(core)))

	if _, err := Do[NoContent](context.Background(), c, Endpoint{Method: "GET", Path: "/api/App/Version"}, Request{}); err != nil {
		t.Fatalf("Do: %v", err)
	}

	entries := obs.FilterMessage("wats request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/api/App/Version" || fields["status"] != int64(http.StatusAccepted) {
		t.Errorf("fields = %v", fields)
	}
}

func TestNewFromConfig(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	cfg := &config.Config{
		BaseURL:                 srv.URL + "/",
		Token:                   "abc",
		Timeout:                 2 * time.Second,
		RaiseOnUnexpectedStatus: true,
		Retry:                   config.RetryConfig{MaxRetries: 1, InitialBackoff: time.Millisecond},
	}
	c, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if c.BaseURL() != srv.URL {
		t.Errorf("BaseURL = %q", c.BaseURL())
	}
	_, err = Do[widget](context.Background(), c, Endpoint{Method: "GET", Path: "/x"}, Request{})
	if StatusCode(err) != http.StatusTeapot {
		t.Errorf("err = %v", err)
	}
	if auth != "Basic abc" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestDateTimeJSON(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2024-03-01T10:20:30Z"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{`"2024-03-01T10:20:30.1234567"`, time.Date(2024, 3, 1, 10, 20, 30, 123456700, time.UTC)},
		{`"2024-03-01"`, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{`null`, time.Time{}},
	}
	for _, tt := range tests {
		var d DateTime
		if err := json.Unmarshal([]byte(tt.in), &d); err != nil {
			t.Errorf("Unmarshal(%s): %v", tt.in, err)
			continue
		}
		if !d.Equal(tt.want) {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, d.Time, tt.want)
		}
	}

	var d DateTime
	if err := json.Unmarshal([]byte(`"yesterday"`), &d); err == nil {
		t.Error("expected error for unparseable time")
	}

	out, _ := json.Marshal(NewDateTime(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
	if string(out) != `"2024-03-01T10:00:00Z"` {
		t.Errorf("Marshal = %s", out)
	}
	out, _ = json.Marshal(DateTime{})
	if string(out) != "null" {
		t.Errorf("Marshal(zero) = %s", out)
	}
}
