package api

import (
	"io"
	"net/url"
	"strings"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/bogdanfinn/tls-client/bandwidth"
)

// mockHTTPClient implements tls_client.HttpClient for testing
type mockHTTPClient struct {
	doFunc func(req *fhttp.Request) (*fhttp.Response, error)

	mu       sync.Mutex
	requests []*fhttp.Request
	bodies   []string
	closed   bool
}

func (m *mockHTTPClient) GetCookies(u *url.URL) []*fhttp.Cookie          { return nil }
func (m *mockHTTPClient) SetCookies(u *url.URL, cookies []*fhttp.Cookie) {}
func (m *mockHTTPClient) SetCookieJar(jar fhttp.CookieJar)               {}
func (m *mockHTTPClient) GetCookieJar() fhttp.CookieJar                  { return nil }
func (m *mockHTTPClient) SetProxy(proxyUrl string) error                 { return nil }
func (m *mockHTTPClient) GetProxy() string                               { return "" }
func (m *mockHTTPClient) SetFollowRedirect(followRedirect bool)          {}
func (m *mockHTTPClient) GetFollowRedirect() bool                        { return false }
func (m *mockHTTPClient) Get(url string) (*fhttp.Response, error)        { return nil, nil }
func (m *mockHTTPClient) Head(url string) (*fhttp.Response, error)       { return nil, nil }
func (m *mockHTTPClient) Post(url, contentType string, body io.Reader) (*fhttp.Response, error) {
	return nil, nil
}
func (m *mockHTTPClient) GetBandwidthTracker() bandwidth.BandwidthTracker { return nil }

func (m *mockHTTPClient) CloseIdleConnections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *mockHTTPClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	body := ""
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		body = string(data)
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.bodies = append(m.bodies, body)
	m.mu.Unlock()

	if m.doFunc != nil {
		return m.doFunc(req)
	}
	return nil, nil
}

func (m *mockHTTPClient) lastRequest() (*fhttp.Request, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil, ""
	}
	i := len(m.requests) - 1
	return m.requests[i], m.bodies[i]
}

func (m *mockHTTPClient) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// respondWith returns a doFunc answering every request with status and body
func respondWith(status int, body string) func(req *fhttp.Request) (*fhttp.Response, error) {
	return func(req *fhttp.Request) (*fhttp.Response, error) {
		return &fhttp.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(fhttp.Header),
		}, nil
	}
}

// newTestClient builds a Client around a mock HTTP client
func newTestClient(mock *mockHTTPClient, opts ...ClientOption) *Client {
	base := []ClientOption{
		WithHTTPClient(mock),
		WithBaseURL("http://backend.test"),
		WithRequestIDFunc(func() string { return "req-1" }),
	}
	client, err := NewClient(append(base, opts...)...)
	if err != nil {
		panic(err)
	}
	return client
}
