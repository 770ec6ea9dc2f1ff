package oauth

import (
	"io"
	"net/http"
	"strings"
	"sync"
)

type stubResponse struct {
	status int
	body   string
	header http.Header
}

type recordedRequest struct {
	method string
	url    string
	header http.Header
	body   string
}

// stubTransport answers requests from a fixed table keyed by "METHOD URL".
// Unknown requests get a 404.
type stubTransport struct {
	mu        sync.Mutex
	responses map[string]stubResponse
	requests  []recordedRequest
}

func newStubClient(responses map[string]stubResponse) (*Client, *stubTransport) {
	stub := &stubTransport{responses: responses}
	return NewClient(&http.Client{Transport: stub}), stub
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		buf, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		body = string(buf)
	}

	key := req.Method + " " + req.URL.String()

	s.mu.Lock()
	s.requests = append(s.requests, recordedRequest{
		method: req.Method,
		url:    req.URL.String(),
		header: req.Header.Clone(),
		body:   body,
	})
	r, ok := s.responses[key]
	s.mu.Unlock()

	if !ok {
		r = stubResponse{status: http.StatusNotFound, body: "not found"}
	}
	header := r.header
	if header == nil {
		header = http.Header{}
	}

	return &http.Response{
		StatusCode:    r.status,
		Header:        header,
		Body:          io.NopCloser(strings.NewReader(r.body)),
		ContentLength: int64(len(r.body)),
		Request:       req,
	}, nil
}

func (s *stubTransport) calls() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedRequest(nil), s.requests...)
}

func (s *stubTransport) urls() []string {
	var urls []string
	for _, r := range s.calls() {
		urls = append(urls, r.method+" "+r.url)
	}
	return urls
}

func jsonOK(body string) stubResponse {
	return stubResponse{
		status: http.StatusOK,
		body:   body,
		header: http.Header{"Content-Type": []string{"application/json"}},
	}
}
