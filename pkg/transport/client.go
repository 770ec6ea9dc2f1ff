// Package transport builds the HTTPS client used to talk to token issuers.
package transport

import (
	"crypto/tls"
	"crypto/x509"
	"io"
	"net/http"
	"net/http/httputil"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/scitokens/x509-token-issuer/pkg/logs"
)

const defaultTimeout = 30 * time.Second

// Options configures New.
type Options struct {
	// Certificate is presented during the TLS handshake. Nil means anonymous.
	Certificate *tls.Certificate
	// RootCAs verifies the server. Nil uses the system roots.
	RootCAs *x509.CertPool
	// Timeout bounds a whole request, including reading the body.
	Timeout time.Duration
	// UserAgent is sent on every request when not empty.
	UserAgent string
	// Verbose receives a dump of every request and response header when set.
	Verbose io.Writer
}

// New returns an HTTP client that always verifies the server certificate and
// never negotiates anything below TLS 1.2.
func New(opts Options) *http.Client {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		RootCAs:    opts.RootCAs,
	}
	if opts.Certificate != nil {
		tlsConfig.Certificates = []tls.Certificate{*opts.Certificate}
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSClientConfig = tlsConfig
	base.Proxy = http.ProxyFromEnvironment

	var rt http.RoundTripper = base
	if opts.Verbose != nil {
		rt = &dumpTransport{
			next: rt,
			out:  logs.NewPrefixer(opts.Verbose, "> "),
			in:   logs.NewPrefixer(opts.Verbose, "< "),
		}
	}
	if opts.UserAgent != "" {
		rt = &userAgentTransport{next: rt, userAgent: opts.UserAgent}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &http.Client{
		Transport: otelhttp.NewTransport(rt),
		Timeout:   timeout,
	}
}

type userAgentTransport struct {
	next      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(req)
}

// dumpTransport writes request and response headers. Bodies are left out
// since they carry tokens.
type dumpTransport struct {
	next http.RoundTripper

	mu  sync.Mutex
	out io.Writer
	in  io.Writer
}

func (t *dumpTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if dump, err := httputil.DumpRequestOut(req, false); err == nil {
		t.mu.Lock()
		_, _ = t.out.Write(dump)
		t.mu.Unlock()
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if dump, err := httputil.DumpResponse(resp, false); err == nil {
		t.mu.Lock()
		_, _ = t.in.Write(dump)
		t.mu.Unlock()
	}

	return resp, nil
}
