package oauth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/scitokens/x509-token-issuer/pkg/logs"
)

var logger = logs.Logger("oauth")

// Client speaks the issuer protocols over an HTTP client that already carries
// the caller's identity. A Client holds no state between calls.
type Client struct {
	httpClient *http.Client
}

// NewClient returns a Client issuing requests through httpClient. A nil
// httpClient uses http.DefaultClient, which is only useful for anonymous calls.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient}
}

type exchange struct {
	method      string
	url         string
	contentType string
	body        []byte
	// field is the JSON key whose string value is the result.
	field string
}

// do performs one round trip and validates the response. It never retries.
func (c *Client) do(ctx context.Context, x exchange) (string, error) {
	var body io.Reader = http.NoBody
	if x.body != nil {
		body = bytes.NewReader(x.body)
	}

	req, err := http.NewRequestWithContext(ctx, x.method, x.url, body)
	if err != nil {
		return "", newError(KindRequestFailure, fmt.Sprintf("creating %s request for %s", x.method, x.url), err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if x.contentType != "" {
		req.Header.Set("Content-Type", x.contentType)
	}

	logger.Debugf("%s %s", x.method, x.url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", newError(KindRequestFailure, fmt.Sprintf("%s %s failed", x.method, x.url), err)
	}
	defer resp.Body.Close()

	buf, err := readBody(resp)
	if err != nil {
		return "", err
	}
	logger.Debugf("%s %s: status %d, %d bytes", x.method, x.url, resp.StatusCode, len(buf))

	if err := checkStatus(resp, buf); err != nil {
		return "", err
	}

	return extractString(buf, x.field)
}
