package oauth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

const (
	// MaxResponseSize bounds every response body. Some servers answer an
	// unknown POST as if it were a GET on the resource and would stream the
	// whole file back.
	MaxResponseSize = 1024 * 1024

	bodySnippetSize = 2048
)

// readBody reads at most MaxResponseSize bytes of the response. Reaching the
// ceiling is an error, never a truncation.
func readBody(resp *http.Response) ([]byte, error) {
	if resp.ContentLength >= MaxResponseSize {
		return nil, newError(KindResponseTooLarge,
			fmt.Sprintf("response is too large to process: %d bytes declared", resp.ContentLength), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, newError(KindRequestFailure, "reading response body failed", err)
	}
	if len(body) >= MaxResponseSize {
		return nil, newError(KindResponseTooLarge, "response was over 1MB", nil)
	}

	return body, nil
}

// checkStatus requires a 200. The error carries a snippet of the body, or the
// OAuth error description when the server sent one.
func checkStatus(resp *http.Response, body []byte) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	target := ""
	if resp.Request != nil && resp.Request.URL != nil {
		target = resp.Request.URL.String() + " "
	}
	return newError(KindUnexpectedStatus,
		fmt.Sprintf("%sreturned status %d: %s", target, resp.StatusCode, describeFailure(resp, body)), nil)
}

func describeFailure(resp *http.Response, body []byte) string {
	var oauthErr oauthErrorResponse
	if json.Unmarshal(body, &oauthErr) == nil && oauthErr.Error != "" {
		if oauthErr.ErrorDescription != "" {
			return oauthErr.Error + ": " + oauthErr.ErrorDescription
		}
		return oauthErr.Error
	}

	if wwwAuth := resp.Header.Get("WWW-Authenticate"); wwwAuth != "" {
		if challenges, err := ParseWWWAuthenticate(wwwAuth); err == nil {
			if desc := FindBearerError(challenges); desc != "" {
				return desc
			}
		}
	}

	snippet := string(body)
	if len(snippet) > bodySnippetSize {
		snippet = snippet[:bodySnippetSize]
	}
	snippet = strings.TrimSpace(snippet)
	if snippet == "" {
		return "(empty body)"
	}
	return snippet
}

// extractString parses body as JSON and returns the string stored under field.
func extractString(body []byte, field string) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", newError(KindInvalidResponseBody, "received response with empty content", nil)
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", newError(KindInvalidResponseBody, "response was not valid JSON", err)
	}

	value, err := jsonpath.Get("$."+field, doc)
	if err != nil {
		return "", newError(KindInvalidResponseBody, fmt.Sprintf("response did not include a %s key", field), nil)
	}

	s, ok := value.(string)
	if !ok {
		return "", newError(KindInvalidResponseBody, fmt.Sprintf("%s key was not a string", field), nil)
	}

	return s, nil
}
