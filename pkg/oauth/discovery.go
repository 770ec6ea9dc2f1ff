package oauth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/scitokens/x509-token-issuer/pkg/telemetry"
)

// ResolveTokenEndpoint finds the token endpoint of issuerURL.
//
// The RFC 8414 authorization server metadata is tried first, at the authority
// root with the issuer path appended. When that fails and allowFallback is
// set, the OpenID Connect configuration relative to the full issuer URL is
// tried instead, and its outcome is final.
func (c *Client) ResolveTokenEndpoint(ctx context.Context, issuerURL string, allowFallback bool) (endpoint string, err error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.OperationDiscovery, telemetry.IssuerAttr(issuerURL))
	start := time.Now()
	defer func() {
		telemetry.RecordOutcome(ctx, span, telemetry.OperationDiscovery, errorKind(err), time.Since(start))
		span.End()
	}()

	issuer, err := ParseIssuerURL(issuerURL)
	if err != nil {
		return "", err
	}
	return c.resolve(ctx, issuer, allowFallback)
}

func (c *Client) resolve(ctx context.Context, issuer IssuerURL, allowFallback bool) (string, error) {
	metadataURL := issuer.metadataURL()
	endpoint, err := c.fetchTokenEndpoint(ctx, metadataURL)
	if err == nil {
		return endpoint, nil
	}
	if !allowFallback {
		return "", newError(KindDiscoveryFailure, fmt.Sprintf("token endpoint discovery for %s failed", issuer), err)
	}

	// Only the outcome of the legacy attempt is reported.
	logger.Debugf("authorization server metadata at %s unusable, trying OpenID configuration: %v", metadataURL, err)

	endpoint, err = c.fetchTokenEndpoint(ctx, issuer.openIDConfigurationURL())
	if err != nil {
		return "", newError(KindDiscoveryFailure, fmt.Sprintf("token endpoint discovery for %s failed", issuer), err)
	}
	return endpoint, nil
}

// fetchTokenEndpoint fetches one discovery document and returns its
// token_endpoint. Every other field is ignored.
func (c *Client) fetchTokenEndpoint(ctx context.Context, documentURL string) (string, error) {
	endpoint, err := c.do(ctx, exchange{
		method: http.MethodGet,
		url:    documentURL,
		field:  "token_endpoint",
	})
	if err != nil {
		return "", err
	}
	logger.Debugf("token endpoint from %s: %s", documentURL, endpoint)
	return endpoint, nil
}

func errorKind(err error) string {
	if err == nil {
		return ""
	}
	return KindOf(err).String()
}
