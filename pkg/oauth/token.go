package oauth

import (
	"context"
	"time"

	"github.com/scitokens/x509-token-issuer/pkg/telemetry"
)

// AcquireToken obtains a SciToken from issuerURL: the token endpoint is
// discovered (with fallback) and a client-credentials grant is posted to it.
// Errors from either step are returned as is.
func (c *Client) AcquireToken(ctx context.Context, issuerURL string) (token string, err error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.OperationToken, telemetry.IssuerAttr(issuerURL))
	start := time.Now()
	defer func() {
		telemetry.RecordOutcome(ctx, span, telemetry.OperationToken, errorKind(err), time.Since(start))
		span.End()
	}()

	issuer, err := ParseIssuerURL(issuerURL)
	if err != nil {
		return "", err
	}

	endpoint, err := c.resolve(ctx, issuer, true)
	if err != nil {
		return "", err
	}

	return c.do(ctx, clientCredentialsRequest(endpoint, 0, ""))
}
