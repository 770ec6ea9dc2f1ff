package oauth

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/scitokens/x509-token-issuer/pkg/telemetry"
)

// AcquireMacaroon obtains a capability token for resourceURL valid for
// validityMinutes and limited to activities.
//
// The resource's authority is probed for an OAuth token endpoint (without
// the OpenID fallback). If one is found, an access token scoped to
// "activity:path" entries is requested from it. Otherwise the probe error is
// dropped and a macaroon is minted by POSTing a macaroon request to the
// resource itself.
func (c *Client) AcquireMacaroon(ctx context.Context, resourceURL string, validityMinutes int, activities []string) (macaroon string, err error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.OperationMacaroon, telemetry.IssuerAttr(resourceURL))
	start := time.Now()
	defer func() {
		telemetry.RecordOutcome(ctx, span, telemetry.OperationMacaroon, errorKind(err), time.Since(start))
		span.End()
	}()

	if validityMinutes <= 0 {
		return "", newError(KindInvalidArgument, "macaroon validity must be positive", nil)
	}
	if len(activities) == 0 {
		return "", newError(KindInvalidArgument, "at least one macaroon activity must be specified", nil)
	}

	resource, err := ParseIssuerURL(resourceURL)
	if err != nil {
		return "", err
	}

	protocol := ProtocolDirectMacaroon
	endpoint, discoveryErr := c.resolve(ctx, resource.Root(), false)
	if discoveryErr == nil {
		protocol = ProtocolOAuth
	} else {
		logger.Debugf("no token endpoint for %s, minting a macaroon directly: %v", resource.Root(), discoveryErr)
	}
	span.SetAttributes(attribute.String("issuer.protocol", protocol.String()))

	var x exchange
	switch protocol {
	case ProtocolOAuth:
		x = clientCredentialsRequest(endpoint, validityMinutes*60, activityScope(activities, resource.Path))
	case ProtocolDirectMacaroon:
		x, err = directMacaroonRequest(requestURL(resourceURL), validityMinutes, activities)
		if err != nil {
			return "", err
		}
	}

	return c.do(ctx, x)
}
