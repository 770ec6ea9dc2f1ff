// Package issuer is the entry point for obtaining SciTokens and macaroons
// with an X.509 identity. Every call builds its own HTTPS client from the
// identity, so nothing is shared between calls.
package issuer

import (
	"context"
	"crypto/x509"
	"io"
	"time"

	"github.com/scitokens/x509-token-issuer/pkg/config"
	"github.com/scitokens/x509-token-issuer/pkg/credentials"
	"github.com/scitokens/x509-token-issuer/pkg/oauth"
	"github.com/scitokens/x509-token-issuer/pkg/transport"
)

type options struct {
	caDir     string
	rootCAs   *x509.CertPool
	timeout   time.Duration
	userAgent string
	verbose   io.Writer
}

// Option tunes a single call.
type Option func(*options)

// WithCADir adds the PEM certificates in dir to the system roots.
func WithCADir(dir string) Option {
	return func(o *options) { o.caDir = dir }
}

// WithRootCAs replaces the roots used to verify issuers. It takes precedence
// over WithCADir.
func WithRootCAs(pool *x509.CertPool) Option {
	return func(o *options) { o.rootCAs = pool }
}

// WithTimeout bounds each HTTP request.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.timeout = timeout }
}

// WithUserAgent replaces the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(o *options) { o.userAgent = userAgent }
}

// WithVerbose dumps request and response headers to w.
func WithVerbose(w io.Writer) Option {
	return func(o *options) { o.verbose = w }
}

// UserAgent is sent when no other is configured.
func UserAgent() string {
	return "x509_token_issuer/" + config.Version
}

// RetrieveToken obtains a SciToken from issuerURL, authenticating with id.
func RetrieveToken(ctx context.Context, issuerURL string, id credentials.Identity, opts ...Option) (string, error) {
	if _, err := oauth.ParseIssuerURL(issuerURL); err != nil {
		return "", err
	}

	client, err := newClient(id, opts)
	if err != nil {
		return "", err
	}

	return client.AcquireToken(ctx, issuerURL)
}

// RetrieveMacaroon obtains a macaroon for resourceURL valid for
// validityMinutes and limited to activities, authenticating with id.
func RetrieveMacaroon(ctx context.Context, resourceURL string, id credentials.Identity, validityMinutes int, activities []string, opts ...Option) (string, error) {
	if validityMinutes <= 0 {
		return "", &oauth.Error{Kind: oauth.KindInvalidArgument, Msg: "macaroon validity must be positive"}
	}
	if len(activities) == 0 {
		return "", &oauth.Error{Kind: oauth.KindInvalidArgument, Msg: "at least one macaroon activity must be specified"}
	}
	if _, err := oauth.ParseIssuerURL(resourceURL); err != nil {
		return "", err
	}

	client, err := newClient(id, opts)
	if err != nil {
		return "", err
	}

	return client.AcquireMacaroon(ctx, resourceURL, validityMinutes, activities)
}

// ResolveTokenEndpoint reports the token endpoint advertised by issuerURL.
func ResolveTokenEndpoint(ctx context.Context, issuerURL string, id credentials.Identity, allowFallback bool, opts ...Option) (string, error) {
	if _, err := oauth.ParseIssuerURL(issuerURL); err != nil {
		return "", err
	}

	client, err := newClient(id, opts)
	if err != nil {
		return "", err
	}

	return client.ResolveTokenEndpoint(ctx, issuerURL, allowFallback)
}

func newClient(id credentials.Identity, opts []Option) (*oauth.Client, error) {
	o := options{userAgent: UserAgent()}
	for _, opt := range opts {
		opt(&o)
	}

	cert, err := credentials.Load(id)
	if err != nil {
		return nil, &oauth.Error{Kind: oauth.KindCredentialLoadFailure, Msg: "could not load the user credentials", Err: err}
	}

	roots := o.rootCAs
	if roots == nil && o.caDir != "" {
		roots, err = credentials.LoadCAPool(o.caDir)
		if err != nil {
			return nil, &oauth.Error{Kind: oauth.KindCredentialLoadFailure, Msg: "could not load the CA certificates", Err: err}
		}
	}

	httpClient := transport.New(transport.Options{
		Certificate: cert,
		RootCAs:     roots,
		Timeout:     o.timeout,
		UserAgent:   o.userAgent,
		Verbose:     o.verbose,
	})

	return oauth.NewClient(httpClient), nil
}

