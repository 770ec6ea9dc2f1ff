package oauth

import (
	"fmt"
	"strings"
)

// legacySchemeAlias is the scheme some storage systems use for WebDAV over TLS.
const legacySchemeAlias = "davs"

// IssuerURL is a parsed issuer or resource URL. The zero value is not valid;
// use ParseIssuerURL.
type IssuerURL struct {
	Scheme    string
	Authority string
	Path      string
}

// ParseIssuerURL splits raw into scheme, authority and path, and enforces HTTPS.
//
// The scheme and authority are lower-cased. The path runs from the first '/'
// after the authority up to (not including) the query; fragments are dropped.
// The davs alias is rewritten to https; any other non-https scheme is refused.
func ParseIssuerURL(raw string) (IssuerURL, error) {
	scheme, rest, found := strings.Cut(raw, "://")
	if !found {
		return IssuerURL{}, newError(KindMalformedURL, fmt.Sprintf("URL %q has no scheme separator", raw), nil)
	}

	authority := rest
	path := ""
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		authority = rest[:i]
		if rest[i] == '/' {
			path = rest[i:]
		}
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if authority == "" {
		return IssuerURL{}, newError(KindMalformedURL, fmt.Sprintf("URL %q has no host", raw), nil)
	}

	scheme = strings.ToLower(scheme)
	if scheme == legacySchemeAlias {
		scheme = "https"
	}
	if scheme != "https" {
		return IssuerURL{}, newError(KindSchemeNotAllowed, fmt.Sprintf("scheme %q is not allowed, only https is supported", scheme), nil)
	}

	return IssuerURL{
		Scheme:    scheme,
		Authority: strings.ToLower(authority),
		Path:      path,
	}, nil
}

// String reassembles the URL without query or fragment.
func (u IssuerURL) String() string {
	return u.Scheme + "://" + u.Authority + u.Path
}

// requestURL returns raw with only the davs alias rewritten to https, keeping
// its query. raw must already have passed ParseIssuerURL.
func requestURL(raw string) string {
	scheme, rest, _ := strings.Cut(raw, "://")
	if strings.EqualFold(scheme, legacySchemeAlias) {
		return "https://" + rest
	}
	return raw
}

// Root returns the URL reduced to its authority.
func (u IssuerURL) Root() IssuerURL {
	return IssuerURL{Scheme: u.Scheme, Authority: u.Authority}
}

// metadataURL is the RFC 8414 authorization server metadata location. The
// well-known segment is inserted between the authority and the issuer path.
func (u IssuerURL) metadataURL() string {
	path := u.Path
	if path == "/" {
		path = ""
	}
	return "https://" + u.Authority + wellKnownAuthorizationServer + path
}

// openIDConfigurationURL is the legacy discovery location, relative to the
// full issuer URL rather than to the authority.
func (u IssuerURL) openIDConfigurationURL() string {
	base := u.String()
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + strings.TrimPrefix(wellKnownOpenIDConfiguration, "/")
}
