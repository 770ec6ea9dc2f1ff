package oauth

const (
	wellKnownAuthorizationServer = "/.well-known/oauth-authorization-server"
	wellKnownOpenIDConfiguration = "/.well-known/openid-configuration"

	contentTypeForm            = "application/x-www-form-urlencoded"
	contentTypeMacaroonRequest = "application/macaroon-request"
	contentTypeJSON            = "application/json"

	grantTypeClientCredentials = "client_credentials"

	// manageActivity is appended next to upload; some dCache releases map
	// upload onto a permission that also requires MANAGE.
	manageActivity = "MANAGE"
)

// Protocol selects the wire dialect used to mint a credential.
type Protocol int

const (
	// ProtocolOAuth is a client-credentials POST against a discovered token
	// endpoint; the result is read from access_token.
	ProtocolOAuth Protocol = iota + 1
	// ProtocolDirectMacaroon is a macaroon-request POST against the resource
	// itself; the result is read from macaroon.
	ProtocolDirectMacaroon
)

func (p Protocol) String() string {
	switch p {
	case ProtocolOAuth:
		return "oauth"
	case ProtocolDirectMacaroon:
		return "macaroon"
	}
	return "unknown"
}

// resultField is the JSON key holding the credential in a response.
func (p Protocol) resultField() string {
	if p == ProtocolDirectMacaroon {
		return "macaroon"
	}
	return "access_token"
}

// MacaroonRequest is the body of a direct minting request, as understood by
// dCache and XRootD.
type MacaroonRequest struct {
	Caveats  []string `json:"caveats"`
	Validity string   `json:"validity"`
}

// oauthErrorResponse is the RFC 6749 section 5.2 error body.
type oauthErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// WWWAuthenticateChallenge represents a parsed WWW-Authenticate challenge
type WWWAuthenticateChallenge struct {
	Scheme     string            // Authentication scheme (e.g., "Bearer")
	Parameters map[string]string // Challenge parameters (realm, error, error_description, etc.)
}
