package oauth

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	schemeRegex = regexp.MustCompile(`(?i)([a-z][a-z0-9\-_]*)\s+([^,]*(?:,\s*[^=\s]+\s*=\s*[^,]*)*)[,\s]*`)
	paramRegex  = regexp.MustCompile(`([a-zA-Z0-9_-]+)\s*=\s*(?:"([^"]*)"|([^,\s]+))`)
)

// ParseWWWAuthenticate parses a WWW-Authenticate header value (RFC 6750 section 3).
//
// Token endpoints that reject the client certificate usually answer 401 with
// a Bearer challenge whose error_description explains why.
//
// Example inputs:
//
//	Bearer realm="example.com", error="invalid_token", error_description="expired"
//	Bearer error=invalid_client
func ParseWWWAuthenticate(headerValue string) ([]WWWAuthenticateChallenge, error) {
	if headerValue == "" {
		return nil, fmt.Errorf("empty WWW-Authenticate header")
	}

	matches := schemeRegex.FindAllStringSubmatch(headerValue, -1)
	if len(matches) == 0 {
		return parseSingleScheme(headerValue), nil
	}

	var challenges []WWWAuthenticateChallenge
	for _, match := range matches {
		if len(match) < 3 {
			continue
		}
		challenges = append(challenges, WWWAuthenticateChallenge{
			Scheme:     match[1],
			Parameters: parseAuthParameters(match[2]),
		})
	}

	if len(challenges) == 0 {
		return nil, fmt.Errorf("no valid authentication challenges found in WWW-Authenticate header: %s", headerValue)
	}

	return challenges, nil
}

func parseSingleScheme(headerValue string) []WWWAuthenticateChallenge {
	scheme, paramString, _ := strings.Cut(strings.TrimSpace(headerValue), " ")
	return []WWWAuthenticateChallenge{
		{
			Scheme:     scheme,
			Parameters: parseAuthParameters(paramString),
		},
	}
}

// parseAuthParameters handles quoted and unquoted key=value pairs.
func parseAuthParameters(paramString string) map[string]string {
	parameters := make(map[string]string)

	for _, match := range paramRegex.FindAllStringSubmatch(paramString, -1) {
		if len(match) < 4 {
			continue
		}
		value := match[2]
		if value == "" {
			value = match[3]
		}
		parameters[match[1]] = value
	}

	return parameters
}

// FindBearerError returns the error_description (or error code) of the first
// Bearer challenge that carries one.
func FindBearerError(challenges []WWWAuthenticateChallenge) string {
	for _, challenge := range challenges {
		if !strings.EqualFold(challenge.Scheme, "Bearer") {
			continue
		}
		if desc := challenge.Parameters["error_description"]; desc != "" {
			return desc
		}
		if code := challenge.Parameters["error"]; code != "" {
			return code
		}
	}
	return ""
}
