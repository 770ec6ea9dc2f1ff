package oauth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// clientCredentialsRequest builds the RFC 6749 section 4.4 token request. The
// identity is carried by the TLS client certificate, so no client secret is
// sent. A zero lifetime omits expire_in.
func clientCredentialsRequest(tokenEndpoint string, lifetimeSeconds int, scope string) exchange {
	form := url.Values{}
	form.Set("grant_type", grantTypeClientCredentials)
	if lifetimeSeconds > 0 {
		form.Set("expire_in", strconv.Itoa(lifetimeSeconds))
	}
	if scope != "" {
		form.Set("scope", scope)
	}

	return exchange{
		method:      http.MethodPost,
		url:         tokenEndpoint,
		contentType: contentTypeForm,
		body:        []byte(form.Encode()),
		field:       ProtocolOAuth.resultField(),
	}
}

// directMacaroonRequest builds the macaroon-request document POSTed to the
// resource itself.
func directMacaroonRequest(target string, validityMinutes int, activities []string) (exchange, error) {
	body, err := json.Marshal(MacaroonRequest{
		Caveats:  []string{activityCaveat(activities)},
		Validity: fmt.Sprintf("PT%dM", validityMinutes),
	})
	if err != nil {
		return exchange{}, newError(KindInvalidArgument, "encoding macaroon request", err)
	}

	return exchange{
		method:      http.MethodPost,
		url:         target,
		contentType: contentTypeMacaroonRequest,
		body:        body,
		field:       ProtocolDirectMacaroon.resultField(),
	}, nil
}

// activityScope maps activities onto OAuth scopes, one "activity:path" entry
// per activity, in the caller's order.
func activityScope(activities []string, path string) string {
	scopes := make([]string, 0, len(activities))
	for _, activity := range activities {
		scopes = append(scopes, activity+":"+path)
	}
	return strings.Join(scopes, " ")
}

// activityCaveat renders the single activity caveat. Upload additionally
// needs MANAGE on the affected storage servers.
func activityCaveat(activities []string) string {
	list := activities
	if needsManage(activities) {
		list = append(list[:len(list):len(list)], manageActivity)
	}
	return "activity:" + strings.Join(list, ",")
}

// needsManage matches "upload" in any case, or "UPLOAD" anywhere in the name.
func needsManage(activities []string) bool {
	for _, activity := range activities {
		if strings.EqualFold(activity, "upload") || strings.Contains(activity, "UPLOAD") {
			return true
		}
	}
	return false
}
