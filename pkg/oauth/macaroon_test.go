package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	storageMetadata = "GET https://store.example.org:2880/.well-known/oauth-authorization-server"
	storageOpenID   = "GET https://store.example.org:2880/.well-known/openid-configuration"
	storageFile     = "POST https://store.example.org:2880/data/file.root"
	storageToken    = "POST https://store.example.org:2880/token"
)

func TestAcquireMacaroonDirect(t *testing.T) {
	client, stub := newStubClient(map[string]stubResponse{
		storageFile: jsonOK(`{"macaroon":"MDAxY2xvY2F0aW9u","uri":{"targetWithMacaroon":"https://store.example.org:2880/data/file.root?authz=MDAx"}}`),
		// Never consulted: the OpenID fallback is disabled for storage endpoints.
		storageOpenID: jsonOK(`{"token_endpoint":"https://store.example.org:2880/token"}`),
	})

	macaroon, err := client.AcquireMacaroon(context.Background(), "davs://store.example.org:2880/data/file.root", 60, []string{"DOWNLOAD", "LIST"})
	require.NoError(t, err)
	assert.Equal(t, "MDAxY2xvY2F0aW9u", macaroon)
	assert.Equal(t, []string{storageMetadata, storageFile}, stub.urls())

	post := stub.calls()[1]
	assert.Equal(t, "application/macaroon-request", post.header.Get("Content-Type"))

	var req MacaroonRequest
	require.NoError(t, json.Unmarshal([]byte(post.body), &req))
	assert.Equal(t, MacaroonRequest{
		Caveats:  []string{"activity:DOWNLOAD,LIST"},
		Validity: "PT60M",
	}, req)
}

func TestAcquireMacaroonDirectUpload(t *testing.T) {
	client, stub := newStubClient(map[string]stubResponse{
		storageFile: jsonOK(`{"macaroon":"m"}`),
	})

	_, err := client.AcquireMacaroon(context.Background(), "https://store.example.org:2880/data/file.root", 5, []string{"upload", "DOWNLOAD"})
	require.NoError(t, err)

	calls := stub.calls()
	require.Len(t, calls, 2)
	assert.JSONEq(t, `{"caveats":["activity:upload,DOWNLOAD,MANAGE"],"validity":"PT5M"}`, calls[1].body)
}

func TestAcquireMacaroonOAuth(t *testing.T) {
	client, stub := newStubClient(map[string]stubResponse{
		storageMetadata: jsonOK(`{"issuer":"https://store.example.org:2880","token_endpoint":"https://store.example.org:2880/token"}`),
		storageToken:    jsonOK(`{"access_token":"eyJhbGciOi","token_type":"bearer","expires_in":3600}`),
	})

	token, err := client.AcquireMacaroon(context.Background(), "davs://store.example.org:2880/data/file.root?x=1", 60, []string{"DOWNLOAD", "UPLOAD"})
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOi", token)
	assert.Equal(t, []string{storageMetadata, storageToken}, stub.urls())

	post := stub.calls()[1]
	assert.Equal(t, "application/x-www-form-urlencoded", post.header.Get("Content-Type"))
	assert.Equal(t, "application/json", post.header.Get("Accept"))

	form, err := url.ParseQuery(post.body)
	require.NoError(t, err)
	assert.Equal(t, "client_credentials", form.Get("grant_type"))
	assert.Equal(t, "3600", form.Get("expire_in"))
	assert.Equal(t, "DOWNLOAD:/data/file.root UPLOAD:/data/file.root", form.Get("scope"))
}

func TestAcquireMacaroonOAuthRootPath(t *testing.T) {
	client, stub := newStubClient(map[string]stubResponse{
		storageMetadata: jsonOK(`{"token_endpoint":"https://store.example.org:2880/token"}`),
		storageToken:    jsonOK(`{"access_token":"t"}`),
	})

	_, err := client.AcquireMacaroon(context.Background(), "https://store.example.org:2880", 1, []string{"LIST"})
	require.NoError(t, err)

	form, err := url.ParseQuery(stub.calls()[1].body)
	require.NoError(t, err)
	assert.Equal(t, "LIST:", form.Get("scope"))
	assert.Equal(t, "60", form.Get("expire_in"))
}

func TestAcquireMacaroonFailures(t *testing.T) {
	t.Run("validity must be positive", func(t *testing.T) {
		client, stub := newStubClient(nil)

		_, err := client.AcquireMacaroon(context.Background(), "https://store.example.org", 0, []string{"DOWNLOAD"})
		require.Error(t, err)
		assert.Equal(t, KindInvalidArgument, KindOf(err))
		assert.Empty(t, stub.calls())
	})

	t.Run("activities are required", func(t *testing.T) {
		client, stub := newStubClient(nil)

		_, err := client.AcquireMacaroon(context.Background(), "https://store.example.org", 60, nil)
		require.Error(t, err)
		assert.Equal(t, KindInvalidArgument, KindOf(err))
		assert.Empty(t, stub.calls())
	})

	t.Run("arguments are checked before the URL", func(t *testing.T) {
		client, _ := newStubClient(nil)

		_, err := client.AcquireMacaroon(context.Background(), "http://store.example.org", -1, nil)
		assert.Equal(t, KindInvalidArgument, KindOf(err))
	})

	t.Run("scheme not allowed", func(t *testing.T) {
		client, stub := newStubClient(nil)

		_, err := client.AcquireMacaroon(context.Background(), "root://store.example.org//data", 60, []string{"DOWNLOAD"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSchemeNotAllowed))
		assert.Empty(t, stub.calls())
	})

	t.Run("direct minting refused", func(t *testing.T) {
		client, _ := newStubClient(map[string]stubResponse{
			storageFile: {status: http.StatusForbidden, body: "permission denied"},
		})

		_, err := client.AcquireMacaroon(context.Background(), "https://store.example.org:2880/data/file.root", 60, []string{"DOWNLOAD"})
		require.Error(t, err)
		assert.Equal(t, KindUnexpectedStatus, KindOf(err))
		assert.Contains(t, err.Error(), "403")
		assert.Contains(t, err.Error(), "permission denied")
	})

	t.Run("direct minting without macaroon key", func(t *testing.T) {
		client, _ := newStubClient(map[string]stubResponse{
			storageFile: jsonOK(`{"access_token":"wrong dialect"}`),
		})

		_, err := client.AcquireMacaroon(context.Background(), "https://store.example.org:2880/data/file.root", 60, []string{"DOWNLOAD"})
		require.Error(t, err)
		assert.Equal(t, KindInvalidResponseBody, KindOf(err))
		assert.Contains(t, err.Error(), "macaroon key")
	})

	t.Run("token endpoint failure is not retried directly", func(t *testing.T) {
		client, stub := newStubClient(map[string]stubResponse{
			storageMetadata: jsonOK(`{"token_endpoint":"https://store.example.org:2880/token"}`),
			storageToken:    {status: http.StatusBadRequest, body: `{"error":"invalid_scope","error_description":"unknown activity"}`},
		})

		_, err := client.AcquireMacaroon(context.Background(), "https://store.example.org:2880/data/file.root", 60, []string{"FLY"})
		require.Error(t, err)
		assert.Equal(t, KindUnexpectedStatus, KindOf(err))
		assert.Contains(t, err.Error(), "invalid_scope: unknown activity")
		assert.Equal(t, []string{storageMetadata, storageToken}, stub.urls())
	})
}

func TestAcquireMacaroonSinglePostWithoutEndpoint(t *testing.T) {
	client, stub := newStubClient(map[string]stubResponse{
		"POST https://host/path": jsonOK(`{"macaroon":"abc"}`),
	})

	macaroon, err := client.AcquireMacaroon(context.Background(), "https://host/path", 60, []string{"read"})
	require.NoError(t, err)
	assert.Equal(t, "abc", macaroon)

	var posts []recordedRequest
	for _, call := range stub.calls() {
		if call.method == http.MethodPost {
			posts = append(posts, call)
		}
	}
	require.Len(t, posts, 1)
	assert.Equal(t, "https://host/path", posts[0].url)
	assert.Contains(t, posts[0].body, `"activity:read"`)
	assert.Contains(t, posts[0].body, `"PT60M"`)
}

func TestAcquireMacaroonDirectKeepsQuery(t *testing.T) {
	client, stub := newStubClient(map[string]stubResponse{
		"POST https://host/path?ns=cms": jsonOK(`{"macaroon":"scoped"}`),
	})

	macaroon, err := client.AcquireMacaroon(context.Background(), "https://host/path?ns=cms", 60, []string{"read"})
	require.NoError(t, err)
	assert.Equal(t, "scoped", macaroon)
	assert.Equal(t, []string{
		"GET https://host/.well-known/oauth-authorization-server",
		"POST https://host/path?ns=cms",
	}, stub.urls())
}
