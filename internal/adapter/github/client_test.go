package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "github-user-service/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		Token:   token,
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
	}, zaptest.NewLogger(t))
}

func TestFetchUser_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat", r.URL.Path)
		assert.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"login": "octocat",
			"name": "monalisa octocat",
			"avatar_url": "https://github.com/images/error/octocat_happy.gif",
			"email": "octocat@github.com"
		}`))
	}, "")

	profile, err := client.FetchUser(context.Background(), "octocat")

	require.NoError(t, err)
	assert.Equal(t, "monalisa octocat", profile.Name)
	assert.Equal(t, "https://github.com/images/error/octocat_happy.gif", profile.AvatarURL)
	assert.Equal(t, "octocat@github.com", profile.Email)
}

func TestFetchUser_EmailHidden(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"login": "octocat",
			"name": "monalisa octocat",
			"avatar_url": "https://github.com/images/error/octocat_happy.gif",
			"email": null
		}`))
	}, "")

	profile, err := client.FetchUser(context.Background(), "octocat")

	require.NoError(t, err)
	assert.Empty(t, profile.Email)
	assert.Equal(t, "monalisa octocat", profile.Name)
}

func TestFetchUser_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	}, "")

	profile, err := client.FetchUser(context.Background(), "nosuchuser")

	require.Error(t, err)
	assert.Nil(t, profile)

	var notFoundErr *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, http.StatusNotFound, notFoundErr.HTTPStatus())
}

func TestFetchUser_ServerErrorIsUpstream(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, "")

	profile, err := client.FetchUser(context.Background(), "octocat")

	require.Error(t, err)
	assert.Nil(t, profile)

	var upstreamErr *apperrors.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusBadGateway, upstreamErr.HTTPStatus())
}

func TestFetchUser_MalformedResponseIsUpstream(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}, "")

	_, err := client.FetchUser(context.Background(), "octocat")

	require.Error(t, err)

	var upstreamErr *apperrors.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
}

func TestFetchUser_TokenSentAsBearer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"login": "octocat", "name": "monalisa octocat"}`))
	}, "test-token")

	_, err := client.FetchUser(context.Background(), "octocat")
	require.NoError(t, err)
}

func TestFetchUser_UsernameIsPathEscaped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/weird%2Fname", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"login": "weird"}`))
	}, "")

	_, err := client.FetchUser(context.Background(), "weird/name")
	require.NoError(t, err)
}
