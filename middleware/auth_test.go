package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Solvent24/wps-ai/pkg/logger"
	"github.com/Solvent24/wps-ai/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func authedEcho(t *testing.T) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(UserID(r)))
	})
	return Auth(testSecret)(next)
}

func TestAuth_AcceptsBearerToken(t *testing.T) {
	logger.Init()

	accessToken, err := token.Issue("user-42", testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()

	authedEcho(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", rec.Body.String())
}

func TestAuth_AcceptsQueryToken(t *testing.T) {
	logger.Init()

	accessToken, err := token.Issue("user-42", testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+accessToken, nil)
	rec := httptest.NewRecorder()

	authedEcho(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", rec.Body.String())
}

func TestAuth_RejectsMissingToken(t *testing.T) {
	logger.Init()

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	rec := httptest.NewRecorder()

	authedEcho(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_RejectsTokenSignedWithWrongSecret(t *testing.T) {
	logger.Init()

	accessToken, err := token.Issue("user-42", "some-other-secret")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()

	authedEcho(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
