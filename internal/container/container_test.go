package container_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/saulo-duarte/aizzler/internal/config"
	"github.com/saulo-duarte/aizzler/internal/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mr := miniredis.RunT(t)

	var s config.Settings
	s.Database.Driver = "sqlite"
	s.Database.DSN = filepath.Join(t.TempDir(), "aizzler.db")
	s.Redis.Addr = mr.Addr()
	s.Auth.JWTSecret = "container-test-secret"
	s.Gemini.Model = "gemini-2.0-flash"

	c, err := container.New(context.Background(), s)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, container.Migrate(config.DB))

	srv := httptest.NewServer(c.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestServerWiring(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	t.Run("GenerationWithoutAPIKey", func(t *testing.T) {
		payload := `{"inputText":"text","numQuestions":2,"questionFormat":"mixed","language":"English"}`
		resp, err := http.Post(srv.URL+"/api/generate-quiz", "application/json", bytes.NewBufferString(payload))
		require.NoError(t, err)
		defer resp.Body.Close()

		var out map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "API Key not configured on the server.", out["error"])
	})

	t.Run("SignUpThenListSaved", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/auth/signup", "application/json",
			bytes.NewBufferString(`{"email":"wire@example.com","password":"secret1"}`))
		require.NoError(t, err)
		var auth struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&auth))
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/quizzes", nil)
		req.Header.Set("Authorization", "Bearer "+auth.Token)
		resp, err = http.DefaultClient.Do(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `[]`, string(body))

		req, _ = http.NewRequest(http.MethodPost, srv.URL+"/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer "+auth.Token)
		resp, err = http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		req, _ = http.NewRequest(http.MethodGet, srv.URL+"/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+auth.Token)
		resp, err = http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "revoked in redis")
	})
}
