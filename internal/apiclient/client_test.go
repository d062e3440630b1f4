package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/saulo-duarte/aizzler/internal/aiquiz"
	"github.com/saulo-duarte/aizzler/internal/auth"
	"github.com/saulo-duarte/aizzler/internal/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestDoJSONReturnsServiceUnavailable(t *testing.T) {
	client := New("http://example.test", &http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial error")
		}),
	})

	err := client.doJSON(context.Background(), http.MethodGet, "/healthz", false, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestDoJSONReturnsAPIErrorMessageFromBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "Missing required fields in request body."})
	}))
	defer server.Close()

	client := New(server.URL, server.Client())
	_, err := client.GenerateQuiz(context.Background(), aiquiz.GenerateRequest{})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %T (%v)", err, err)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Missing required fields in request body.", apiErr.Message)
}

func TestAuthenticatedCallsNeedToken(t *testing.T) {
	client := New("http://example.test", &http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			t.Fatal("no request should be sent without a token")
			return nil, nil
		}),
	})

	_, err := client.ListQuizzes(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, client.DeleteQuiz(context.Background(), "id"), ErrNotAuthenticated)
	_, err = client.Events(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSessionFlow(t *testing.T) {
	var gotAuth []string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body credentials
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "eve@example.com", body.Email)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1",
			"user":  map[string]string{"id": "6c1f3c52-56a1-4c3e-9a0c-1f9f2b3f4d5e", "email": "eve@example.com"},
		})
	})
	mux.HandleFunc("/quizzes", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`[]`))
		case http.MethodPost:
			var dto quiz.SaveQuizDTO
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&dto))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(quiz.SavedQuizResponse{Name: "n", TotalQuestions: len(dto.QuizData)})
		}
	})
	mux.HandleFunc("/quizzes/abc", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "quiz not found"})
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := context.Background()
	client := New(server.URL+"/", server.Client())

	_, err := client.SignIn(ctx, "eve@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", client.Token())
	assert.Equal(t, "eve@example.com", client.Email())

	list, err := client.ListQuizzes(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	saved, err := client.SaveQuiz(ctx, quiz.SaveQuizDTO{QuizData: []aiquiz.Question{{Question: "Q", Type: aiquiz.RestrictedResponse, Answer: "a"}}})
	require.NoError(t, err)
	assert.Equal(t, 1, saved.TotalQuestions)
	assert.Equal(t, []string{"Bearer tok-1", "Bearer tok-1"}, gotAuth)

	err = client.DeleteQuiz(ctx, "abc")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	assert.Error(t, client.SignOut(ctx))
	assert.Empty(t, client.Token(), "local session cleared even when the server fails")
}

func TestEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/events" || r.Header.Get("Authorization") != "Bearer tok-ws" || r.URL.RawQuery != "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteJSON(auth.Event{Event: auth.EventSubscribed})
		_ = conn.WriteJSON(auth.Event{Event: auth.EventSignedOut})
	}))
	defer server.Close()

	client := New(server.URL, server.Client())
	client.setSession("tok-ws", "x@example.com")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := client.Events(ctx)
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, auth.EventSignedOut, ev.Event)
	case <-ctx.Done():
		t.Fatal("no event received")
	}

	select {
	case _, open := <-events:
		assert.False(t, open)
	case <-ctx.Done():
		t.Fatal("stream did not close")
	}

	client.setSession("wrong", "")
	_, err = client.Events(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
