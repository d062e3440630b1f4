package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/saulo-duarte/aizzler/internal/aiquiz"
	"github.com/saulo-duarte/aizzler/internal/auth"
	"github.com/saulo-duarte/aizzler/internal/quiz"
	"github.com/saulo-duarte/aizzler/internal/user"
)

var (
	ErrServiceUnavailable = errors.New("aizzler service unavailable")
	ErrNotAuthenticated   = errors.New("not signed in")
)

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

type errorResponse struct {
	Error string `json:"error"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Client talks to the aizzler HTTP API and keeps the session token of the
// signed-in user.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
	email string
}

func New(baseURL string, httpClient *http.Client) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Email() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.email
}

func (c *Client) setSession(token, email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.email = email
}

// ClearSession forgets the token locally, e.g. after a sign-out pushed by the
// server.
func (c *Client) ClearSession() {
	c.setSession("", "")
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*user.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/signup", email, password)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*user.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*user.AuthResponse, error) {
	var resp user.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, path, false, credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	userEmail := email
	if resp.User != nil {
		userEmail = resp.User.Email
	}
	c.setSession(resp.Token, userEmail)
	return &resp, nil
}

// SignOut revokes the token on the server. The local session is cleared even
// when the server call fails.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/auth/logout", true, nil, nil)
	c.ClearSession()
	return err
}

func (c *Client) GenerateQuiz(ctx context.Context, req aiquiz.GenerateRequest) ([]aiquiz.Question, error) {
	var questions []aiquiz.Question
	if err := c.doJSON(ctx, http.MethodPost, "/api/generate-quiz", false, req, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *Client) SaveQuiz(ctx context.Context, dto quiz.SaveQuizDTO) (*quiz.SavedQuizResponse, error) {
	var saved quiz.SavedQuizResponse
	if err := c.doJSON(ctx, http.MethodPost, "/quizzes", true, dto, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (c *Client) ListQuizzes(ctx context.Context) ([]quiz.SavedQuizResponse, error) {
	quizzes := []quiz.SavedQuizResponse{}
	if err := c.doJSON(ctx, http.MethodGet, "/quizzes", true, nil, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (c *Client) DeleteQuiz(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("quiz id is required")
	}
	return c.doJSON(ctx, http.MethodDelete, "/quizzes/"+url.PathEscape(id), true, nil, nil)
}

// Events opens the auth event stream. The channel closes when the stream ends
// or ctx is cancelled.
func (c *Client) Events(ctx context.Context) (<-chan auth.Event, error) {
	token := c.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	u, err := url.Parse(c.baseURL + "/auth/events")
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: "event stream rejected"}
		}
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	events := make(chan auth.Event, 4)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	go func() {
		defer close(events)
		defer close(done)
		defer conn.Close()
		for {
			var ev auth.Event
			if err := conn.ReadJSON(&ev); err != nil {
				return
			}
			if ev.Event == auth.EventSubscribed {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, authenticated bool, requestBody any, responseBody any) error {
	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		token := c.Token()
		if token == "" {
			return ErrNotAuthenticated
		}
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
