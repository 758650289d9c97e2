package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

// Client talks to the intake API over REST and listens on the push socket.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	conn    *websocket.Conn
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// apiError is the body of a non-2xx response.
type apiError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Signup creates an account.
func (c *Client) Signup(username, email, password string) error {
	return c.do(http.MethodPost, "/v1/accounts", domain.SignupRequest{
		Username:        username,
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	}, nil)
}

// Login opens a session and remembers its token.
func (c *Client) Login(username, password string) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := c.do(http.MethodPost, "/v1/sessions", domain.LoginRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Logout closes the session.
func (c *Client) Logout() error {
	return c.do(http.MethodDelete, "/v1/session", nil, nil)
}

// Submit uploads a new analysis. imagePath and documentPath are optional.
func (c *Client) Submit(symptoms, medications, imagePath, documentPath string) (*domain.SubmitResponse, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("symptoms", symptoms); err != nil {
		return nil, err
	}
	if err := w.WriteField("medications", medications); err != nil {
		return nil, err
	}
	for field, path := range map[string]string{"image": imagePath, "document": documentPath} {
		if path == "" {
			continue
		}
		if err := attachFile(w, field, path); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/session/analysis", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp domain.SubmitResponse
	if err := c.send(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func attachFile(w *multipart.Writer, field, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", field, err)
	}
	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = part.Write(data)
	return err
}

// Answer selects an option of the current question.
func (c *Client) Answer(option string) error {
	return c.do(http.MethodPost, "/v1/session/follow-up/answer", domain.AnswerRequest{Option: option}, nil)
}

// Skip jumps to the diagnosis.
func (c *Client) Skip() error {
	return c.do(http.MethodPost, "/v1/session/follow-up/skip", nil, nil)
}

// Reset starts a new analysis.
func (c *Client) Reset() error {
	return c.do(http.MethodPost, "/v1/session/reset", nil, nil)
}

// SaveReport stores the current diagnosis in the vault.
func (c *Client) SaveReport() (*domain.Report, error) {
	var report domain.Report
	if err := c.do(http.MethodPost, "/v1/session/report", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Reports lists saved reports, optionally by category.
func (c *Client) Reports(category string) ([]domain.Report, error) {
	path := "/v1/reports"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var resp struct {
		Reports []domain.Report `json:"reports"`
	}
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Reports, nil
}

// DeleteReport deletes a saved report.
func (c *Client) DeleteReport(reportID string) (bool, error) {
	var resp struct {
		Deleted bool `json:"deleted"`
	}
	if err := c.do(http.MethodDelete, "/v1/reports/"+url.PathEscape(reportID), nil, &resp); err != nil {
		return false, err
	}
	return resp.Deleted, nil
}

// SetPreferences changes language and/or mode.
func (c *Client) SetPreferences(language domain.Language, mode domain.Mode) (*domain.Session, error) {
	var snap domain.Session
	if err := c.do(http.MethodPut, "/v1/session/preferences", domain.PreferencesRequest{Language: language, Mode: mode}, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Subscribe dials the push socket. Events are delivered to onEvent until
// the connection closes.
func (c *Client) Subscribe(onEvent func(domain.SessionEvent)) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/v1/session/ws"
	u.RawQuery = url.Values{"token": {c.token}}.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	c.conn = conn

	go func() {
		for {
			var event domain.SessionEvent
			if err := conn.ReadJSON(&event); err != nil {
				return
			}
			onEvent(event)
		}
	}()
	return nil
}

// Close closes the push socket.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
