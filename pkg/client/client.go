// Package client talks to the CoachLog API and keeps the client-side views
// (log history, coach roster, signed-in profile) in sync with it. Every type
// in its signatures is exported from this package (see types.go), so it can
// be used from outside the module.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotSignedIn = errors.New("not signed in")

// APIError is a non-2xx response. Message is the server's "error" field.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
	Profile   *Profile  `json:"profile"`
	Home      string    `json:"home"`
}

type AddStudentResponse struct {
	Link     *CoachStudentLink `json:"link"`
	Students []StudentSummary  `json:"students"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Register(ctx context.Context, email, password, fullName, role string) (*Session, error) {
	body := map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
		"role":      role,
	}
	var session Session
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", body, &session); err != nil {
		return nil, err
	}
	c.SetToken(session.Token)
	return &session, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var session Session
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &session); err != nil {
		return nil, err
	}
	c.SetToken(session.Token)
	return &session, nil
}

// Logout revokes the current token server-side and forgets it locally even
// when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.SetToken("")
	return err
}

// Session restores the signed-in user from the stored token.
func (c *Client) Session(ctx context.Context) (*Session, error) {
	token := c.Token()
	if token == "" {
		return nil, ErrNotSignedIn
	}
	var session Session
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/session", nil, &session); err != nil {
		return nil, err
	}
	session.Token = token
	return &session, nil
}

func (c *Client) Logs(ctx context.Context) ([]DailyLog, error) {
	var resp struct {
		Logs []DailyLog `json:"logs"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/logs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Logs, nil
}

func (c *Client) SaveLog(ctx context.Context, entry LogEntry) (*DailyLog, error) {
	var resp struct {
		Log *DailyLog `json:"log"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/logs", entry, &resp); err != nil {
		return nil, err
	}
	if resp.Log == nil {
		return nil, errors.New("save log: empty response")
	}
	return resp.Log, nil
}

func (c *Client) StudentLogs(ctx context.Context, studentID uuid.UUID) ([]DailyLog, error) {
	var resp struct {
		Logs []DailyLog `json:"logs"`
	}
	path := "/api/v1/coach/students/" + studentID.String() + "/logs"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Logs, nil
}

// Students returns the unfiltered roster with each student's full history.
func (c *Client) Students(ctx context.Context) ([]StudentSummary, error) {
	var resp struct {
		Students []StudentSummary `json:"students"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/coach/students", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Students, nil
}

func (c *Client) AddStudent(ctx context.Context, email string) (*AddStudentResponse, error) {
	var resp AddStudentResponse
	body := map[string]string{"email": email}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/coach/students", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var resp struct {
		Profile *Profile `json:"profile"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/profile", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Profile, nil
}

func (c *Client) UpdateName(ctx context.Context, fullName string) (*Profile, error) {
	var resp struct {
		Profile *Profile `json:"profile"`
	}
	body := map[string]string{"full_name": fullName}
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/profile", body, &resp); err != nil {
		return nil, err
	}
	return resp.Profile, nil
}

// UploadAvatar sends the image as the "avatar" form field. The server picks
// the content type from the filename extension.
func (c *Client) UploadAvatar(ctx context.Context, filename string, file io.Reader) (*Profile, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("avatar", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read avatar: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/profile/avatar", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var resp struct {
		Profile *Profile `json:"profile"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Profile, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &payload) != nil {
			payload.Error = strings.TrimSpace(string(raw))
		}
		return &APIError{Status: resp.StatusCode, Message: payload.Error}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
