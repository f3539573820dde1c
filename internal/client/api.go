package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const requestTimeout = 10 * time.Second

// APIError is returned for every non-2xx response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return "HTTP " + strconv.Itoa(e.Status)
}

// Message extracts the server's {"error": ...} text when present.
func (e *APIError) Message() string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(e.Body), &body); err == nil && body.Error != "" {
		return body.Error
	}
	return e.Error()
}

type RemoteUser struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	AvatarColor string `json:"avatar_color"`
	Level       int    `json:"level"`
	XP          int    `json:"xp"`
	Coins       int    `json:"coins"`
	Hearts      int    `json:"hearts"`
	Streak      int    `json:"streak"`
	BestStreak  int    `json:"best_streak"`
}

// Profile converts the server record into the local one.
func (u RemoteUser) Profile() Profile {
	return Profile{
		Name:       u.Username,
		XP:         u.XP,
		Level:      u.Level,
		Coins:      u.Coins,
		Hearts:     u.Hearts,
		Streak:     u.Streak,
		BestStreak: u.BestStreak,
	}
}

type AuthResult struct {
	Token string     `json:"token"`
	User  RemoteUser `json:"user"`
}

type RemoteEntry struct {
	Username   string `json:"username"`
	Level      int    `json:"level"`
	XP         int    `json:"xp"`
	Streak     int    `json:"streak"`
	BestStreak int    `json:"best_streak"`
}

// ProgressSnapshot is the full stat set pushed after a local change.
type ProgressSnapshot struct {
	Level      int `json:"level"`
	XP         int `json:"xp"`
	Coins      int `json:"coins"`
	Hearts     int `json:"hearts"`
	Streak     int `json:"streak"`
	BestStreak int `json:"bestStreak"`
}

func SnapshotOf(p Profile) ProgressSnapshot {
	return ProgressSnapshot{
		Level:      p.Level,
		XP:         p.XP,
		Coins:      p.Coins,
		Hearts:     p.Hearts,
		Streak:     p.Streak,
		BestStreak: p.BestStreak,
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type profileUpdate struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// APIClient talks to the LernCasino server. Login and Register store the
// returned token for later calls.
type APIClient struct {
	base  string
	http  *http.Client
	token string
}

func NewAPIClient(base string) *APIClient {
	return &APIClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{},
	}
}

func (c *APIClient) Token() string {
	return c.token
}

func (c *APIClient) SetToken(token string) {
	c.token = token
}

func (c *APIClient) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", credentials{username, password}, &res); err != nil {
		return nil, err
	}
	c.token = res.Token
	return &res, nil
}

func (c *APIClient) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", credentials{username, password}, &res); err != nil {
		return nil, err
	}
	c.token = res.Token
	return &res, nil
}

func (c *APIClient) Me(ctx context.Context) (*RemoteUser, error) {
	var u RemoteUser
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *APIClient) UpdateMe(ctx context.Context, username, password string) (*RemoteUser, error) {
	var u RemoteUser
	if err := c.do(ctx, http.MethodPut, "/api/me", profileUpdate{username, password}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *APIClient) PushProgress(ctx context.Context, s ProgressSnapshot) error {
	return c.do(ctx, http.MethodPost, "/api/progress", s, nil)
}

func (c *APIClient) Questions(ctx context.Context, level int) ([]Question, error) {
	q := url.Values{"level": {strconv.Itoa(level)}}
	var out []Question
	if err := c.do(ctx, http.MethodGet, "/api/questions?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) Leaderboard(ctx context.Context) ([]RemoteEntry, error) {
	var out []RemoteEntry
	if err := c.do(ctx, http.MethodGet, "/api/leaderboard", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{Status: res.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
