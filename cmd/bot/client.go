package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/wricardo/artofwar/game/engine"
	"github.com/wricardo/artofwar/game/service"
)

// APIError is a non-2xx response from the game server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client talks to one session on the game server's REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SessionID returns the session the client is bound to
func (c *Client) SessionID() string { return c.sessionID }

// UseSession binds the client to an existing session
func (c *Client) UseSession(id string) { c.sessionID = id }

func (c *Client) CreateSession(ctx context.Context, configID string) (*service.SessionInfo, error) {
	var body interface{}
	if configID != "" {
		body = map[string]string{"config_id": configID}
	}

	var info service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &info); err != nil {
		return nil, errors.Wrap(err, "create session")
	}
	c.sessionID = info.ID
	return &info, nil
}

func (c *Client) GetState(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/state"), nil, &state); err != nil {
		return nil, errors.Wrap(err, "get state")
	}
	return &state, nil
}

func (c *Client) PlaceBase(ctx context.Context, pos engine.Position) (*service.PlacementResult, error) {
	return c.place(ctx, "/base", pos)
}

func (c *Client) PlaceArmy(ctx context.Context, pos engine.Position) (*service.PlacementResult, error) {
	return c.place(ctx, "/army", pos)
}

func (c *Client) place(ctx context.Context, suffix string, pos engine.Position) (*service.PlacementResult, error) {
	var result service.PlacementResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath(suffix), map[string]int{"x": pos.X, "y": pos.Y}, &result); err != nil {
		return nil, errors.Wrapf(err, "place %s at %s", strings.TrimPrefix(suffix, "/"), pos)
	}
	return &result, nil
}

func (c *Client) Step(ctx context.Context, count int) (*service.StepBatchResult, error) {
	var result service.StepBatchResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/step"), map[string]int{"count": count}, &result); err != nil {
		return nil, errors.Wrap(err, "step")
	}
	return &result, nil
}

type resetResponse struct {
	Message string            `json:"message"`
	State   *engine.GameState `json:"state"`
}

func (c *Client) Reset(ctx context.Context) (*engine.GameState, error) {
	var resp resetResponse
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/reset"), nil, &resp); err != nil {
		return nil, errors.Wrap(err, "reset")
	}
	return resp.State, nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshal request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if result == nil {
		return nil
	}
	return errors.Wrap(json.Unmarshal(data, result), "parse response")
}
