// Package client talks to a salvo server over HTTP and WebSocket.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/freeeve/salvo/internal/model"
)

// WSEvent mirrors handler.WSEvent for client-side deserialization. Data is
// left raw so callers can decode it by event type.
type WSEvent struct {
	Type   string          `json:"type"`
	GameID string          `json:"game_id"`
	Data   json.RawMessage `json:"data"`
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Client is an HTTP+WebSocket client for one bot.
type Client struct {
	name     string
	baseURL  string
	token    string
	wsConn   *websocket.Conn
	events   chan WSEvent
	httpC    *http.Client
	mu       sync.Mutex
	closedWS bool
}

// New creates a client targeting the given server URL.
func New(name, baseURL string) *Client {
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		events:  make(chan WSEvent, 64),
		httpC:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the client name.
func (c *Client) Name() string { return c.name }

// SetToken uses an already issued access token instead of logging in.
func (c *Client) SetToken(token string) { c.token = token }

// Login authenticates via the dev login endpoint.
func (c *Client) Login(ctx context.Context) error {
	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/dev?name="+url.QueryEscape(c.name), nil, &tokens); err != nil {
		return fmt.Errorf("dev login: %w", err)
	}
	c.token = tokens.AccessToken
	log.Debug().Str("client", c.name).Msg("Logged in")
	return nil
}

// LoginClientCredentials obtains a token with the OAuth2 client credentials
// grant. The client name becomes the client ID.
func (c *Client) LoginClientCredentials(ctx context.Context, secret string) error {
	cfg := clientcredentials.Config{
		ClientID:     c.name,
		ClientSecret: secret,
		TokenURL:     c.baseURL + "/auth/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tok, err := cfg.Token(context.WithValue(ctx, oauth2.HTTPClient, c.httpC))
	if err != nil {
		return fmt.Errorf("client credentials login: %w", err)
	}
	c.token = tok.AccessToken
	log.Debug().Str("client", c.name).Time("expiry", tok.Expiry).Msg("Logged in with client credentials")
	return nil
}

// Estimate asks the server for a single damage estimate.
func (c *Client) Estimate(ctx context.Context, req model.EstimateRequest) (*model.EstimateResult, error) {
	var res model.EstimateResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/estimates", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Plan asks the server to rank a shooter's targets.
func (c *Client) Plan(ctx context.Context, req model.PlanRequest) (*model.PlanResult, error) {
	var res model.PlanResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/plans", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// PutBoard stores the board for a game.
func (c *Client) PutBoard(ctx context.Context, gameID string, board *model.BoardSpec) error {
	return c.do(ctx, http.MethodPut, "/api/v1/games/"+url.PathEscape(gameID)+"/board", board, nil)
}

// Weapons lists the server's weapon catalog.
func (c *Client) Weapons(ctx context.Context) ([]model.WeaponRecord, error) {
	var out []model.WeaponRecord
	if err := c.do(ctx, http.MethodGet, "/api/v1/weapons", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ConnectWS opens a WebSocket connection and starts listening for events.
func (c *Client) ConnectWS(ctx context.Context) error {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/api/v1/ws?token=" + url.QueryEscape(c.token)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("ws dial: %w", err)
	}
	c.wsConn = conn

	go c.readWSLoop()
	return nil
}

// SubscribeGame sends a subscribe message for the given game.
func (c *Client) SubscribeGame(gameID string) error {
	msg := map[string]string{"action": "subscribe", "game_id": gameID}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wsConn.WriteJSON(msg)
}

// Events returns the channel of incoming WebSocket events.
func (c *Client) Events() <-chan WSEvent { return c.events }

// CloseWS closes the WebSocket connection.
func (c *Client) CloseWS() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wsConn != nil && !c.closedWS {
		c.closedWS = true
		c.wsConn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.wsConn.Close()
	}
}

func (c *Client) readWSLoop() {
	defer close(c.events)
	for {
		_, msg, err := c.wsConn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closedWS
			c.mu.Unlock()
			if !closed {
				log.Debug().Err(err).Str("client", c.name).Msg("WS read error")
			}
			return
		}
		// The server batches queued events into one frame, newline separated.
		for _, part := range bytes.Split(msg, []byte("\n")) {
			var event WSEvent
			if err := json.Unmarshal(part, &event); err != nil {
				continue
			}
			c.events <- event
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpC.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
