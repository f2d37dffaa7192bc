// Package client is a websocket client for the draw service. Requests and
// replies are strictly paired, so one Client drives one connection
// synchronously — matching the sequential nature of the streams it talks to.
package client

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/randstream/internal/protocol"
)

// Client talks to a randstream draw service.
type Client struct {
	serverURL string
	logger    *log.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// New creates a client for the given server URL (http, https, ws or wss).
func New(serverURL string, logger *log.Logger) *Client {
	return &Client{
		serverURL: serverURL,
		logger:    logger.WithPrefix("client"),
	}
}

// Connect establishes the websocket connection.
func (c *Client) Connect() error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.logger.Debug("connected", "url", u.String())
	return nil
}

// Close shuts the connection down.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// call sends one request and decodes the paired reply into out. A TypeError
// reply surfaces as an error.
func (c *Client) call(reqType protocol.MessageType, payload any, wantType protocol.MessageType, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("client: not connected")
	}

	msg, err := protocol.NewMessage(reqType, payload)
	if err != nil {
		return err
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("client: send %s: %w", reqType, err)
	}

	var reply protocol.Message
	if err := c.conn.ReadJSON(&reply); err != nil {
		return fmt.Errorf("client: read reply to %s: %w", reqType, err)
	}

	if reply.Type == protocol.TypeError {
		var errData protocol.ErrorData
		if err := reply.Decode(&errData); err != nil {
			return err
		}
		return fmt.Errorf("client: server error %s: %s", errData.Code, errData.Message)
	}
	if reply.Type != wantType {
		return fmt.Errorf("client: unexpected reply %s to %s", reply.Type, reqType)
	}
	return reply.Decode(out)
}

// Draw requests samples from a stream.
func (c *Client) Draw(req protocol.DrawRequest) (*protocol.DrawResult, error) {
	var result protocol.DrawResult
	if err := c.call(protocol.TypeDraw, req, protocol.TypeDrawResult, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// State fetches a stream's checkpoint.
func (c *Client) State(stream string) (*protocol.StateResult, error) {
	var result protocol.StateResult
	if err := c.call(protocol.TypeState, protocol.StateRequest{Stream: stream}, protocol.TypeStateResult, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Restore overwrites a stream's per-cell states.
func (c *Client) Restore(stream string, states []uint64) error {
	var ack protocol.Ack
	return c.call(protocol.TypeRestore, protocol.RestoreRequest{Stream: stream, States: states}, protocol.TypeAck, &ack)
}

// Advance jumps every cell of a stream by delta.
func (c *Client) Advance(stream string, delta int64) error {
	var ack protocol.Ack
	return c.call(protocol.TypeAdvance, protocol.AdvanceRequest{Stream: stream, Delta: &delta}, protocol.TypeAck, &ack)
}

// Distance measures per-cell step counts from the stream's current states
// to the target states.
func (c *Client) Distance(stream string, states []uint64) ([]int64, error) {
	var result protocol.DistanceResult
	if err := c.call(protocol.TypeDistance, protocol.DistanceRequest{Stream: stream, States: states}, protocol.TypeDistanceResult, &result); err != nil {
		return nil, err
	}
	return result.Distances, nil
}

// List enumerates the server's streams.
func (c *Client) List() ([]protocol.StreamInfo, error) {
	var result protocol.StreamList
	if err := c.call(protocol.TypeList, struct{}{}, protocol.TypeStreamList, &result); err != nil {
		return nil, err
	}
	return result.Streams, nil
}
