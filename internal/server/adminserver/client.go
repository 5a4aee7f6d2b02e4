package adminserver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/protocol"
)

// Client is a connection to a running node's admin channel.
type Client struct {
	conn *websocket.Conn

	// gorilla/websocket allows one concurrent writer.
	writeMu sync.Mutex
}

// Dial connects to the admin channel at url (ws://host:port/ws).
func Dial(ctx context.Context, url string) (*Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, domain.ErrAdminUnavailable.WithDetails(url).WithCause(err)
	}
	return &Client{conn: conn}, nil
}

// Send writes one message.
func (c *Client) Send(msg protocol.Message) error {
	data, err := protocol.MarshalJSON(msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Receive reads the next message. An error frame from the node is
// returned as the message; callers inspect its Kind.
func (c *Client) Receive(ctx context.Context) (protocol.Message, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetReadDeadline(deadline)
		defer func() { _ = c.conn.SetReadDeadline(time.Time{}) }()
	}
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return protocol.Message{}, err
		}
		if kind != websocket.TextMessage {
			continue
		}
		return protocol.UnmarshalJSON(data)
	}
}

// Cluster requests and returns the node's current topology.
func (c *Client) Cluster(ctx context.Context) (protocol.Snapshot, error) {
	if err := c.Send(protocol.RequestCluster()); err != nil {
		return protocol.Snapshot{}, err
	}
	return c.awaitCluster(ctx)
}

// SetScreens replaces the node's screen set and returns the resulting
// topology.
func (c *Client) SetScreens(ctx context.Context, screens []domain.Screen) (protocol.Snapshot, error) {
	if err := c.Send(protocol.Screens(screens)); err != nil {
		return protocol.Snapshot{}, err
	}
	return c.awaitCluster(ctx)
}

func (c *Client) awaitCluster(ctx context.Context) (protocol.Snapshot, error) {
	for {
		msg, err := c.Receive(ctx)
		if err != nil {
			return protocol.Snapshot{}, err
		}
		switch msg.Kind {
		case protocol.KindCluster:
			return *msg.Cluster, nil
		case protocol.KindError:
			return protocol.Snapshot{}, fmt.Errorf("node: %s", msg.Error)
		}
	}
}

// Close sends a close frame and releases the connection.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	return c.conn.Close()
}
