package evm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gorilla/websocket"
)

// WSConfig configures WebSocket client behavior.
type WSConfig struct {
	// ReconnectDelay is the initial delay before a reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay caps the backoff between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is the interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout bounds a single read.
	ReadTimeout time.Duration
	// WriteTimeout bounds a single write.
	WriteTimeout time.Duration
}

// DefaultWSConfig returns the default WebSocket configuration.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// WSClient implements Subscriber over a raw eth_subscribe connection using
// gorilla/websocket, with automatic reconnect and resubscription.
type WSClient struct {
	endpoint string
	config   WSConfig

	conn      *websocket.Conn
	connMu    sync.Mutex
	closed    atomic.Bool
	requestID atomic.Uint64

	// subs maps subscription ID to delivery channel.
	subs   map[string]chan types.Log
	subsMu sync.RWMutex

	// activeFilters stores filters for resubscription after reconnect.
	activeFilters   map[string]LogsFilter
	activeFiltersMu sync.RWMutex

	// pendingSubs maps request ID to the channel waiting for a subscription ID.
	pendingSubs   map[uint64]chan string
	pendingSubsMu sync.Mutex

	done chan struct{}
	wg   sync.WaitGroup

	reconnecting atomic.Bool
}

// NewWSClient connects to a WebSocket JSON-RPC endpoint.
func NewWSClient(ctx context.Context, endpoint string, config *WSConfig) (*WSClient, error) {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}

	c := &WSClient{
		endpoint:      endpoint,
		config:        cfg,
		subs:          make(map[string]chan types.Log),
		activeFilters: make(map[string]LogsFilter),
		pendingSubs:   make(map[uint64]chan string),
		done:          make(chan struct{}),
	}

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	c.wg.Add(1)
	go c.readLoop()

	c.wg.Add(1)
	go c.pingLoop()

	return c, nil
}

func (c *WSClient) connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	c.conn = conn
	return nil
}

// SubscribeLogs subscribes to logs matching the filter.
func (c *WSClient) SubscribeLogs(ctx context.Context, filter LogsFilter) (<-chan types.Log, error) {
	if c.closed.Load() {
		return nil, fmt.Errorf("client closed")
	}

	reqID, confirmCh, err := c.sendSubscribe(filter)
	if err != nil {
		return nil, err
	}

	// Wait for subscription confirmation.
	var id string
	select {
	case id = <-confirmCh:
	case <-time.After(30 * time.Second):
		c.dropPending(reqID)
		return nil, fmt.Errorf("subscription timeout after 30s")
	case <-c.done:
		return nil, fmt.Errorf("client closed")
	case <-ctx.Done():
		c.dropPending(reqID)
		return nil, ctx.Err()
	}

	// Large buffer absorbs bursts; sends block rather than drop events.
	ch := make(chan types.Log, 10000)
	c.subsMu.Lock()
	c.subs[id] = ch
	c.subsMu.Unlock()

	c.activeFiltersMu.Lock()
	c.activeFilters[id] = filter
	c.activeFiltersMu.Unlock()

	return ch, nil
}

// sendSubscribe writes the eth_subscribe request and registers the pending
// confirmation channel. The subscription ID arrives on that channel once the
// provider confirms.
func (c *WSClient) sendSubscribe(filter LogsFilter) (uint64, chan string, error) {
	reqID := c.requestID.Add(1)

	params := map[string]interface{}{
		"address": filter.Address,
	}
	if len(filter.Topics) > 0 {
		params["topics"] = filter.Topics
	}

	req := wsRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  "eth_subscribe",
		Params:  []interface{}{"logs", params},
	}

	confirmCh := make(chan string, 1)
	c.pendingSubsMu.Lock()
	c.pendingSubs[reqID] = confirmCh
	c.pendingSubsMu.Unlock()

	c.connMu.Lock()
	if c.conn == nil {
		c.connMu.Unlock()
		c.dropPending(reqID)
		return 0, nil, fmt.Errorf("not connected")
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	err := c.conn.WriteJSON(req)
	c.connMu.Unlock()

	if err != nil {
		c.dropPending(reqID)
		return 0, nil, fmt.Errorf("write subscribe: %w", err)
	}
	return reqID, confirmCh, nil
}

func (c *WSClient) dropPending(reqID uint64) {
	c.pendingSubsMu.Lock()
	delete(c.pendingSubs, reqID)
	c.pendingSubsMu.Unlock()
}

// Close closes the WebSocket connection.
func (c *WSClient) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	close(c.done)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
	c.connMu.Unlock()

	c.subsMu.Lock()
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.subsMu.Unlock()

	c.pendingSubsMu.Lock()
	for id, ch := range c.pendingSubs {
		close(ch)
		delete(c.pendingSubs, id)
	}
	c.pendingSubsMu.Unlock()

	c.wg.Wait()
	return nil
}

// readLoop reads messages and dispatches to subscribers, reconnecting with
// exponential backoff on connection errors.
func (c *WSClient) readLoop() {
	defer c.wg.Done()

	reconnectDelay := c.config.ReconnectDelay

	for !c.closed.Load() {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}

			if !c.reconnecting.Swap(true) {
				go c.reconnect(reconnectDelay)
			}

			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > c.config.MaxReconnectDelay {
				reconnectDelay = c.config.MaxReconnectDelay
			}

			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		reconnectDelay = c.config.ReconnectDelay
		c.handleMessage(message)
	}
}

// reconnect attempts to reconnect and resubscribe.
func (c *WSClient) reconnect(delay time.Duration) {
	defer c.reconnecting.Store(false)

	if c.closed.Load() {
		return
	}

	select {
	case <-c.done:
		return
	case <-time.After(delay):
	}

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.connect(ctx); err != nil {
		// Will retry on next read error.
		return
	}

	c.resubscribeAll()
}

// resubscribeAll replays every active filter after a reconnect, re-pointing
// existing delivery channels at the new subscription IDs.
func (c *WSClient) resubscribeAll() {
	c.activeFiltersMu.RLock()
	filters := make(map[string]LogsFilter, len(c.activeFilters))
	for id, f := range c.activeFilters {
		filters[id] = f
	}
	c.activeFiltersMu.RUnlock()

	for oldID, filter := range filters {
		c.subsMu.RLock()
		ch := c.subs[oldID]
		c.subsMu.RUnlock()
		if ch == nil {
			continue
		}

		reqID, confirmCh, err := c.sendSubscribe(filter)
		if err != nil {
			continue
		}

		var newID string
		select {
		case newID = <-confirmCh:
		case <-time.After(10 * time.Second):
			c.dropPending(reqID)
			continue
		case <-c.done:
			return
		}

		c.subsMu.Lock()
		delete(c.subs, oldID)
		c.subs[newID] = ch
		c.subsMu.Unlock()

		c.activeFiltersMu.Lock()
		delete(c.activeFilters, oldID)
		c.activeFilters[newID] = filter
		c.activeFiltersMu.Unlock()
	}
}

// handleMessage processes one incoming WebSocket message.
func (c *WSClient) handleMessage(message []byte) {
	// Subscription confirmation first.
	var resp wsSubscribeResponse
	if err := json.Unmarshal(message, &resp); err == nil && resp.Result != "" && resp.ID > 0 {
		c.pendingSubsMu.Lock()
		ch, ok := c.pendingSubs[resp.ID]
		if ok {
			delete(c.pendingSubs, resp.ID)
		}
		c.pendingSubsMu.Unlock()
		if ok {
			select {
			case ch <- resp.Result:
			default:
			}
		}
		return
	}

	// Log notification.
	var notif wsNotification
	if err := json.Unmarshal(message, &notif); err == nil && notif.Method == "eth_subscription" && notif.Params != nil {
		c.subsMu.RLock()
		ch, ok := c.subs[notif.Params.Subscription]
		c.subsMu.RUnlock()
		if ok {
			select {
			case ch <- notif.Params.Result:
			case <-c.done:
			}
		}
	}
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (c *WSClient) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			if c.conn != nil {
				c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
				// A failed ping means a dead connection; the reader
				// handles the reconnect.
				c.conn.WriteMessage(websocket.PingMessage, nil)
			}
			c.connMu.Unlock()
		}
	}
}

// WebSocket message types.

type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type wsSubscribeResponse struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Result  string `json:"result"` // subscription ID
}

type wsNotification struct {
	JSONRPC string                `json:"jsonrpc"`
	Method  string                `json:"method"`
	Params  *wsNotificationParams `json:"params"`
}

type wsNotificationParams struct {
	Subscription string    `json:"subscription"`
	Result       types.Log `json:"result"`
}

// Verify interface compliance at compile time.
var _ Subscriber = (*WSClient)(nil)
