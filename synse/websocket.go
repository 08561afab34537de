package synse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/synsekit/synse-go/synse/scheme"
)

// WebSocket API events. Every operation is a request/* event; the server
// answers with the matching response/* event, or response/error on failure.
const (
	requestStatus       = "request/status"
	requestVersion      = "request/version"
	requestConfig       = "request/config"
	requestPlugin       = "request/plugin"
	requestPluginHealth = "request/plugin_health"
	requestPlugins      = "request/plugins"
	requestScan         = "request/scan"
	requestTags         = "request/tags"
	requestInfo         = "request/info"
	requestRead         = "request/read"
	requestReadCache    = "request/read_cache"
	requestReadDevice   = "request/read_device"
	requestReadStream   = "request/read_stream"
	requestWriteAsync   = "request/write_async"
	requestWriteSync    = "request/write_sync"
	requestTransaction  = "request/transaction"
	requestTransactions = "request/transactions"

	responseError = "response/error"
)

// streamBufferSize is the inbound buffer for streamed responses. Streamed
// frames arriving while the consumer is busy queue here; beyond that they
// are dropped rather than stalling the read pump.
const streamBufferSize = 128

// wsRequest is an outbound WebSocket frame. The ID correlates the frame
// with its response(s).
type wsRequest struct {
	ID    uint64      `json:"id"`
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// wsResponse is an inbound WebSocket frame. Data is left raw until the
// operation that issued the request decodes it into its scheme record.
type wsResponse struct {
	ID    uint64          `json:"id"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// pendingReply tracks one in-flight request on the connection. Stream
// replies stay registered across frames; unary replies are removed once
// their single response arrives.
type pendingReply struct {
	ch     chan wsResponse
	stream bool
}

// WebsocketClientV3 talks to the Synse Server v3 WebSocket API over one
// persistent connection. Requests are multiplexed: each carries a unique id
// and a reader goroutine routes response frames back to their callers, so
// the client is safe for concurrent use.
//
// The client must be opened before use:
//
//	client, err := synse.NewWebsocketClientV3(opts)
//	...
//	if err := client.Open(ctx); err != nil { ... }
//	defer client.Close()
type WebsocketClientV3 struct {
	opts       *Options
	log        *slog.Logger
	connectURL string

	// writeMu serializes writes to the connection; gorilla/websocket allows
	// at most one concurrent writer.
	writeMu sync.Mutex

	nextID atomic.Uint64

	// mu guards conn, pending, done and closed.
	mu      sync.Mutex
	conn    *websocket.Conn
	pending map[uint64]pendingReply
	done    chan struct{}
	closed  bool
}

// NewWebsocketClientV3 creates a WebSocket client for the given options.
// The constructor does not connect; call Open before issuing requests.
func NewWebsocketClientV3(opts *Options) (*WebsocketClientV3, error) {
	if opts == nil {
		opts = &Options{}
	}
	opts.setDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if _, err := opts.tlsConfig(); err != nil {
		return nil, err
	}

	u := url.URL{
		Scheme: opts.scheme("ws", "wss"),
		Host:   opts.Address,
		Path:   "/" + apiVersion + "/connect",
	}

	return &WebsocketClientV3{
		opts:       opts,
		log:        opts.Logger.With("component", "synse-websocket"),
		connectURL: u.String(),
		pending:    make(map[uint64]pendingReply),
	}, nil
}

// Open establishes the WebSocket connection and starts the reader and
// keepalive goroutines. Opening an already-open client is a no-op; opening
// a closed client returns ErrClosed.
func (c *WebsocketClientV3) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.conn != nil {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	tlsCfg, err := c.opts.tlsConfig()
	if err != nil {
		return err
	}
	dialer := &websocket.Dialer{
		HandshakeTimeout: c.opts.WebSocket.HandshakeTimeout,
		TLSClientConfig:  tlsCfg,
	}

	conn, _, err := dialer.DialContext(ctx, c.connectURL, nil) //nolint:bodyclose // gorilla hijacks the response body on success
	if err != nil {
		return fmt.Errorf("synse: connecting to %s: %w", c.connectURL, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return ErrClosed
	}
	c.conn = conn
	c.done = make(chan struct{})
	c.log = c.log.With("conn_id", uuid.NewString())
	done := c.done
	c.mu.Unlock()

	c.log.Debug("websocket connected", "url", c.connectURL)

	go c.readPump(conn)
	go c.pingLoop(conn, done)
	return nil
}

// Close tears down the connection. Requests pending at close time fail
// with ErrClosed, as do any requests issued afterwards.
func (c *WebsocketClientV3) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	// Best-effort close handshake; the read pump exits on the closed
	// connection and releases all waiters.
	c.writeMu.Lock()
	//nolint:errcheck // best-effort close frame
	conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.writeMu.Unlock()
	return conn.Close()
}

// readPump reads frames off the connection and routes them to the pending
// request they answer. It owns the read side of the connection and exits
// when the connection breaks or is closed.
func (c *WebsocketClientV3) readPump(conn *websocket.Conn) {
	defer c.teardown()

	conn.SetReadLimit(c.opts.WebSocket.MaxMessageSize)
	wait := c.opts.WebSocket.PingInterval + c.opts.WebSocket.PongTimeout
	//nolint:errcheck // best-effort deadline on connection setup
	conn.SetReadDeadline(time.Now().Add(wait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("websocket read error", "error", err)
			} else {
				c.log.Debug("websocket closed", "error", err)
			}
			return
		}
		// Any traffic resets the read deadline.
		//nolint:errcheck // best-effort deadline reset
		conn.SetReadDeadline(time.Now().Add(wait))

		var resp wsResponse
		if err := json.Unmarshal(message, &resp); err != nil {
			c.log.Warn("discarding malformed frame", "error", err)
			continue
		}
		c.dispatch(resp)
	}
}

// dispatch routes a response frame to its pending request. Unary requests
// are unregistered on their first response; stream requests stay registered
// until their operation unregisters them.
func (c *WebsocketClientV3) dispatch(resp wsResponse) {
	c.mu.Lock()
	entry, ok := c.pending[resp.ID]
	if ok && !entry.stream {
		delete(c.pending, resp.ID)
	}
	c.mu.Unlock()

	if !ok {
		c.log.Debug("response with no pending request", "id", resp.ID, "event", resp.Event)
		return
	}

	select {
	case entry.ch <- resp:
	default:
		// The consumer fell behind a full buffer. Dropping keeps the read
		// pump (and every other request on the connection) unblocked.
		c.log.Warn("dropping frame for slow consumer", "id", resp.ID, "event", resp.Event)
	}
}

// pingLoop keeps the connection alive with protocol-level pings.
func (c *WebsocketClientV3) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(c.opts.WebSocket.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			//nolint:errcheck // best-effort deadline; ping error caught below
			conn.SetWriteDeadline(time.Now().Add(c.opts.WebSocket.PongTimeout))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				c.log.Debug("websocket ping failed", "error", err)
				return
			}
		}
	}
}

// teardown releases all request waiters after the read pump exits.
func (c *WebsocketClientV3) teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		select {
		case <-c.done:
		default:
			close(c.done)
		}
	}
}

// register allocates a request id and response channel. It fails when the
// client has not connected or has been closed.
func (c *WebsocketClientV3) register(buffer int, stream bool) (chan wsResponse, uint64, <-chan struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, 0, nil, ErrClosed
	}
	if c.conn == nil {
		return nil, 0, nil, ErrNotConnected
	}
	id := c.nextID.Add(1)
	ch := make(chan wsResponse, buffer)
	c.pending[id] = pendingReply{ch: ch, stream: stream}
	return ch, id, c.done, nil
}

// unregister removes a pending request, whether or not it was answered.
func (c *WebsocketClientV3) unregister(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// write sends one frame on the connection.
func (c *WebsocketClientV3) write(req wsRequest) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	//nolint:errcheck // best-effort deadline; write error caught below
	conn.SetWriteDeadline(time.Now().Add(c.opts.WebSocket.PongTimeout))
	if err := conn.WriteJSON(req); err != nil {
		return fmt.Errorf("synse: sending %s request: %w", req.Event, err)
	}
	return nil
}

// request issues one unary request and waits for its correlated response.
// The configured client timeout bounds the wait, alongside the caller's
// context.
func (c *WebsocketClientV3) request(ctx context.Context, event string, data interface{}) (*wsResponse, error) {
	ch, id, done, err := c.register(1, false)
	if err != nil {
		return nil, err
	}
	defer c.unregister(id)

	if err := c.write(wsRequest{ID: id, Event: event, Data: data}); err != nil {
		return nil, err
	}

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	select {
	case resp := <-ch:
		if resp.Event == responseError {
			return nil, wsError(resp.Data)
		}
		return &resp, nil
	case <-done:
		return nil, fmt.Errorf("synse: awaiting %s response: %w", event, ErrClosed)
	case <-ctx.Done():
		return nil, fmt.Errorf("synse: awaiting %s response: %w", event, ctx.Err())
	}
}

// wsError translates a response/error payload into an *APIError.
func wsError(data json.RawMessage) error {
	return newAPIError(0, data)
}

// decodeResponse unmarshals a response frame's payload into out.
func decodeResponse(resp *wsResponse, out interface{}) error {
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("synse: decoding %s payload: %w", resp.Event, err)
	}
	return nil
}

// Request payload shapes for the WebSocket API.
type (
	wsDeviceData struct {
		Device string `json:"device"`
	}
	wsPluginData struct {
		Plugin string `json:"plugin"`
	}
	wsScanData struct {
		Force bool       `json:"force,omitempty"`
		NS    string     `json:"ns,omitempty"`
		Sort  string     `json:"sort,omitempty"`
		Tags  [][]string `json:"tags,omitempty"`
	}
	wsTagsData struct {
		NS  []string `json:"ns,omitempty"`
		IDs bool     `json:"ids,omitempty"`
	}
	wsReadData struct {
		NS   string     `json:"ns,omitempty"`
		Tags [][]string `json:"tags,omitempty"`
	}
	wsReadCacheData struct {
		Start string `json:"start,omitempty"`
		End   string `json:"end,omitempty"`
	}
	wsReadStreamData struct {
		IDs       []string   `json:"ids,omitempty"`
		TagGroups [][]string `json:"tag_groups,omitempty"`
		Stop      bool       `json:"stop,omitempty"`
	}
	wsWriteData struct {
		Device  string             `json:"device"`
		Payload []scheme.WriteData `json:"payload"`
	}
	wsTransactionData struct {
		Transaction string `json:"transaction"`
	}
)

// Status checks the availability of the server instance.
func (c *WebsocketClientV3) Status(ctx context.Context) (*scheme.Status, error) {
	resp, err := c.request(ctx, requestStatus, nil)
	if err != nil {
		return nil, err
	}
	var out scheme.Status
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Version gets the server version and API version.
func (c *WebsocketClientV3) Version(ctx context.Context) (*scheme.Version, error) {
	resp, err := c.request(ctx, requestVersion, nil)
	if err != nil {
		return nil, err
	}
	var out scheme.Version
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Config gets the server's unified configuration.
func (c *WebsocketClientV3) Config(ctx context.Context) (scheme.Config, error) {
	resp, err := c.request(ctx, requestConfig, nil)
	if err != nil {
		return nil, err
	}
	var out scheme.Config
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Plugins lists all plugins registered with the server.
func (c *WebsocketClientV3) Plugins(ctx context.Context) ([]*scheme.PluginSummary, error) {
	resp, err := c.request(ctx, requestPlugins, nil)
	if err != nil {
		return nil, err
	}
	var out []*scheme.PluginSummary
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Plugin gets the full record for one plugin.
func (c *WebsocketClientV3) Plugin(ctx context.Context, id string) (*scheme.Plugin, error) {
	resp, err := c.request(ctx, requestPlugin, wsPluginData{Plugin: id})
	if err != nil {
		return nil, err
	}
	var out scheme.Plugin
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PluginHealth summarizes the health of all registered plugins.
func (c *WebsocketClientV3) PluginHealth(ctx context.Context) (*scheme.PluginHealth, error) {
	resp, err := c.request(ctx, requestPluginHealth, nil)
	if err != nil {
		return nil, err
	}
	var out scheme.PluginHealth
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Scan lists the devices currently exposed by the server.
func (c *WebsocketClientV3) Scan(ctx context.Context, opts scheme.ScanOptions) ([]*scheme.Scan, error) {
	resp, err := c.request(ctx, requestScan, wsScanData{
		Force: opts.Force,
		NS:    opts.NS,
		Sort:  opts.Sort,
		Tags:  opts.Tags,
	})
	if err != nil {
		return nil, err
	}
	var out []*scheme.Scan
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tags lists the tags currently associated with registered devices.
func (c *WebsocketClientV3) Tags(ctx context.Context, opts scheme.TagsOptions) ([]string, error) {
	resp, err := c.request(ctx, requestTags, wsTagsData{NS: opts.NS, IDs: opts.IDs})
	if err != nil {
		return nil, err
	}
	var out []string
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Info gets the full record for one device.
func (c *WebsocketClientV3) Info(ctx context.Context, device string) (*scheme.Info, error) {
	resp, err := c.request(ctx, requestInfo, wsDeviceData{Device: device})
	if err != nil {
		return nil, err
	}
	var out scheme.Info
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Read gets the latest readings from all devices matching the options.
func (c *WebsocketClientV3) Read(ctx context.Context, opts scheme.ReadOptions) ([]*scheme.Read, error) {
	resp, err := c.request(ctx, requestRead, wsReadData{NS: opts.NS, Tags: opts.Tags})
	if err != nil {
		return nil, err
	}
	var out []*scheme.Read
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadDevice gets the latest readings from one device.
func (c *WebsocketClientV3) ReadDevice(ctx context.Context, device string) ([]*scheme.Read, error) {
	resp, err := c.request(ctx, requestReadDevice, wsDeviceData{Device: device})
	if err != nil {
		return nil, err
	}
	var out []*scheme.Read
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadCache replays a window of cached readings into the provided channel.
// Over the WebSocket API the cache arrives as one response payload; the
// channel is closed once it has been relayed or the context is done.
func (c *WebsocketClientV3) ReadCache(ctx context.Context, opts scheme.ReadCacheOptions, readings chan<- *scheme.Read) error {
	defer close(readings)

	resp, err := c.request(ctx, requestReadCache, wsReadCacheData{Start: opts.Start, End: opts.End})
	if err != nil {
		return err
	}
	var out []*scheme.Read
	if err := decodeResponse(resp, &out); err != nil {
		return err
	}
	for _, r := range out {
		select {
		case readings <- r:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// ReadStream streams live readings into the provided channel until the
// context is done. On cancellation the client asks the server to stop the
// stream before returning; the channel is closed on return.
//
// ReadStream has no HTTP counterpart.
func (c *WebsocketClientV3) ReadStream(ctx context.Context, opts scheme.ReadStreamOptions, readings chan<- *scheme.Read) error {
	defer close(readings)

	ch, id, done, err := c.register(streamBufferSize, true)
	if err != nil {
		return err
	}
	defer c.unregister(id)

	err = c.write(wsRequest{ID: id, Event: requestReadStream, Data: wsReadStreamData{
		IDs:       opts.IDs,
		TagGroups: opts.TagGroups,
	}})
	if err != nil {
		return err
	}

	for {
		select {
		case resp := <-ch:
			if resp.Event == responseError {
				return wsError(resp.Data)
			}
			var r scheme.Read
			if err := decodeResponse(&resp, &r); err != nil {
				return err
			}
			select {
			case readings <- &r:
			case <-ctx.Done():
				c.stopStream()
				return ctx.Err()
			}
		case <-done:
			return fmt.Errorf("synse: reading stream interrupted: %w", ErrClosed)
		case <-ctx.Done():
			c.stopStream()
			return ctx.Err()
		}
	}
}

// stopStream tells the server to stop streaming readings. Best effort: the
// connection may already be gone during teardown, and the acknowledgement
// is not awaited (its frame is discarded as unmatched by the read pump).
func (c *WebsocketClientV3) stopStream() {
	req := wsRequest{
		ID:    c.nextID.Add(1),
		Event: requestReadStream,
		Data:  wsReadStreamData{Stop: true},
	}
	if err := c.write(req); err != nil {
		c.log.Debug("failed to send stream stop request", "error", err)
	}
}

// WriteAsync queues a write on the target device and returns one
// transaction receipt per written datum.
func (c *WebsocketClientV3) WriteAsync(ctx context.Context, device string, data []scheme.WriteData) ([]*scheme.Write, error) {
	resp, err := c.request(ctx, requestWriteAsync, wsWriteData{Device: device, Payload: data})
	if err != nil {
		return nil, err
	}
	var out []*scheme.Write
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteSync writes to the target device and blocks until the write
// settles. The configured client timeout bounds the wait, so slow devices
// need a client with a suitably large Timeout.
func (c *WebsocketClientV3) WriteSync(ctx context.Context, device string, data []scheme.WriteData) ([]*scheme.Transaction, error) {
	resp, err := c.request(ctx, requestWriteSync, wsWriteData{Device: device, Payload: data})
	if err != nil {
		return nil, err
	}
	var out []*scheme.Transaction
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Transaction gets the current state of an asynchronous write.
func (c *WebsocketClientV3) Transaction(ctx context.Context, id string) (*scheme.Transaction, error) {
	resp, err := c.request(ctx, requestTransaction, wsTransactionData{Transaction: id})
	if err != nil {
		return nil, err
	}
	var out scheme.Transaction
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Transactions lists the IDs of all transactions the server currently
// tracks.
func (c *WebsocketClientV3) Transactions(ctx context.Context) ([]string, error) {
	resp, err := c.request(ctx, requestTransactions, nil)
	if err != nil {
		return nil, err
	}
	var out []string
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}
