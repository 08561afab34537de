package synse

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"
)

// Defaults applied by Options.setDefaults. Port and timeout match the
// Synse Server defaults.
const (
	defaultPort    = 5000
	defaultTimeout = 10 * time.Second

	defaultHandshakeTimeout = 10 * time.Second
	defaultPingInterval     = 30 * time.Second
	defaultPongTimeout      = 60 * time.Second
	defaultMaxMessageSize   = 2 * 1024 * 1024
)

// Options configure a Synse client. Only Address is required; zero values
// for everything else fall back to the defaults above.
type Options struct {
	// Address is the Synse Server instance to talk to, as "host" or
	// "host:port". A bare host uses the default server port (5000).
	Address string

	// Timeout bounds each request. For the HTTP client this is the
	// per-request timeout; for the WebSocket client it bounds the wait for
	// a correlated response. Zero uses the default (10s).
	Timeout time.Duration

	// TLS configures transport security. Disabled by default; Synse Server
	// is typically deployed behind a terminating proxy when TLS is needed.
	TLS TLSOptions

	// WebSocket tunes the WebSocket connection keepalive. Ignored by the
	// HTTP client.
	WebSocket WebSocketOptions

	// Logger receives client debug/warn logs. Nil discards them.
	Logger *slog.Logger
}

// TLSOptions configure TLS for either transport.
type TLSOptions struct {
	// Enabled switches the client to https/wss.
	Enabled bool

	// SkipVerify disables server certificate verification. Intended for
	// lab setups with self-signed certificates.
	SkipVerify bool

	// CertFile and KeyFile optionally name a client certificate pair to
	// present to the server.
	CertFile string
	KeyFile  string
}

// WebSocketOptions tune the WebSocket connection.
type WebSocketOptions struct {
	// HandshakeTimeout bounds the connection upgrade.
	HandshakeTimeout time.Duration

	// PingInterval is how often the client pings the server.
	PingInterval time.Duration

	// PongTimeout is how long past a ping the client waits for traffic
	// before treating the connection as dead.
	PongTimeout time.Duration

	// MaxMessageSize caps a single inbound frame, in bytes.
	MaxMessageSize int64
}

// setDefaults fills zero-valued fields in place.
func (o *Options) setDefaults() {
	if o.Address != "" {
		if _, _, err := net.SplitHostPort(o.Address); err != nil {
			o.Address = net.JoinHostPort(o.Address, strconv.Itoa(defaultPort))
		}
	}
	if o.Timeout == 0 {
		o.Timeout = defaultTimeout
	}
	if o.WebSocket.HandshakeTimeout == 0 {
		o.WebSocket.HandshakeTimeout = defaultHandshakeTimeout
	}
	if o.WebSocket.PingInterval == 0 {
		o.WebSocket.PingInterval = defaultPingInterval
	}
	if o.WebSocket.PongTimeout == 0 {
		o.WebSocket.PongTimeout = defaultPongTimeout
	}
	if o.WebSocket.MaxMessageSize == 0 {
		o.WebSocket.MaxMessageSize = defaultMaxMessageSize
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
}

// validate checks the options after defaults have been applied.
func (o *Options) validate() error {
	if o.Address == "" {
		return fmt.Errorf("synse: options: address is required")
	}
	if (o.TLS.CertFile == "") != (o.TLS.KeyFile == "") {
		return fmt.Errorf("synse: options: cert_file and key_file must be set together")
	}
	return nil
}

// tlsConfig builds the *tls.Config for the configured TLS options, or nil
// when TLS is disabled.
func (o *Options) tlsConfig() (*tls.Config, error) {
	if !o.TLS.Enabled {
		return nil, nil
	}
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: o.TLS.SkipVerify, //nolint:gosec // opt-in for self-signed lab certs
	}
	if o.TLS.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(o.TLS.CertFile, o.TLS.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("synse: loading client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}

// scheme returns the URL scheme for the given insecure/secure pair, e.g.
// ("http", "https") or ("ws", "wss").
func (o *Options) scheme(insecure, secure string) string {
	if o.TLS.Enabled {
		return secure
	}
	return insecure
}
