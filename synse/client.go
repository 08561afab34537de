package synse

import (
	"context"

	"github.com/synsekit/synse-go/synse/scheme"
)

// Client is the operation surface shared by the HTTP and WebSocket clients.
// Every method issues one Synse Server v3 API operation and decodes the
// response into its scheme record.
//
// All methods honor context cancellation. Server-reported failures are
// returned as *APIError values which unwrap to the ErrInvalidInput,
// ErrNotFound and ErrServerError sentinels.
type Client interface {
	// Status checks the availability of the server instance. A reachable
	// server resolves the call; an unreachable one returns an error.
	Status(ctx context.Context) (*scheme.Status, error)

	// Version gets the server version and API version.
	Version(ctx context.Context) (*scheme.Version, error)

	// Config gets the server's unified configuration.
	Config(ctx context.Context) (scheme.Config, error)

	// Plugins lists all plugins registered with the server.
	Plugins(ctx context.Context) ([]*scheme.PluginSummary, error)

	// Plugin gets the full record for one plugin.
	Plugin(ctx context.Context, id string) (*scheme.Plugin, error)

	// PluginHealth summarizes the health of all registered plugins.
	PluginHealth(ctx context.Context) (*scheme.PluginHealth, error)

	// Scan lists the devices currently exposed by the server.
	Scan(ctx context.Context, opts scheme.ScanOptions) ([]*scheme.Scan, error)

	// Tags lists the tags currently associated with registered devices.
	Tags(ctx context.Context, opts scheme.TagsOptions) ([]string, error)

	// Info gets the full record for one device.
	Info(ctx context.Context, device string) (*scheme.Info, error)

	// Read gets the latest readings from all devices matching the options.
	Read(ctx context.Context, opts scheme.ReadOptions) ([]*scheme.Read, error)

	// ReadDevice gets the latest readings from one device.
	ReadDevice(ctx context.Context, device string) ([]*scheme.Read, error)

	// ReadCache replays a window of cached readings into the provided
	// channel. The channel is closed when the window is exhausted or the
	// context is done.
	ReadCache(ctx context.Context, opts scheme.ReadCacheOptions, readings chan<- *scheme.Read) error

	// WriteAsync queues a write on the target device and returns one
	// transaction receipt per written datum. The transactions can be polled
	// with Transaction until they settle.
	WriteAsync(ctx context.Context, device string, data []scheme.WriteData) ([]*scheme.Write, error)

	// WriteSync writes to the target device and blocks until the write
	// settles, returning the final transaction states.
	WriteSync(ctx context.Context, device string, data []scheme.WriteData) ([]*scheme.Transaction, error)

	// Transaction gets the current state of an asynchronous write.
	Transaction(ctx context.Context, id string) (*scheme.Transaction, error)

	// Transactions lists the IDs of all transactions the server currently
	// tracks.
	Transactions(ctx context.Context) ([]string, error)

	// Close releases the client's connections. The client cannot be reused
	// afterwards.
	Close() error
}

// Interface guards: both transports implement the full client surface.
var (
	_ Client = (*HTTPClientV3)(nil)
	_ Client = (*WebsocketClientV3)(nil)
)
