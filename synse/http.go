package synse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/synsekit/synse-go/synse/scheme"
)

// apiVersion is the URL version segment for versioned endpoints. The /test
// and /version endpoints are unversioned by design, so a client can probe a
// server without knowing its API version first.
const apiVersion = "v3"

// HTTPClientV3 talks to the Synse Server v3 HTTP API, one request per
// operation. It is safe for concurrent use.
type HTTPClientV3 struct {
	opts   *Options
	client *resty.Client
	log    *slog.Logger
}

// NewHTTPClientV3 creates an HTTP client for the given options. The
// constructor does not contact the server; use Status to probe
// reachability.
func NewHTTPClientV3(opts *Options) (*HTTPClientV3, error) {
	if opts == nil {
		opts = &Options{}
	}
	opts.setDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	tlsCfg, err := opts.tlsConfig()
	if err != nil {
		return nil, err
	}

	client := resty.New().
		SetBaseURL(fmt.Sprintf("%s://%s", opts.scheme("http", "https"), opts.Address)).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json")
	if tlsCfg != nil {
		client.SetTLSClientConfig(tlsCfg)
	}

	return &HTTPClientV3{
		opts:   opts,
		client: client,
		log:    opts.Logger.With("component", "synse-http"),
	}, nil
}

// get issues a GET request and decodes the JSON response body into out.
func (c *HTTPClientV3) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		Get(path)
	if err != nil {
		return fmt.Errorf("synse: request GET %s: %w", path, err)
	}
	return c.decode(path, resp, out)
}

// post issues a POST request with a JSON body and decodes the response
// into out.
func (c *HTTPClientV3) post(ctx context.Context, path string, body, out interface{}) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	if err != nil {
		return fmt.Errorf("synse: request POST %s: %w", path, err)
	}
	return c.decode(path, resp, out)
}

// decode translates error statuses and unmarshals successful bodies.
func (c *HTTPClientV3) decode(path string, resp *resty.Response, out interface{}) error {
	if resp.IsError() {
		apiErr := newAPIError(resp.StatusCode(), resp.Body())
		c.log.Debug("server returned error response",
			"path", path,
			"status", resp.StatusCode(),
			"description", apiErr.Description,
		)
		return apiErr
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("synse: decoding %s response: %w", path, err)
	}
	return nil
}

// Status checks the availability of the server instance.
func (c *HTTPClientV3) Status(ctx context.Context) (*scheme.Status, error) {
	var out scheme.Status
	if err := c.get(ctx, "/test", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Version gets the server version and API version.
func (c *HTTPClientV3) Version(ctx context.Context) (*scheme.Version, error) {
	var out scheme.Version
	if err := c.get(ctx, "/version", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Config gets the server's unified configuration.
func (c *HTTPClientV3) Config(ctx context.Context) (scheme.Config, error) {
	var out scheme.Config
	if err := c.get(ctx, "/"+apiVersion+"/config", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Plugins lists all plugins registered with the server.
func (c *HTTPClientV3) Plugins(ctx context.Context) ([]*scheme.PluginSummary, error) {
	var out []*scheme.PluginSummary
	if err := c.get(ctx, "/"+apiVersion+"/plugin", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Plugin gets the full record for one plugin.
func (c *HTTPClientV3) Plugin(ctx context.Context, id string) (*scheme.Plugin, error) {
	var out scheme.Plugin
	if err := c.get(ctx, "/"+apiVersion+"/plugin/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PluginHealth summarizes the health of all registered plugins.
func (c *HTTPClientV3) PluginHealth(ctx context.Context) (*scheme.PluginHealth, error) {
	var out scheme.PluginHealth
	if err := c.get(ctx, "/"+apiVersion+"/plugin/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Scan lists the devices currently exposed by the server.
func (c *HTTPClientV3) Scan(ctx context.Context, opts scheme.ScanOptions) ([]*scheme.Scan, error) {
	params := url.Values{}
	encodeTagGroups(opts.Tags, params)
	if opts.NS != "" {
		params.Add("ns", opts.NS)
	}
	if opts.Force {
		params.Add("force", "true")
	}
	if opts.Sort != "" {
		params.Add("sort", opts.Sort)
	}

	var out []*scheme.Scan
	if err := c.get(ctx, "/"+apiVersion+"/scan", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tags lists the tags currently associated with registered devices.
func (c *HTTPClientV3) Tags(ctx context.Context, opts scheme.TagsOptions) ([]string, error) {
	params := url.Values{}
	for _, ns := range opts.NS {
		params.Add("ns", ns)
	}
	if opts.IDs {
		params.Add("ids", "true")
	}

	var out []string
	if err := c.get(ctx, "/"+apiVersion+"/tags", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Info gets the full record for one device.
func (c *HTTPClientV3) Info(ctx context.Context, device string) (*scheme.Info, error) {
	var out scheme.Info
	if err := c.get(ctx, "/"+apiVersion+"/info/"+url.PathEscape(device), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Read gets the latest readings from all devices matching the options.
func (c *HTTPClientV3) Read(ctx context.Context, opts scheme.ReadOptions) ([]*scheme.Read, error) {
	params := url.Values{}
	encodeTagGroups(opts.Tags, params)
	if opts.NS != "" {
		params.Add("ns", opts.NS)
	}

	var out []*scheme.Read
	if err := c.get(ctx, "/"+apiVersion+"/read", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadDevice gets the latest readings from one device.
func (c *HTTPClientV3) ReadDevice(ctx context.Context, device string) ([]*scheme.Read, error) {
	var out []*scheme.Read
	if err := c.get(ctx, "/"+apiVersion+"/read/"+url.PathEscape(device), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadCache replays a window of cached readings into the provided channel.
//
// The server streams the cache as newline-delimited JSON; each decoded
// reading is sent to the channel in arrival order. The channel is closed
// when the window is exhausted, the context is done, or the stream breaks.
func (c *HTTPClientV3) ReadCache(ctx context.Context, opts scheme.ReadCacheOptions, readings chan<- *scheme.Read) error {
	defer close(readings)

	params := url.Values{}
	if opts.Start != "" {
		params.Add("start", opts.Start)
	}
	if opts.End != "" {
		params.Add("end", opts.End)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		SetDoNotParseResponse(true).
		Get("/" + apiVersion + "/readcache")
	if err != nil {
		return fmt.Errorf("synse: request GET /%s/readcache: %w", apiVersion, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		raw, _ := io.ReadAll(body) //nolint:errcheck // best-effort read of the error payload
		return newAPIError(resp.StatusCode(), raw)
	}

	dec := json.NewDecoder(body)
	for {
		var r scheme.Read
		if err := dec.Decode(&r); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("synse: decoding readcache stream: %w", err)
		}
		select {
		case readings <- &r:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// WriteAsync queues a write on the target device and returns one
// transaction receipt per written datum.
func (c *HTTPClientV3) WriteAsync(ctx context.Context, device string, data []scheme.WriteData) ([]*scheme.Write, error) {
	var out []*scheme.Write
	if err := c.post(ctx, "/"+apiVersion+"/write/"+url.PathEscape(device), data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteSync writes to the target device and blocks until the write
// settles. The caller is responsible for a timeout suited to the device:
// the configured client timeout applies, so slow writes may need a client
// with a larger Timeout.
func (c *HTTPClientV3) WriteSync(ctx context.Context, device string, data []scheme.WriteData) ([]*scheme.Transaction, error) {
	var out []*scheme.Transaction
	if err := c.post(ctx, "/"+apiVersion+"/write/wait/"+url.PathEscape(device), data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Transaction gets the current state of an asynchronous write.
func (c *HTTPClientV3) Transaction(ctx context.Context, id string) (*scheme.Transaction, error) {
	var out scheme.Transaction
	if err := c.get(ctx, "/"+apiVersion+"/transaction/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Transactions lists the IDs of all transactions the server currently
// tracks.
func (c *HTTPClientV3) Transactions(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/"+apiVersion+"/transaction", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases idle connections held by the underlying HTTP client.
func (c *HTTPClientV3) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}

// String implements fmt.Stringer for log-friendly client identification.
func (c *HTTPClientV3) String() string {
	return "synse-http[" + c.opts.Address + ", timeout=" + strconv.Itoa(int(c.opts.Timeout.Seconds())) + "s]"
}
