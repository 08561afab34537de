// Package commands implements the synsectl subcommands.
//
// Each command is a Run* function taking its argument list and output
// writers and returning a process exit code, so commands are testable
// without spawning the binary.
package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/synsekit/synse-go/internal/config"
	"github.com/synsekit/synse-go/internal/logging"
	"github.com/synsekit/synse-go/synse"
)

// Exit codes shared by all commands.
const (
	ExitSuccess = 0
	ExitUsage   = 1
	ExitRequest = 2
)

// toolVersion is the synsectl version reported in logs. Set by main from
// its build-time version.
var toolVersion = "dev"

// SetVersion records the build version for logging.
func SetVersion(v string) {
	toolVersion = v
}

// clientFlags are the connection flags every command accepts.
type clientFlags struct {
	configPath string
	server     string
	timeout    int
}

// newFlagSet builds a flag set with the shared connection flags attached.
func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *clientFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	cf := &clientFlags{}
	fs.StringVar(&cf.configPath, "config", "", "path to the synsectl config file")
	fs.StringVar(&cf.server, "server", "", "Synse Server address (host or host:port)")
	fs.IntVar(&cf.timeout, "timeout", 0, "request timeout in seconds")
	return fs, cf
}

// load resolves the effective configuration: config file (or defaults),
// then flag overrides on top.
func (cf *clientFlags) load() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cf.configPath)
	if err != nil {
		return nil, err
	}
	if cf.server != "" {
		cfg.Server.Address = cf.server
	}
	if cf.timeout > 0 {
		cfg.Server.Timeout = cf.timeout
	}
	return cfg, nil
}

// httpClient builds an HTTP client from the effective configuration.
func (cf *clientFlags) httpClient() (*synse.HTTPClientV3, error) {
	cfg, err := cf.load()
	if err != nil {
		return nil, err
	}
	opts := cfg.ClientOptions()
	opts.Logger = logging.New(cfg.Logging, toolVersion).Logger
	return synse.NewHTTPClientV3(opts)
}

// websocketClient builds and opens a WebSocket client from the effective
// configuration.
func (cf *clientFlags) websocketClient(ctx context.Context) (*synse.WebsocketClientV3, error) {
	cfg, err := cf.load()
	if err != nil {
		return nil, err
	}
	opts := cfg.ClientOptions()
	opts.Logger = logging.New(cfg.Logging, toolVersion).Logger
	client, err := synse.NewWebsocketClientV3(opts)
	if err != nil {
		return nil, err
	}
	if err := client.Open(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fail reports a command failure on stderr and returns the request error
// exit code.
func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "synsectl: %v\n", err)
	return ExitRequest
}

// tagGroups collects repeated -tags flags. Each occurrence is one tag
// group with its members comma-joined, mirroring the server's query
// parameter format.
type tagGroups [][]string

func (t *tagGroups) String() string {
	groups := make([]string, 0, len(*t))
	for _, g := range *t {
		groups = append(groups, strings.Join(g, ","))
	}
	return strings.Join(groups, " ")
}

// Set parses one -tags occurrence into a tag group.
func (t *tagGroups) Set(value string) error {
	group := []string{}
	for _, tag := range strings.Split(value, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			group = append(group, tag)
		}
	}
	if len(group) == 0 {
		return fmt.Errorf("empty tag group")
	}
	*t = append(*t, group)
	return nil
}

// stringList collects repeated string flags.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

// Set records one flag occurrence.
func (s *stringList) Set(value string) error {
	if value == "" {
		return fmt.Errorf("empty value")
	}
	*s = append(*s, value)
	return nil
}
