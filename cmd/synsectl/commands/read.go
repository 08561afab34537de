package commands

import (
	"context"
	"encoding/json"
	"io"

	"github.com/synsekit/synse-go/synse/scheme"
)

// RunRead reads current values: from one device when a device ID is given,
// otherwise from all devices matching the filters.
func RunRead(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs, cf := newFlagSet("read", stderr)
	var (
		tags tagGroups
		ns   = fs.String("ns", "", "default namespace for tags without one")
	)
	fs.Var(&tags, "tags", "tag group filter, comma-joined; repeatable")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	client, err := cf.httpClient()
	if err != nil {
		return fail(stderr, err)
	}
	defer client.Close()

	var readings []*scheme.Read
	if fs.NArg() > 0 {
		readings, err = client.ReadDevice(ctx, fs.Arg(0))
	} else {
		readings, err = client.Read(ctx, scheme.ReadOptions{NS: *ns, Tags: tags})
	}
	if err != nil {
		return fail(stderr, err)
	}
	if err := printJSON(stdout, readings); err != nil {
		return fail(stderr, err)
	}
	return ExitSuccess
}

// RunReadCache replays the server's reading cache, one JSON document per
// line, optionally bounded by RFC3339 timestamps.
func RunReadCache(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs, cf := newFlagSet("readcache", stderr)
	var (
		start = fs.String("start", "", "starting bound, RFC3339")
		end   = fs.String("end", "", "ending bound, RFC3339")
	)
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	client, err := cf.httpClient()
	if err != nil {
		return fail(stderr, err)
	}
	defer client.Close()

	// Cancelling releases the streaming goroutine if output fails mid-replay.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	readings := make(chan *scheme.Read)
	errs := make(chan error, 1)
	go func() {
		errs <- client.ReadCache(ctx, scheme.ReadCacheOptions{Start: *start, End: *end}, readings)
	}()

	enc := json.NewEncoder(stdout)
	for r := range readings {
		if err := enc.Encode(r); err != nil {
			return fail(stderr, err)
		}
	}
	if err := <-errs; err != nil {
		return fail(stderr, err)
	}
	return ExitSuccess
}
