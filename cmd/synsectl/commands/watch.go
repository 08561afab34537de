package commands

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/synsekit/synse-go/synse/scheme"
)

// RunWatch streams live readings over the WebSocket API, one JSON document
// per line, until interrupted.
func RunWatch(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs, cf := newFlagSet("watch", stderr)
	var (
		ids  stringList
		tags tagGroups
	)
	fs.Var(&ids, "id", "device ID to watch; repeatable")
	fs.Var(&tags, "tags", "tag group filter, comma-joined; repeatable")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	client, err := cf.websocketClient(ctx)
	if err != nil {
		return fail(stderr, err)
	}
	defer client.Close()

	// Cancelling stops the stream if output fails mid-watch.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	readings := make(chan *scheme.Read)
	errs := make(chan error, 1)
	go func() {
		errs <- client.ReadStream(ctx, scheme.ReadStreamOptions{
			IDs:       ids,
			TagGroups: tags,
		}, readings)
	}()

	enc := json.NewEncoder(stdout)
	for r := range readings {
		if err := enc.Encode(r); err != nil {
			return fail(stderr, err)
		}
	}

	// Interrupting the watch is the normal way to end it.
	if err := <-errs; err != nil && !errors.Is(err, context.Canceled) {
		return fail(stderr, err)
	}
	return ExitSuccess
}
