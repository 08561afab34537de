package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/synsekit/synse-go/synse/scheme"
)

// RunWrite issues a write to a device.
//
// By default the write is asynchronous and the command prints the
// transaction receipts to poll. With -wait the command blocks until the
// write settles and prints the final transaction states instead.
func RunWrite(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs, cf := newFlagSet("write", stderr)
	var (
		wait = fs.Bool("wait", false, "block until the write settles")
		txn  = fs.String("transaction", "", "caller-chosen transaction ID")
	)
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if fs.NArg() < 2 || fs.NArg() > 3 {
		fmt.Fprintln(stderr, "usage: synsectl write [options] <device> <action> [data]")
		return ExitUsage
	}

	data := scheme.WriteData{
		Action:      fs.Arg(1),
		Transaction: *txn,
	}
	if fs.NArg() == 3 {
		data.Data = fs.Arg(2)
	}

	client, err := cf.httpClient()
	if err != nil {
		return fail(stderr, err)
	}
	defer client.Close()

	device := fs.Arg(0)
	payload := []scheme.WriteData{data}

	if *wait {
		txns, err := client.WriteSync(ctx, device, payload)
		if err != nil {
			return fail(stderr, err)
		}
		if err := printJSON(stdout, txns); err != nil {
			return fail(stderr, err)
		}
		for _, t := range txns {
			if t.Failed() {
				fmt.Fprintf(stderr, "synsectl: write %s failed: %s\n", t.ID, t.Message)
				return ExitRequest
			}
		}
		return ExitSuccess
	}

	writes, err := client.WriteAsync(ctx, device, payload)
	if err != nil {
		return fail(stderr, err)
	}
	if err := printJSON(stdout, writes); err != nil {
		return fail(stderr, err)
	}
	return ExitSuccess
}

// RunTransaction shows the state of one write transaction, or lists all
// tracked transaction IDs when none is given.
func RunTransaction(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs, cf := newFlagSet("transaction", stderr)
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	client, err := cf.httpClient()
	if err != nil {
		return fail(stderr, err)
	}
	defer client.Close()

	if fs.NArg() == 0 {
		ids, err := client.Transactions(ctx)
		if err != nil {
			return fail(stderr, err)
		}
		if err := printJSON(stdout, ids); err != nil {
			return fail(stderr, err)
		}
		return ExitSuccess
	}

	txn, err := client.Transaction(ctx, fs.Arg(0))
	if err != nil {
		return fail(stderr, err)
	}
	if err := printJSON(stdout, txn); err != nil {
		return fail(stderr, err)
	}
	return ExitSuccess
}
