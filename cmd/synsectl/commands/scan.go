package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/synsekit/synse-go/synse/scheme"
)

// RunScan lists the devices the server currently exposes.
func RunScan(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs, cf := newFlagSet("scan", stderr)
	var (
		tags  tagGroups
		ns    = fs.String("ns", "", "default namespace for tags without one")
		force = fs.Bool("force", false, "rebuild the server's device cache before scanning")
		sort  = fs.String("sort", "", "comma-separated sort fields, e.g. plugin,id")
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

	devices, err := client.Scan(ctx, scheme.ScanOptions{
		Force: *force,
		NS:    *ns,
		Sort:  *sort,
		Tags:  tags,
	})
	if err != nil {
		return fail(stderr, err)
	}
	if err := printJSON(stdout, devices); err != nil {
		return fail(stderr, err)
	}
	return ExitSuccess
}

// RunTags lists the tags associated with registered devices.
func RunTags(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs, cf := newFlagSet("tags", stderr)
	var (
		ns  stringList
		ids = fs.Bool("ids", false, "include per-device ID tags")
	)
	fs.Var(&ns, "ns", "tag namespace to search; repeatable")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	client, err := cf.httpClient()
	if err != nil {
		return fail(stderr, err)
	}
	defer client.Close()

	tags, err := client.Tags(ctx, scheme.TagsOptions{NS: ns, IDs: *ids})
	if err != nil {
		return fail(stderr, err)
	}
	if err := printJSON(stdout, tags); err != nil {
		return fail(stderr, err)
	}
	return ExitSuccess
}

// RunInfo shows the full record for one device.
func RunInfo(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs, cf := newFlagSet("info", stderr)
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: synsectl info [options] <device>")
		return ExitUsage
	}

	client, err := cf.httpClient()
	if err != nil {
		return fail(stderr, err)
	}
	defer client.Close()

	info, err := client.Info(ctx, fs.Arg(0))
	if err != nil {
		return fail(stderr, err)
	}
	if err := printJSON(stdout, info); err != nil {
		return fail(stderr, err)
	}
	return ExitSuccess
}
