package commands

import (
	"context"
	"io"
)

// RunStatus checks the availability of the configured Synse Server.
func RunStatus(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs, cf := newFlagSet("status", stderr)
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	client, err := cf.httpClient()
	if err != nil {
		return fail(stderr, err)
	}
	defer client.Close()

	status, err := client.Status(ctx)
	if err != nil {
		return fail(stderr, err)
	}
	if err := printJSON(stdout, status); err != nil {
		return fail(stderr, err)
	}
	return ExitSuccess
}

// RunVersion reports the server's version and API version.
func RunVersion(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs, cf := newFlagSet("version", stderr)
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	client, err := cf.httpClient()
	if err != nil {
		return fail(stderr, err)
	}
	defer client.Close()

	version, err := client.Version(ctx)
	if err != nil {
		return fail(stderr, err)
	}
	if err := printJSON(stdout, version); err != nil {
		return fail(stderr, err)
	}
	return ExitSuccess
}

// RunConfig dumps the server's unified configuration.
func RunConfig(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs, cf := newFlagSet("config", stderr)
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	client, err := cf.httpClient()
	if err != nil {
		return fail(stderr, err)
	}
	defer client.Close()

	cfg, err := client.Config(ctx)
	if err != nil {
		return fail(stderr, err)
	}
	if err := printJSON(stdout, cfg); err != nil {
		return fail(stderr, err)
	}
	return ExitSuccess
}
