package commands

import (
	"context"
	"fmt"
	"io"
)

// RunPlugins lists registered plugins, or shows one plugin's full record
// when an ID is given.
func RunPlugins(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs, cf := newFlagSet("plugins", stderr)
	health := fs.Bool("health", false, "show the aggregate plugin health summary")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if *health && fs.NArg() > 0 {
		fmt.Fprintln(stderr, "usage: synsectl plugins [-health | <plugin>]")
		return ExitUsage
	}

	client, err := cf.httpClient()
	if err != nil {
		return fail(stderr, err)
	}
	defer client.Close()

	switch {
	case *health:
		summary, err := client.PluginHealth(ctx)
		if err != nil {
			return fail(stderr, err)
		}
		if err := printJSON(stdout, summary); err != nil {
			return fail(stderr, err)
		}
	case fs.NArg() > 0:
		plugin, err := client.Plugin(ctx, fs.Arg(0))
		if err != nil {
			return fail(stderr, err)
		}
		if err := printJSON(stdout, plugin); err != nil {
			return fail(stderr, err)
		}
	default:
		plugins, err := client.Plugins(ctx)
		if err != nil {
			return fail(stderr, err)
		}
		if err := printJSON(stdout, plugins); err != nil {
			return fail(stderr, err)
		}
	}
	return ExitSuccess
}
