// synsectl is a CLI for inspecting and controlling devices through a
// Synse Server instance.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/synsekit/synse-go/cmd/synsectl/commands"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(commands.ExitUsage)
	}

	commands.SetVersion(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "status":
		exitCode = commands.RunStatus(ctx, args, os.Stdout, os.Stderr)
	case "version":
		exitCode = commands.RunVersion(ctx, args, os.Stdout, os.Stderr)
	case "config":
		exitCode = commands.RunConfig(ctx, args, os.Stdout, os.Stderr)
	case "scan":
		exitCode = commands.RunScan(ctx, args, os.Stdout, os.Stderr)
	case "tags":
		exitCode = commands.RunTags(ctx, args, os.Stdout, os.Stderr)
	case "info":
		exitCode = commands.RunInfo(ctx, args, os.Stdout, os.Stderr)
	case "read":
		exitCode = commands.RunRead(ctx, args, os.Stdout, os.Stderr)
	case "readcache":
		exitCode = commands.RunReadCache(ctx, args, os.Stdout, os.Stderr)
	case "write":
		exitCode = commands.RunWrite(ctx, args, os.Stdout, os.Stderr)
	case "transaction":
		exitCode = commands.RunTransaction(ctx, args, os.Stdout, os.Stderr)
	case "plugins":
		exitCode = commands.RunPlugins(ctx, args, os.Stdout, os.Stderr)
	case "watch":
		exitCode = commands.RunWatch(ctx, args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
		exitCode = commands.ExitSuccess
	case "-v", "--version":
		fmt.Println("synsectl version " + version)
		exitCode = commands.ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "synsectl: unknown command %q\n", cmd)
		printUsage()
		exitCode = commands.ExitUsage
	}

	os.Exit(exitCode)
}

func printUsage() {
	fmt.Println(`synsectl - Synse Server command line client

Usage:
  synsectl <command> [options] [args...]

Commands:
  status       Check whether the server is reachable and healthy
  version      Show the server version and API version
  config       Dump the server's active configuration
  scan         List the devices the server exposes
  tags         List device tags
  info         Show the full record for one device
  read         Read current values from devices
  readcache    Replay the server's reading cache
  write        Write to a device (async by default, -wait to block)
  transaction  Show a write transaction, or list all transaction IDs
  plugins      List plugins, show one plugin, or show plugin health
  watch        Stream live readings over the WebSocket API

Connection options (all commands):
  -config  path to the synsectl config file
  -server  Synse Server address (host or host:port)
  -timeout request timeout in seconds

Options:
  -h, --help     Show this help message
  -v, --version  Show version information

For command-specific help, run:
  synsectl <command> -h`)
}
