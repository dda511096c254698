// Command reqkit builds, and optionally sends, a request described by an
// endpoint definition file against a configured environment.
//
//	reqkit -config reqkit.yml -env staging -endpoint create-user.yaml
//	reqkit -config reqkit.yml -env staging -endpoint create-user.yaml -send
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kbukum/reqkit/version"
)

type cliFlags struct {
	configPath   string
	envFile      string
	environment  string
	endpointPath string
	send         bool
	showVersion  bool
}

func main() {
	flags := parseFlags(os.Args[1:])

	if flags.showVersion {
		fmt.Println(version.Get())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "reqkit: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func parseFlags(args []string) cliFlags {
	var f cliFlags
	fs := flag.NewFlagSet(serviceName, flag.ExitOnError)
	fs.StringVar(&f.configPath, "config", os.Getenv("REQKIT_CONFIG"), "Path to configuration file")
	fs.StringVar(&f.envFile, "env-file", "", "Path to a .env file")
	fs.StringVar(&f.environment, "env", "", "Environment to target (defaults to default_environment)")
	fs.StringVar(&f.endpointPath, "endpoint", "", "Path to an endpoint definition file")
	fs.BoolVar(&f.send, "send", false, "Send the request instead of printing it")
	fs.BoolVar(&f.showVersion, "version", false, "Show version information")
	_ = fs.Parse(args)
	return f
}
