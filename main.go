package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/bookreviews/internal/cli"
	"github.com/mrlokans/bookreviews/internal/config"
	"github.com/mrlokans/bookreviews/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// command is implemented by every CLI subcommand.
type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "create-admin":
		cmd = cli.NewCreateAdminCommand()
	case "analyze":
		cmd = cli.NewAnalyzeCommand()
	case "validate-snapshot":
		cmd = cli.NewValidateSnapshotCommand()
	case "version":
		fmt.Printf("%s (%s)\n", Version, Commit)
		return
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve              Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  create-admin       Create an admin account in the stored snapshot\n")
	fmt.Fprintf(os.Stderr, "  analyze            Score text with the review sentiment rules\n")
	fmt.Fprintf(os.Stderr, "  validate-snapshot  Check a snapshot file and summarize its contents\n")
	fmt.Fprintf(os.Stderr, "  version            Print the build version\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
