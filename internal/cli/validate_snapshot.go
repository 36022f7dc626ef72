package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/bookreviews/internal/config"
	"github.com/mrlokans/bookreviews/internal/entities"
)

type ValidateSnapshotCommand struct {
	File string

	Output io.Writer
}

func NewValidateSnapshotCommand() *ValidateSnapshotCommand {
	return &ValidateSnapshotCommand{Output: os.Stdout}
}

func (cmd *ValidateSnapshotCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("validate-snapshot", flag.ExitOnError)

	fs.StringVar(&cmd.File, "file", config.DefaultDataPath, "Path to the JSON snapshot file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s validate-snapshot [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Check that a snapshot file can be loaded and report what it contains.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ValidateSnapshotCommand) Run() error {
	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.File, err)
	}

	snap, err := entities.DecodeSnapshot(data)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.File, err)
	}

	var (
		now      = entities.Now()
		upcoming int
		orphans  int
		next     *entities.Book
	)
	for i, b := range snap.Books {
		if !b.IsUpcoming(now) {
			continue
		}
		upcoming++
		if next == nil || b.ReleaseAt.Before(*next.ReleaseAt) {
			next = &snap.Books[i]
		}
	}
	books := make(map[string]struct{}, len(snap.Books))
	for _, b := range snap.Books {
		books[b.ID] = struct{}{}
	}
	for _, r := range snap.Reviews {
		if _, ok := books[r.BookID]; !ok {
			orphans++
		}
	}

	fmt.Fprintf(cmd.Output, "%s: valid\n", cmd.File)
	fmt.Fprintf(cmd.Output, "  users:   %d\n", len(snap.Users))
	fmt.Fprintf(cmd.Output, "  books:   %d (%d upcoming)\n", len(snap.Books), upcoming)
	fmt.Fprintf(cmd.Output, "  reviews: %d\n", len(snap.Reviews))
	if next != nil {
		fmt.Fprintf(cmd.Output, "  next release: %q at %s\n", next.Title, next.ReleaseAt.Time().Format(time.RFC3339))
	}
	if orphans > 0 {
		fmt.Fprintf(cmd.Output, "  warning: %d review(s) reference unknown books\n", orphans)
	}
	return nil
}
