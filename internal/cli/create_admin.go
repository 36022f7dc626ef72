package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/bookreviews/internal/config"
	"github.com/mrlokans/bookreviews/internal/database"
	"github.com/mrlokans/bookreviews/internal/persistence"
	"github.com/mrlokans/bookreviews/internal/store"
)

type CreateAdminCommand struct {
	Name         string
	Email        string
	Password     string
	DataPath     string
	DatabasePath string

	Output io.Writer
}

func NewCreateAdminCommand() *CreateAdminCommand {
	return &CreateAdminCommand{Output: os.Stdout}
}

func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)

	fs.StringVar(&cmd.Name, "name", "Admin", "Display name of the admin")
	fs.StringVar(&cmd.Email, "email", "", "Email address (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password (required)")
	fs.StringVar(&cmd.DataPath, "data", config.DefaultDataPath, "Path to the JSON snapshot file")
	fs.StringVar(&cmd.DatabasePath, "db", "", "Use the sqlite snapshot table at this path instead of the JSON file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an admin account in the stored snapshot. Existing admins are left unchanged.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-admin -email root@example.com -password s3cret\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s create-admin -email root@example.com -password s3cret -db ./data/bookreviews.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Email == "" || cmd.Password == "" {
		fs.Usage()
		return fmt.Errorf("email and password are required")
	}

	return nil
}

func (cmd *CreateAdminCommand) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var gateway store.Gateway
	if cmd.DatabasePath != "" {
		db, err := database.NewDatabase(cmd.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		gateway = database.NewSnapshotRepository(db.DB, database.DefaultSnapshotKey)
	} else {
		gateway = persistence.NewFileGateway(cmd.DataPath)
	}

	s := store.New(gateway, nil)
	if err := s.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	admin, created, err := s.EnsureAdmin(cmd.Name, cmd.Email, cmd.Password)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	if created {
		fmt.Fprintf(cmd.Output, "Created admin %s (%s)\n", admin.Email, admin.ID)
	} else {
		fmt.Fprintf(cmd.Output, "Admin %s already exists\n", admin.Email)
	}
	return nil
}
