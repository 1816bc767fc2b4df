// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/journeymanhq/dataprotect/cmd/app/commands"
	"github.com/journeymanhq/dataprotect/internal/app"
	"github.com/journeymanhq/dataprotect/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Compliance record keeping service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "generate-encryption-key",
				Usage: "Generate random key material for field encryption",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunGenerateEncryptionKey(os.Stdout, cmd.String("format"))
				},
			},
			{
				Name:  "create-user",
				Usage: "Create a new user record",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Required: true,
						Usage:    "Username for the new user",
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "Email address for the new user",
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "Password for the new user",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					container := app.NewContainer(config.Load())
					logger := container.Logger()
					defer closeContainer(container, logger)

					useCase, err := container.UserUseCase()
					if err != nil {
						return fmt.Errorf("failed to initialize user use case: %w", err)
					}

					return commands.RunCreateUser(
						ctx,
						useCase,
						logger,
						os.Stdout,
						cmd.String("username"),
						cmd.String("email"),
						cmd.String("password"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "version",
				Usage: "Print the application version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Fprintln(os.Stdout, version)
					return nil
				},
			},
			{
				Name:  "clean-expired-data",
				Usage: "Delete retained records past their retention window",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "category",
						Aliases: []string{"c"},
						Value:   "",
						Usage:   "Data category to scan (omit to scan all scannable categories)",
					},
					&cli.BoolFlag{
						Name:    "dry-run",
						Aliases: []string{"n"},
						Value:   false,
						Usage:   "Show how many records would be deleted without deleting",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					container := app.NewContainer(config.Load())
					logger := container.Logger()
					defer closeContainer(container, logger)

					useCase, err := container.RetentionUseCase()
					if err != nil {
						return fmt.Errorf("failed to initialize retention use case: %w", err)
					}

					return commands.RunCleanExpiredData(
						ctx,
						useCase,
						logger,
						os.Stdout,
						cmd.String("category"),
						cmd.Bool("dry-run"),
						cmd.String("format"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

// closeContainer closes container resources and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Close(context.Background()); err != nil {
		logger.Error("failed to close container", slog.Any("error", err))
	}
}
