package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evcraddock/folio/internal/email"
	"github.com/evcraddock/folio/internal/logging"
	"github.com/evcraddock/folio/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP API server on all interfaces. The comments file is created if it does not exist.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (default: FOLIO_PORT or 5000)")

	return cmd
}

func runServe(cmd *cobra.Command, port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Port = port
	}

	logging.Setup(os.Stdout, cfg.DevMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	mail := cfg.Mail()
	if !mail.IsConfigured() {
		slog.Warn("SMTP credentials not configured, contact form messages will not be emailed")
	}

	srv, err := web.NewServer(ctx, store, email.NewMailer(mail, cfg.DevMode), web.Options{
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		return err
	}

	slog.Info("starting folio", "storage", cfg.Storage, "comments_file", cfg.CommentsFile, "port", cfg.Port)
	return srv.Run(ctx, fmt.Sprintf("0.0.0.0:%d", cfg.Port))
}
