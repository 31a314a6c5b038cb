package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nexus-chat/internal/chat"
	"nexus-chat/internal/chat/terminal"
	"nexus-chat/internal/config"
	"nexus-chat/internal/telemetry"
)

var (
	serverURL string
	plain     bool
	verbose   bool
	width     int
)

var rootCmd = &cobra.Command{
	Use:   "nexus-chat",
	Short: "Chat with the NEXUS assistant from your terminal",
	Long: `Chat with the NEXUS assistant through a running nexus chat proxy.

The conversation lives only as long as this process. Type /help for commands.`,
	SilenceUsage: true,
	RunE:         runChat,
}

func init() {
	cfg := config.LoadClient()
	rootCmd.Flags().StringVar(&serverURL, "server", cfg.ServerURL, "Base URL of the chat proxy")
	rootCmd.Flags().BoolVar(&plain, "plain", false, "Disable colors and markdown styling")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log client diagnostics to stderr")
	rootCmd.Flags().IntVar(&width, "width", 100, "Wrap width for assistant replies")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := config.LoadClient()

	var logOut io.Writer = io.Discard
	level := "info"
	if verbose {
		logOut = cmd.ErrOrStderr()
		level = "debug"
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: telemetry.ParseLevel(level)}))

	renderer, err := terminal.NewRenderer(cmd.OutOrStdout(), terminal.Options{Plain: plain, Width: width})
	if err != nil {
		return err
	}

	session := chat.NewSession(chat.NewHTTPTransport(serverURL, cfg.Timeout), renderer, logger)
	logger.Debug("session started", "session_id", session.ID, "server", serverURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return terminal.Run(ctx, cmd.InOrStdin(), session, renderer)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
