package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipcast/internal/session"
	"go.klb.dev/clipcast/internal/wire"
)

func newServerCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the responder side of a tunnel (stdio)",
		Long: `Runs one sync session over this process's own stdin/stdout. This is the
command the client starts on the remote host through the ssh tunnel; it exits
when the tunnel closes and a fresh one is spawned on reconnect.

Logs go to stderr only — stdout is the wire.

Config file search order:
  /etc/clipcast/clipcast.toml
  $HOME/.config/clipcast/clipcast.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → CLIPCAST_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runServer(cmd.Context(), v) },
	}

	addClipboardFlags(cmd, "xclip -selection clipboard -o", "xclip -selection clipboard")
	f := cmd.Flags()
	f.Duration("poll-interval", 500*time.Millisecond, "how often to read the clipboard")
	f.Duration("send-timeout", wire.DefaultSendTimeout, "bound on every outbound write")
	f.Bool("ack", true, "acknowledge applied clipboard updates")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runServer(ctx context.Context, v *viper.Viper) error {
	setupLogging(v)

	provider, err := newProvider(v)
	if err != nil {
		return err
	}

	cfg := session.ResponderConfig()
	cfg.PollInterval = v.GetDuration("poll-interval")
	cfg.SendTimeout = v.GetDuration("send-timeout")
	cfg.Ack = v.GetBool("ack")

	slog.Info("clipcast server starting", "version", Version, "ack", cfg.Ack)

	conn := wire.New(os.Stdin, os.Stdout, cfg.SendTimeout)
	err = session.New(cfg, conn, provider).Run(ctx)
	if errors.Is(err, session.ErrConnectionClosed) {
		slog.Info("session ended", "reason", err)
		return nil
	}
	slog.Error("session failed", "reason", err)
	return err
}
