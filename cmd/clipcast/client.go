package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipcast/internal/session"
	"go.klb.dev/clipcast/internal/tunnel"
	"go.klb.dev/clipcast/internal/wire"
)

func newClientCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "client",
		Short: "Connect to a remote host and keep clipboards in sync",
		Long: `Spawns an ssh tunnel to HOST, starts "clipcast server" on the far side,
and syncs the local clipboard with the remote one until killed. Any failure —
tunnel death, protocol violation, unresponsive peer — tears the session down
and a new tunnel is dialed after a fixed backoff, forever.

Config file search order:
  /etc/clipcast/clipcast.toml
  $HOME/.config/clipcast/clipcast.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → CLIPCAST_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runClient(cmd.Context(), v) },
	}

	addClipboardFlags(cmd, "pbpaste", "pbcopy")
	f := cmd.Flags()
	f.String("host", "", "ssh destination to sync with")
	f.String("ssh-args", "", "extra ssh arguments (shell-quoted string)")
	f.String("remote-server-cmd", "clipcast", "clipcast binary name or path on the remote host")
	f.String("remote-write-clipboard-cmd", "xclip -selection clipboard", "remote clipboard write command")
	f.String("remote-read-clipboard-cmd", "xclip -selection clipboard -o", "remote clipboard read command")
	f.Duration("poll-interval", 500*time.Millisecond, "how often to read the clipboard")
	f.Duration("ping-interval", 3*time.Second, "how often to probe the peer")
	f.Duration("pong-timeout", 10*time.Second, "give up on a silent peer after this long")
	f.Duration("send-timeout", wire.DefaultSendTimeout, "bound on every outbound write")
	f.Duration("reconnect-backoff", session.DefaultBackoff, "sleep between connection attempts")
	_ = cmd.MarkFlagRequired("host")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runClient(ctx context.Context, v *viper.Viper) error {
	setupLogging(v)

	provider, err := newProvider(v)
	if err != nil {
		return err
	}

	cfg := session.DefaultConfig()
	cfg.PollInterval = v.GetDuration("poll-interval")
	cfg.PingInterval = v.GetDuration("ping-interval")
	cfg.PongTimeout = v.GetDuration("pong-timeout")
	cfg.SendTimeout = v.GetDuration("send-timeout")

	opts := tunnel.Options{
		Host:            v.GetString("host"),
		SSHArgs:         v.GetString("ssh-args"),
		RemoteServerCmd: v.GetString("remote-server-cmd"),
		RemoteWriteCmd:  v.GetString("remote-write-clipboard-cmd"),
		RemoteReadCmd:   v.GetString("remote-read-clipboard-cmd"),
	}

	slog.Info("clipcast client starting",
		"version", Version,
		"host", opts.Host,
		"ping_interval", cfg.PingInterval,
		"pong_timeout", cfg.PongTimeout,
	)

	sv := &session.Supervisor{
		Dial: func(ctx context.Context) (*wire.Conn, io.Closer, error) {
			t, err := tunnel.Dial(ctx, opts)
			if err != nil {
				return nil, nil, err
			}
			return wire.New(t.Stdout, t.Stdin, cfg.SendTimeout), t, nil
		},
		Provider: provider,
		Config:   cfg,
		Backoff:  v.GetDuration("reconnect-backoff"),
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = sv.Run(ctx)
	if errors.Is(err, context.Canceled) {
		slog.Info("shutting down")
		return nil
	}
	return err
}
