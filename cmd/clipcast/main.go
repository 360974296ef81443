// clipcast: clipboard sync over an ssh tunnel.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/clipcast/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "clipcast",
		Short: "Clipboard sync over an ssh tunnel",
		Long: `clipcast keeps the clipboards of a local machine and a remote host in
sync over a single ssh connection. Run "clipcast client --host HOST" locally:
it starts "clipcast server" on the remote host through the tunnel, and the two
exchange clipboard updates as newline-delimited JSON over the tunnel's stdio.
The client reconnects automatically whenever the tunnel dies.

Clipboard access is pluggable: any pair of shell commands works
(xclip, xsel, wl-copy/wl-paste, pbcopy/pbpaste, tmux load-buffer, ...).

Config file search order (first found wins):
  /etc/clipcast/clipcast.toml
  $HOME/.config/clipcast/clipcast.toml
  path supplied via --config

All flags can be set via CLIPCAST_<FLAG> env vars or config-file keys.
See "clipcast client --help" for the full flag reference.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newClientCmd(),
		newServerCmd(),
		newCopyCmd(),
		newPasteCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("clipcast %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(formatStr, levelStr string) {
	logging.Setup(logging.ParseFormat(formatStr), logging.ParseLevel(levelStr))
}
