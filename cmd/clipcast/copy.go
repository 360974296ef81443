package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCopyCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy stdin to the local clipboard (like pbcopy)",
		Long: `Reads stdin and writes it to the local clipboard through the configured
provider. Useful for piping and for verifying a --write-clipboard-cmd before
handing it to client/server.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runCopy(cmd, v) },
	}

	addClipboardFlags(cmd, "xclip -selection clipboard -o", "xclip -selection clipboard")
	addConfigFlag(cmd)

	return cmd
}

func runCopy(cmd *cobra.Command, v *viper.Viper) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	provider, err := newProvider(v)
	if err != nil {
		return err
	}
	return provider.Write(cmd.Context(), string(data))
}
