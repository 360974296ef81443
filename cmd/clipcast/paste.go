package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newPasteCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "paste",
		Short: "Print the local clipboard to stdout (like pbpaste)",
		Long: `Reads the local clipboard through the configured provider and writes it
to stdout. Useful for piping and for verifying a --read-clipboard-cmd before
handing it to client/server.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runPaste(cmd, v) },
	}

	addClipboardFlags(cmd, "xclip -selection clipboard -o", "xclip -selection clipboard")
	addConfigFlag(cmd)

	return cmd
}

func runPaste(cmd *cobra.Command, v *viper.Viper) error {
	provider, err := newProvider(v)
	if err != nil {
		return err
	}
	content, err := provider.Read(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Print(content)
	return nil
}
