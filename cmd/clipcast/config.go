package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipcast/internal/clipboard"
)

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and CLIPCAST_* env var prefix.
//
// Precedence (lowest → highest): defaults → config file → CLIPCAST_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("clipcast")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/clipcast/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(fmt.Sprintf("%s/.config/clipcast", home))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("CLIPCAST")
	// Flag names use dashes but shells cannot export CLIPCAST_LOG-LEVEL;
	// map them so CLIPCAST_LOG_LEVEL and friends resolve.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
	cmd.Flags().String("log-level", "info", "log level: debug|info|warn|error")
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// addClipboardFlags adds the local clipboard provider flags to a command.
func addClipboardFlags(cmd *cobra.Command, readDefault, writeDefault string) {
	f := cmd.Flags()
	f.String("read-clipboard-cmd", readDefault, "command whose stdout is the clipboard content")
	f.String("write-clipboard-cmd", writeDefault, "command that receives new clipboard content on stdin")
	f.Bool("native-clipboard", false, "use the built-in clipboard bindings instead of shell commands")
}

// setupLogging reads logging flags from viper and configures slog.
func setupLogging(v *viper.Viper) {
	resolveLogging(v.GetString("log-format"), v.GetString("log-level"))
}

// newProvider builds the local clipboard provider from viper settings.
func newProvider(v *viper.Viper) (clipboard.Provider, error) {
	if v.GetBool("native-clipboard") {
		return clipboard.NewNative()
	}
	return clipboard.NewCommand(
		v.GetString("read-clipboard-cmd"),
		v.GetString("write-clipboard-cmd"),
	)
}
