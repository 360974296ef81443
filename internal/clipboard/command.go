package clipboard

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/google/shlex"
)

// CommandProvider accesses the clipboard by running external commands. The
// read command's stdout is the clipboard content; the write command receives
// the new content on stdin and its stdout is discarded.
type CommandProvider struct {
	readArgv  []string
	writeArgv []string
}

// NewCommand builds a CommandProvider from read/write command lines. The
// lines are split with shell word rules, so quoted arguments survive:
// `xclip -selection clipboard -o`.
func NewCommand(readCmd, writeCmd string) (*CommandProvider, error) {
	readArgv, err := splitCommand(readCmd)
	if err != nil {
		return nil, fmt.Errorf("read command: %w", err)
	}
	writeArgv, err := splitCommand(writeCmd)
	if err != nil {
		return nil, fmt.Errorf("write command: %w", err)
	}
	return &CommandProvider{readArgv: readArgv, writeArgv: writeArgv}, nil
}

func splitCommand(cmdline string) ([]string, error) {
	argv, err := shlex.Split(cmdline)
	if err != nil {
		return nil, fmt.Errorf("clipboard: parse %q: %w", cmdline, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("clipboard: empty command")
	}
	return argv, nil
}

// Read runs the read command and returns its stdout. Output that is not
// valid UTF-8 yields "", not an error — a binary clipboard is treated as
// empty rather than poisoning the session.
func (p *CommandProvider) Read(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, p.readArgv[0], p.readArgv[1:]...)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("clipboard: read: %w", err)
	}
	if !utf8.Valid(out) {
		return "", nil
	}
	return string(out), nil
}

// Write runs the write command with content on its stdin.
func (p *CommandProvider) Write(ctx context.Context, content string) error {
	cmd := exec.CommandContext(ctx, p.writeArgv[0], p.writeArgv[1:]...)
	cmd.Stdin = strings.NewReader(content)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("clipboard: write: %w", err)
	}
	return nil
}
