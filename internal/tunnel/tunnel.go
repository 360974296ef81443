// Package tunnel spawns the remote-shell process that carries a clipcast
// session to the remote host. The child's stdin is the session's outbound
// sink and its stdout the inbound source; the remote end of the tunnel runs
// "clipcast server" wired to the same stream.
package tunnel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/google/shlex"
)

// Options describe one tunnel invocation.
type Options struct {
	// Host is the ssh destination.
	Host string

	// SSHArgs holds extra ssh arguments as one shell-quoted string,
	// e.g. "-p 2222 -o StrictHostKeyChecking=no".
	SSHArgs string

	// RemoteServerCmd is the clipcast binary name or path on the remote host.
	RemoteServerCmd string

	// RemoteWriteCmd and RemoteReadCmd are the clipboard commands passed to
	// the remote server invocation.
	RemoteWriteCmd string
	RemoteReadCmd  string
}

// RemoteCommand builds the command line executed on the remote host. The
// clipboard commands are single-quoted so the remote shell keeps each one as
// a single argument.
func (o Options) RemoteCommand() string {
	return fmt.Sprintf("%s server --write-clipboard-cmd '%s' --read-clipboard-cmd '%s'",
		o.RemoteServerCmd, o.RemoteWriteCmd, o.RemoteReadCmd)
}

// Args builds the full ssh argument vector:
//
//	<ssh-args...> <host> -- "<remote command>"
func (o Options) Args() ([]string, error) {
	var args []string
	if o.SSHArgs != "" {
		extra, err := shlex.Split(o.SSHArgs)
		if err != nil {
			return nil, fmt.Errorf("tunnel: parse ssh args %q: %w", o.SSHArgs, err)
		}
		args = extra
	}
	args = append(args, o.Host, "--", o.RemoteCommand())
	return args, nil
}

// Tunnel is a running ssh child whose stdio carries one session.
type Tunnel struct {
	cmd    *exec.Cmd
	Stdin  io.WriteCloser // outbound sink
	Stdout io.ReadCloser  // inbound source
}

// Dial spawns the tunnel process. The child's stderr passes through to ours
// so ssh prompts and errors stay visible.
func Dial(ctx context.Context, opts Options) (*Tunnel, error) {
	args, err := opts.Args()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, "ssh", args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("tunnel: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("tunnel: stdout pipe: %w", err)
	}

	slog.Info("starting tunnel", "host", opts.Host, "args", args)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("tunnel: start ssh: %w", err)
	}
	return &Tunnel{cmd: cmd, Stdin: stdin, Stdout: stdout}, nil
}

// Close tears the tunnel down: closes the child's stdin, kills the process if
// it is still running, and reaps it. Exit status is irrelevant on teardown.
func (t *Tunnel) Close() error {
	_ = t.Stdin.Close()
	if t.cmd.Process != nil {
		_ = t.cmd.Process.Kill()
	}
	_ = t.cmd.Wait()
	return nil
}
