// Package clipboard provides access to the local system clipboard.
//
// The default provider shells out to configurable read/write commands (xclip,
// wl-paste, pbcopy, ...), which works over SSH and in containers where no
// display bindings exist. The native provider uses golang.design/x/clipboard
// when a display environment is available.
package clipboard

import "context"

// Provider reads and writes the local clipboard. Implementations are invoked
// serially from a single session goroutine and need no internal locking.
type Provider interface {
	// Read returns the current clipboard content. An empty clipboard is
	// "", not an error.
	Read(ctx context.Context) (string, error)

	// Write replaces the clipboard content.
	Write(ctx context.Context, content string) error
}
