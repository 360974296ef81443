package clipboard

import (
	"context"
	"fmt"

	xclipboard "golang.design/x/clipboard"
)

// NewNative returns a Provider backed by the golang.design/x/clipboard
// bindings. It fails on headless hosts without a display environment; callers
// fall back to the command provider.
func NewNative() (Provider, error) {
	if err := xclipboard.Init(); err != nil {
		return nil, fmt.Errorf("clipboard: native backend unavailable: %w", err)
	}
	return nativeProvider{}, nil
}

type nativeProvider struct{}

func (nativeProvider) Read(_ context.Context) (string, error) {
	return string(xclipboard.Read(xclipboard.FmtText)), nil
}

func (nativeProvider) Write(_ context.Context, content string) error {
	xclipboard.Write(xclipboard.FmtText, []byte(content))
	return nil
}
