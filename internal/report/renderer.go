package report

import (
	"context"
)

// Renderer turns report markup into the final document bytes, for example
// a PDF. Implementations should honor ctx cancellation.
type Renderer interface {
	Render(ctx context.Context, markup []byte) ([]byte, error)
	// Extension is the file extension of the produced document.
	Extension() string
}

// HTMLRenderer returns the markup unchanged.
type HTMLRenderer struct{}

// Render implements Renderer.
func (HTMLRenderer) Render(ctx context.Context, markup []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]byte, len(markup))
	copy(out, markup)
	return out, nil
}

// Extension implements Renderer.
func (HTMLRenderer) Extension() string { return ".html" }
