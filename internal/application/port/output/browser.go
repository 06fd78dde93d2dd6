package output

import (
	"context"

	"browsemind/internal/domain/entity"
)

// BrowserPort owns the browser process and hands out pages.
type BrowserPort interface {
	NewPage(ctx context.Context) (PagePort, error)
	Close()
}

// PagePort is one browser session the agent drives. Element-addressed calls
// resolve the ID through the per-session browsemind-id attribute assigned
// during the last Observe.
type PagePort interface {
	// Observe waits for the page to settle, assigns stable per-element IDs
	// and reduces the page to title, visible text and the element list.
	Observe(ctx context.Context) (entity.Observation, error)

	Navigate(ctx context.Context, url string) error
	TypeInto(ctx context.Context, elementID int, text string) error
	PressEnter(ctx context.Context, elementID int) error
	Click(ctx context.Context, elementID int) error

	// FullText returns the page's complete visible text.
	FullText(ctx context.Context) (string, error)

	Close() error
}
