// Package rod implements the browser ports on go-rod.
package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"browsemind/internal/application/port/output"
	"browsemind/internal/domain/entity"
	"browsemind/internal/infrastructure/browser/htmltext"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)
var _ output.PagePort = (*Page)(nil)

type BrowserConfig struct {
	Headless          bool
	SlowMotion        time.Duration
	NavigationTimeout time.Duration
	ActionTimeout     time.Duration
	NoSandbox         bool
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:          false,
		SlowMotion:        500 * time.Millisecond,
		NavigationTimeout: 30 * time.Second,
		ActionTimeout:     30 * time.Second,
		NoSandbox:         true,
	}
}

// BrowserAdapter owns the browser process.
type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	cfg      BrowserConfig
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(url).
		Context(ctx).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		cfg:      cfg,
	}, nil
}

func (b *BrowserAdapter) NewPage(ctx context.Context) (output.PagePort, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return &Page{page: page, cfg: b.cfg}, nil
}

func (b *BrowserAdapter) Close() {
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

// Page is one browser session. Element-addressed operations resolve IDs via
// the browsemind-id attribute assigned during the last Observe.
type Page struct {
	page *rod.Page
	cfg  BrowserConfig
}

// assignIDs tags every interactable element with a sequential browsemind-id,
// starting at 1 in document order.
const assignIDs = `() => {
	const els = document.querySelectorAll('a, button, input, textarea, select');
	els.forEach((el, index) => {
		el.setAttribute('` + htmltext.IDAttr + `', index + 1);
	});
}`

func (p *Page) Observe(ctx context.Context) (entity.Observation, error) {
	page := p.page.Context(ctx)

	if err := page.WaitLoad(); err != nil {
		return entity.Observation{}, fmt.Errorf("failed to wait for page load: %w", err)
	}

	if _, err := page.Eval(assignIDs); err != nil {
		return entity.Observation{}, fmt.Errorf("failed to assign element ids: %w", err)
	}

	info, err := page.Info()
	if err != nil {
		return entity.Observation{}, fmt.Errorf("failed to get page info: %w", err)
	}

	rawHTML, err := page.HTML()
	if err != nil {
		return entity.Observation{}, fmt.Errorf("failed to get page HTML: %w", err)
	}

	text, elements := htmltext.Reduce(rawHTML)
	return entity.Observation{
		Title:    info.Title,
		Text:     text,
		Elements: elements,
	}, nil
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx).Timeout(p.cfg.NavigationTimeout)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to wait for page load: %w", err)
	}
	page.WaitIdle(5 * time.Second)
	return nil
}

func (p *Page) TypeInto(ctx context.Context, elementID int, text string) error {
	el, err := p.element(ctx, elementID)
	if err != nil {
		return err
	}

	// Clear any existing value first.
	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}

	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed on element %d: %w", elementID, err)
	}
	return nil
}

func (p *Page) PressEnter(ctx context.Context, elementID int) error {
	el, err := p.element(ctx, elementID)
	if err != nil {
		return err
	}
	if err := el.Input("\r"); err != nil {
		return fmt.Errorf("failed to press Enter on element %d: %w", elementID, err)
	}
	p.page.WaitIdle(1 * time.Second)
	return nil
}

func (p *Page) Click(ctx context.Context, elementID int) error {
	el, err := p.element(ctx, elementID)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed on element %d: %w", elementID, err)
	}
	p.page.WaitIdle(2 * time.Second)
	return nil
}

func (p *Page) FullText(ctx context.Context) (string, error) {
	page := p.page.Context(ctx).Timeout(p.cfg.ActionTimeout)
	body, err := page.Element("body")
	if err != nil {
		return "", fmt.Errorf("body not found: %w", err)
	}
	text, err := body.Text()
	if err != nil {
		return "", fmt.Errorf("failed to get page text: %w", err)
	}
	return text, nil
}

func (p *Page) Close() error {
	return p.page.Close()
}

func (p *Page) element(ctx context.Context, elementID int) (*rod.Element, error) {
	selector := fmt.Sprintf(`[%s="%d"]`, htmltext.IDAttr, elementID)
	el, err := p.page.Context(ctx).Timeout(p.cfg.ActionTimeout).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("element %d not found: %w", elementID, err)
	}
	return el, nil
}
