package documents

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

var ErrRendererUnavailable = errors.New("pdf renderer unavailable: chromium not installed")

// Renderer converts a filled HTML template into the stored file format.
type Renderer interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
	Extension() string
	ContentType() string
}

// NewRenderer returns the renderer for format "pdf" or "html".
func NewRenderer(format string) Renderer {
	if format == "html" {
		return HTMLRenderer{}
	}
	return &ChromeRenderer{Timeout: 30 * time.Second}
}

// HTMLRenderer stores the filled template as-is.
type HTMLRenderer struct{}

func (HTMLRenderer) Render(_ context.Context, html []byte) ([]byte, error) { return html, nil }
func (HTMLRenderer) Extension() string { return "html" }
func (HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

// ChromeRenderer prints the page to A4 PDF with headless Chromium.
type ChromeRenderer struct {
	Timeout time.Duration
}

func (*ChromeRenderer) Extension() string { return "pdf" }
func (*ChromeRenderer) ContentType() string { return "application/pdf" }

func chromiumAvailable() bool {
	for _, bin := range []string{"chromium-browser", "chromium", "google-chrome", "headless-shell"} {
		if _, err := exec.LookPath(bin); err == nil {
			return true
		}
	}
	return false
}

func (r *ChromeRenderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	if !chromiumAvailable() {
		return nil, ErrRendererUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	dataURL := "data:text/html;charset=utf-8," + url.PathEscape(string(html))

	var pdf []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.8).
				WithMarginBottom(0.8).
				WithMarginLeft(1.0).
				WithMarginRight(0.8).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome pdf generation: %w", err)
	}

	return pdf, nil
}
