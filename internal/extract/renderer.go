package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	DefaultNavTimeout  = 15 * time.Second
	DefaultSettleDelay = 3 * time.Second
)

// ChromeRenderer launches a fresh headless Chrome per page so no state leaks between pages.
type ChromeRenderer struct {
	NavTimeout  time.Duration
	SettleDelay time.Duration
	AllocOpts   []chromedp.ExecAllocatorOption
}

func NewChromeRenderer(navTimeout, settleDelay time.Duration) *ChromeRenderer {
	return &ChromeRenderer{
		NavTimeout:  navTimeout,
		SettleDelay: settleDelay,
		AllocOpts:   chromedp.DefaultExecAllocatorOptions[:],
	}
}

// Render returns the visible text of the page body after the settle delay.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.AllocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	// Cancelling the browser context closes the browser process.
	defer cancelBrowser()

	// Start the browser on the long-lived context; running the first action
	// under the navigation timeout would tie the browser's lifetime to it.
	if err := chromedp.Run(browserCtx); err != nil {
		return "", fmt.Errorf("launch browser: %w", err)
	}

	navCtx, cancelNav := context.WithTimeout(browserCtx, r.NavTimeout)
	err := chromedp.Run(navCtx, chromedp.Navigate(url))
	cancelNav()
	if err != nil {
		return "", fmt.Errorf("navigate %s: %w", url, err)
	}

	var body string
	if err := chromedp.Run(browserCtx,
		chromedp.Sleep(r.SettleDelay),
		chromedp.Text("body", &body, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("extract text %s: %w", url, err)
	}
	return body, nil
}
