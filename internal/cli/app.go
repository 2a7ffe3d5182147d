package cli

import (
	"context"
	"errors"

	"github.com/dfryer1193/postbrowser/blog/application"
	"github.com/dfryer1193/postbrowser/blog/domain"
	"github.com/dfryer1193/postbrowser/blog/source"
	"github.com/dfryer1193/postbrowser/blog/view"
	"github.com/dfryer1193/postbrowser/internal/config"
)

type app struct {
	page    *view.Page
	browser *application.PostBrowser
}

// buildApp resolves the configured source and runs the browser's init check.
// An unsupported source leaves a disabled browser; callers decide whether
// that is fatal.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	fetcher, resolveErr := source.Resolve(ctx, cfg.SourceURL, source.Options{Timeout: cfg.SourceTimeout})
	if resolveErr != nil && !errors.Is(resolveErr, domain.ErrUnsupportedContext) {
		return nil, resolveErr
	}

	renderOpts := application.DefaultRenderOptions()
	renderOpts.LinkBase = cfg.LinkBase

	page := view.NewPage(cfg.SiteTitle)
	browser := application.NewPostBrowser(
		fetcher,
		page,
		application.NewMarkdownRenderer(renderOpts),
		application.BrowserOptions{OrderedList: cfg.OrderedList},
	)

	return &app{page: page, browser: browser}, browser.Init(resolveErr)
}
