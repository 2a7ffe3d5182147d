package application

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"sync"

	"github.com/dfryer1193/postbrowser/blog/domain"
	"github.com/rs/zerolog/log"
)

const (
	manifestPath = "posts.json"

	unsupportedContextMessage = `<div style="color: red; text-align: center;">` +
		`Please run this site using a local server.<br>` +
		`Try <code>postbrowser serve</code> and visit ` +
		`<a href="http://localhost:8080" style="color: inherit;">http://localhost:8080</a>` +
		`</div>`
)

// BrowserOptions tunes how the post list is populated.
type BrowserOptions struct {
	// OrderedList buffers title lookups and flushes them in manifest order
	// once every lookup has settled. When false, entries are appended as
	// each lookup completes.
	OrderedList bool
}

// PostBrowser is the single controller behind the post list and post pages.
type PostBrowser struct {
	fetcher  domain.Fetcher
	surface  domain.Surface
	markdown MarkdownRenderer
	opts     BrowserOptions

	// Service lifecycle context - cancelled when Close() is called
	ctx    context.Context
	cancel context.CancelFunc
	wg     *sync.WaitGroup

	mu         sync.Mutex
	state      domain.ViewState
	disabled   bool
	generation uint64
	manifest   domain.Manifest
}

func NewPostBrowser(fetcher domain.Fetcher, surface domain.Surface, markdown MarkdownRenderer, opts BrowserOptions) *PostBrowser {
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}
	return &PostBrowser{
		fetcher:  fetcher,
		surface:  surface,
		markdown: markdown,
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
		wg:       &wg,
		state:    domain.ViewList,
	}
}

// Close cancels in-flight fetches and waits for background workers
func (b *PostBrowser) Close() error {
	b.cancel()
	b.wg.Wait()

	return nil
}

// Init runs the execution context check. When the context cannot fetch
// resources an instructional message is shown and the browser stays inert.
func (b *PostBrowser) Init(contextErr error) error {
	if contextErr == nil {
		b.applyState(domain.ViewList)
		return nil
	}

	b.mu.Lock()
	b.disabled = true
	b.mu.Unlock()

	log.Warn().Err(contextErr).Msg("Post browser disabled")
	b.surface.SetHTML(domain.AnchorPostContent, unsupportedContextMessage)
	// the message lives in the post page, so it has to be the visible one
	b.surface.SetHidden(domain.AnchorPostListPage, true)
	b.surface.SetHidden(domain.AnchorPostPage, false)

	return fmt.Errorf("%w: %v", domain.ErrUnsupportedContext, contextErr)
}

// State returns the currently visible view.
func (b *PostBrowser) State() domain.ViewState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Manifest returns the identifiers loaded for this session.
func (b *PostBrowser) Manifest() domain.Manifest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.manifest
}

func (b *PostBrowser) isDisabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disabled
}

// Start loads the manifest in the background. Entries show up on the
// surface as they resolve.
func (b *PostBrowser) Start() {
	b.wg.Go(func() {
		if err := b.LoadManifest(b.ctx); err != nil {
			log.Error().Err(err).Msg("Post list unavailable")
		}
	})
}

// LoadManifest fetches the manifest and resolves a title for every entry.
// Entry lookups run concurrently and fail independently. It returns once
// every lookup has settled.
func (b *PostBrowser) LoadManifest(ctx context.Context) error {
	if b.isDisabled() {
		return domain.ErrUnsupportedContext
	}

	manifest, err := b.fetchManifest(ctx)
	if err != nil {
		mErr := &domain.ManifestError{Err: err}
		log.Error().Err(err).Msg("Failed to load manifest")
		b.surface.SetHTML(domain.AnchorPostList, errorParagraph("Failed to load posts.json: "+err.Error()))
		return mErr
	}

	b.mu.Lock()
	b.manifest = manifest
	b.mu.Unlock()

	ctx, stop := b.linkContext(ctx)
	defer stop()

	results := make([]*domain.ListEntry, len(manifest))
	var entries sync.WaitGroup
	for i, id := range manifest {
		entries.Go(func() {
			entry, err := b.resolveEntry(ctx, id)
			if err != nil {
				log.Error().Err(err).Str("post", id).Msg("Failed to load post")
				return
			}

			if b.opts.OrderedList {
				results[i] = entry
				return
			}
			b.surface.AppendEntry(*entry)
		})
	}
	entries.Wait()

	if b.opts.OrderedList {
		for _, entry := range results {
			if entry != nil {
				b.surface.AppendEntry(*entry)
			}
		}
	}

	log.Info().Int("posts", len(manifest)).Msg("Loaded manifest")
	return nil
}

func (b *PostBrowser) fetchManifest(ctx context.Context) (domain.Manifest, error) {
	raw, err := b.fetcher.Fetch(ctx, manifestPath)
	if err != nil {
		return nil, err
	}

	var manifest domain.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	return manifest, nil
}

func (b *PostBrowser) resolveEntry(ctx context.Context, id string) (*domain.ListEntry, error) {
	content, err := b.fetcher.Fetch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post %s: %w", id, err)
	}

	return &domain.ListEntry{
		ID:    id,
		Title: extractPostTitle(content, id),
	}, nil
}

// SelectPost fetches and renders one post into the detail view. Only the
// most recently started selection may write its result; earlier ones that
// finish late are dropped.
func (b *PostBrowser) SelectPost(ctx context.Context, id string) (*domain.Post, error) {
	b.mu.Lock()
	if b.disabled {
		b.mu.Unlock()
		return nil, domain.ErrUnsupportedContext
	}
	b.generation++
	gen := b.generation
	b.surface.SetHTML(domain.AnchorPostContent, fmt.Sprintf("<p>Loading <b>%s</b>...</p>", html.EscapeString(id)))
	b.mu.Unlock()

	ctx, stop := b.linkContext(ctx)
	defer stop()

	post, err := b.loadPost(ctx, id)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.generation {
		log.Debug().Str("post", id).Uint64("generation", gen).Msg("Discarding stale selection")
		return post, err
	}

	if err != nil {
		log.Error().Err(err).Str("post", id).Msg("Failed to load post")
		b.surface.SetHTML(domain.AnchorPostContent, errorParagraph(err.Error()))
	} else {
		b.surface.SetHTML(domain.AnchorPostContent, post.HTML)
	}

	b.setStateLocked(domain.ViewDetail)
	b.surface.ScrollToTop()

	return post, err
}

func (b *PostBrowser) loadPost(ctx context.Context, id string) (*domain.Post, error) {
	content, err := b.fetcher.Fetch(ctx, id)
	if err != nil {
		return nil, &domain.PostFetchError{ID: id, Err: err}
	}

	result, err := b.markdown.Render(content)
	if err != nil {
		return nil, &domain.PostFetchError{ID: id, Err: err}
	}

	title := result.Title
	if title == "" {
		title = id
	}

	return &domain.Post{
		ID:      id,
		Content: content,
		Title:   title,
		HTML:    string(result.HTMLContent),
	}, nil
}

// GoBack returns to the list view. Calling it while the list is already
// shown only scrolls.
func (b *PostBrowser) GoBack() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disabled {
		return
	}

	b.setStateLocked(domain.ViewList)
	b.surface.ScrollToTop()
}

func (b *PostBrowser) applyState(state domain.ViewState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setStateLocked(state)
}

func (b *PostBrowser) setStateLocked(state domain.ViewState) {
	b.state = state
	b.surface.SetHidden(domain.AnchorPostListPage, state != domain.ViewList)
	b.surface.SetHidden(domain.AnchorPostPage, state != domain.ViewDetail)
}

// linkContext derives a context that ends with either the caller's context
// or the browser's lifecycle.
func (b *PostBrowser) linkContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(b.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func errorParagraph(msg string) string {
	return fmt.Sprintf(`<p style="color:red;">%s</p>`, html.EscapeString(msg))
}
