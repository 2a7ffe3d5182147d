// Package view holds the in-memory host markup the post browser draws on.
package view

import (
	"fmt"
	"html/template"
	"io"
	"slices"
	"sync"

	"github.com/dfryer1193/postbrowser/blog/domain"
)

var _ domain.Surface = (*Page)(nil)

// Page implements domain.Surface for an HTML document with the fixed anchors
// post-content, post-list-page, post-page, back-btn, back-btn-1 and post-list.
type Page struct {
	mu      sync.Mutex
	title   string
	content map[domain.Anchor]string
	hidden  map[domain.Anchor]bool
	entries []domain.ListEntry
	scroll  bool
}

// NewPage creates a page with the post page hidden and an empty list.
func NewPage(title string) *Page {
	return &Page{
		title:   title,
		content: make(map[domain.Anchor]string),
		hidden: map[domain.Anchor]bool{
			domain.AnchorPostPage: true,
		},
	}
}

func (p *Page) SetHTML(a domain.Anchor, html string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.content[a] = html
	if a == domain.AnchorPostList {
		p.entries = nil
	}
}

func (p *Page) SetHidden(a domain.Anchor, hidden bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hidden[a] = hidden
}

func (p *Page) AppendEntry(e domain.ListEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, e)
}

func (p *Page) ScrollToTop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scroll = true
}

// TakeScroll reports whether a scroll to top was requested since the last call.
func (p *Page) TakeScroll() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	scroll := p.scroll
	p.scroll = false
	return scroll
}

// Snapshot is a copy of the page state.
type Snapshot struct {
	Content map[domain.Anchor]string
	Hidden  map[domain.Anchor]bool
	Entries []domain.ListEntry
}

// HTML returns the inner content of an anchor.
func (s Snapshot) HTML(a domain.Anchor) string {
	return s.Content[a]
}

// IsHidden reports whether an anchor is hidden.
func (s Snapshot) IsHidden(a domain.Anchor) bool {
	return s.Hidden[a]
}

func (p *Page) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := Snapshot{
		Content: make(map[domain.Anchor]string, len(p.content)),
		Hidden:  make(map[domain.Anchor]bool, len(p.hidden)),
		Entries: slices.Clone(p.entries),
	}
	for k, v := range p.content {
		snap.Content[k] = v
	}
	for k, v := range p.hidden {
		snap.Hidden[k] = v
	}
	return snap
}

type pageData struct {
	Title         string
	ListPage      anchorData
	PostPage      anchorData
	PostContent   template.HTML
	ListError     template.HTML
	Entries       []domain.ListEntry
	BackButton    domain.Anchor
	BackAltButton domain.Anchor
}

type anchorData struct {
	ID     domain.Anchor
	Hidden bool
}

// Render writes the host markup with the current anchor state.
func (p *Page) Render(w io.Writer) error {
	snap := p.Snapshot()

	data := pageData{
		Title:         p.title,
		ListPage:      anchorData{ID: domain.AnchorPostListPage, Hidden: snap.IsHidden(domain.AnchorPostListPage)},
		PostPage:      anchorData{ID: domain.AnchorPostPage, Hidden: snap.IsHidden(domain.AnchorPostPage)},
		PostContent:   template.HTML(snap.HTML(domain.AnchorPostContent)),
		ListError:     template.HTML(snap.HTML(domain.AnchorPostList)),
		Entries:       snap.Entries,
		BackButton:    domain.AnchorBackButton,
		BackAltButton: domain.AnchorBackButtonAlt,
	}

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>.hidden { display: none; }</style>
</head>
<body>
<a id="top"></a>
<section id="{{.ListPage.ID}}"{{if .ListPage.Hidden}} class="hidden"{{end}}>
<h1>{{.Title}}</h1>
<div id="post-list">{{if .ListError}}{{.ListError}}{{else}}<ul>
{{- range .Entries}}
<li><form method="post" action="/select"><button type="submit" name="post" value="{{.ID}}" data-post="{{.ID}}">{{.Title}}</button></form></li>
{{- end}}
</ul>{{end}}</div>
</section>
<section id="{{.PostPage.ID}}"{{if .PostPage.Hidden}} class="hidden"{{end}}>
<form method="post" action="/back"><button id="{{.BackButton}}" type="submit" name="control" value="{{.BackButton}}">Back</button></form>
<article id="post-content">{{.PostContent}}</article>
<form method="post" action="/back"><button id="{{.BackAltButton}}" type="submit" name="control" value="{{.BackAltButton}}">Back</button></form>
</section>
</body>
</html>
`))
