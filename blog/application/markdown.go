package application

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	// first level-1 heading anywhere in the document
	titleRegex = regexp.MustCompile(`(?m)^#[ \t]+(.*)`)
)

// RenderOptions configures the markdown renderer.
// Email addresses and text are never mangled; goldmark has no such mode.
type RenderOptions struct {
	HardLineBreaks bool
	HeadingIDs     bool

	// LinkBase, when set, is prefixed to relative link and image destinations
	// so assets referenced by a post resolve under the posts directory.
	LinkBase string
}

// DefaultRenderOptions returns the options the post browser renders with.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		HardLineBreaks: true,
		HeadingIDs:     true,
	}
}

// MarkdownProcessingResult contains the results of processing a markdown file
type MarkdownProcessingResult struct {
	Title       string
	HTMLContent []byte
}

type relativeLinkTransformer struct {
	base string
}

func (t *relativeLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := n.(type) {
		case *ast.Link:
			if isRelativeLink(string(v.Destination)) {
				v.Destination = []byte(t.base + string(v.Destination))
			}
		case *ast.Image:
			if isRelativeLink(string(v.Destination)) {
				v.Destination = []byte(t.base + string(v.Destination))
			}
		}

		return ast.WalkContinue, nil
	})
}

// isRelativeLink reports whether dest is relative to the post itself.
// Root-relative paths, fragments and anything with a scheme are left alone.
func isRelativeLink(dest string) bool {
	if dest == "" {
		return false
	}

	if strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "#") {
		return false
	}

	if strings.HasPrefix(dest, "./") || strings.HasPrefix(dest, "../") {
		return true
	}

	if strings.Contains(dest, ":") {
		return false
	}

	return true
}

// MarkdownRenderer defines the interface for converting markdown to HTML.
type MarkdownRenderer interface {
	Render(markdown []byte) (*MarkdownProcessingResult, error)
}

type MarkdownRendererImpl struct {
	opts     RenderOptions
	renderer goldmark.Markdown
}

func NewMarkdownRenderer(opts RenderOptions) MarkdownRenderer {
	parserOpts := []parser.Option{}
	if opts.HeadingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}
	if opts.LinkBase != "" {
		base := strings.TrimSuffix(opts.LinkBase, "/") + "/"
		parserOpts = append(parserOpts, parser.WithASTTransformers(
			util.Prioritized(&relativeLinkTransformer{base: base}, 100),
		))
	}

	rendererOpts := []renderer.Option{html.WithUnsafe()}
	if opts.HardLineBreaks {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
		),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(rendererOpts...),
	)

	return &MarkdownRendererImpl{
		opts:     opts,
		renderer: md,
	}
}

func (r *MarkdownRendererImpl) Render(markdown []byte) (*MarkdownProcessingResult, error) {
	var buf bytes.Buffer
	err := r.renderer.Convert(markdown, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}

	return &MarkdownProcessingResult{
		Title:       extractPostTitle(markdown, ""),
		HTMLContent: buf.Bytes(),
	}, nil
}

// extractPostTitle returns the text of the first line starting with a single
// "#" and blanks, or fallback when there is none. The title never spans lines.
func extractPostTitle(markdown []byte, fallback string) string {
	matches := titleRegex.FindSubmatch(markdown)
	if len(matches) < 2 {
		return fallback
	}

	title := strings.TrimSpace(string(matches[1]))
	if title == "" {
		return fallback
	}

	return title
}
