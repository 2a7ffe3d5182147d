package rest

import (
	"net/http"

	"github.com/dfryer1193/postbrowser/api"
	"github.com/dfryer1193/postbrowser/blog/application"
	"github.com/dfryer1193/postbrowser/blog/domain"
	"github.com/dfryer1193/postbrowser/blog/view"
	"github.com/gin-gonic/gin"
)

// Handler exposes the post browser controls over HTTP.
type Handler struct {
	browser *application.PostBrowser
	page    *view.Page
}

func NewHandler(browser *application.PostBrowser, page *view.Page) *Handler {
	return &Handler{
		browser: browser,
		page:    page,
	}
}

// NewApi registers the page, its controls and, when postsDir is set, the
// static posts directory.
func NewApi(router *gin.Engine, h *Handler, postsDir string) {
	router.GET("/", h.GetPage)
	router.POST("/select", h.SelectPost)
	router.POST("/back", h.GoBack)

	stateV1 := router.Group("api/v1")
	{
		stateV1.GET("/state", h.GetState)
		stateV1.POST("/select", h.SelectPost)
		stateV1.POST("/back", h.GoBack)
	}

	if postsDir != "" {
		router.Static("/posts", postsDir)
	}
}

func (h *Handler) GetPage(c *gin.Context) {
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Render(c.Writer); err != nil {
		c.Error(err)
	}
}

func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.state())
}

func (h *Handler) SelectPost(c *gin.Context) {
	var action api.Action
	if err := c.ShouldBind(&action); err != nil || action.Post == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post is required"})
		return
	}

	// failures are drawn on the page, so they are not HTTP errors
	_, _ = h.browser.SelectPost(c.Request.Context(), action.Post)
	h.respond(c)
}

func (h *Handler) GoBack(c *gin.Context) {
	var action api.Action
	if err := c.ShouldBind(&action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch domain.Anchor(action.Control) {
	case domain.AnchorBackButton, domain.AnchorBackButtonAlt:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown control " + action.Control})
		return
	}

	h.browser.GoBack()
	h.respond(c)
}

// respond redirects form posts back to the page and answers JSON callers
// with the new state.
func (h *Handler) respond(c *gin.Context) {
	if c.ContentType() == gin.MIMEJSON {
		h.page.TakeScroll()
		c.JSON(http.StatusOK, h.state())
		return
	}

	target := "/"
	if h.page.TakeScroll() {
		target = "/#top"
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (h *Handler) state() api.State {
	snap := h.page.Snapshot()

	entries := make([]api.Entry, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		entries = append(entries, api.Entry{ID: e.ID, Title: e.Title})
	}

	return api.State{
		View:        h.browser.State().String(),
		Entries:     entries,
		ListContent: snap.HTML(domain.AnchorPostList),
		PostContent: snap.HTML(domain.AnchorPostContent),
		Manifest:    h.browser.Manifest(),
	}
}
