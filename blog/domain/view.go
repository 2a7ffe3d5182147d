package domain

// ViewState is the LIST/DETAIL exclusivity flag controlling which panel is shown.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
)

func (v ViewState) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Anchor names an element of the host markup.
type Anchor string

const (
	AnchorPostContent   Anchor = "post-content"
	AnchorPostListPage  Anchor = "post-list-page"
	AnchorPostPage      Anchor = "post-page"
	AnchorBackButton    Anchor = "back-btn"
	AnchorBackButtonAlt Anchor = "back-btn-1"
	AnchorPostList      Anchor = "post-list"
)

// Surface is the display the browser manipulates. It never creates anchors,
// it only changes their content and visibility.
type Surface interface {
	// SetHTML replaces the inner content of an anchor.
	SetHTML(a Anchor, html string)

	// SetHidden toggles the visibility of an anchor.
	SetHidden(a Anchor, hidden bool)

	// AppendEntry adds one entry to the list container.
	AppendEntry(e ListEntry)

	// ScrollToTop asks the display to scroll smoothly to the top.
	ScrollToTop()
}
