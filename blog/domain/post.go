package domain

// Post represents a single markdown post named by a manifest entry.
// Title is derived from the first level-1 heading in Content, and HTML is
// produced by the render capability when the post is selected.
type Post struct {
	ID      string
	Content []byte
	Title   string
	HTML    string
}

// Manifest is the ordered list of post identifiers for a session.
type Manifest []string

// ListEntry is one interactive row in the post list.
type ListEntry struct {
	ID    string
	Title string
}
