package api

// Entry is one row of the post list.
type Entry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// State is a snapshot of what the post browser currently shows.
type State struct {
	View        string   `json:"view"`
	Entries     []Entry  `json:"entries"`
	ListContent string   `json:"list_content,omitempty"`
	PostContent string   `json:"post_content"`
	Manifest    []string `json:"manifest"`
}

// Action is the body accepted by the JSON control endpoints.
type Action struct {
	Post    string `json:"post" form:"post"`
	Control string `json:"control" form:"control"`
}
