package models

// ContentSection is one block of copy on a static page.
type ContentSection struct {
	Heading string `json:"heading,omitempty"`
	Body    string `json:"body"`
}

// ContentPage backs the static routes: landing, rules, case studies, resources.
type ContentPage struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Public   bool             `json:"-"`
	Sections []ContentSection `json:"sections"`
}
