package model

// Submission is a text document offered for assimilation.
// It is read-only once constructed.
type Submission struct {
	Path        string            `json:"path"`
	Filename    string            `json:"filename"`
	Frontmatter map[string]string `json:"frontmatter"`
	Body        string            `json:"body"`    // Text after frontmatter
	Content     string            `json:"content"` // Full original text, hashed for identity
}
