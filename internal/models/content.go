package models

// ContentBlock is one self-contained unit of formatted output: a text body
// plus an optional image reference. The formatter emits ordered slices of
// blocks; the delivery layer decides how they reach the chat platform.
type ContentBlock struct {
	Text     string
	ImageURL string // empty when the block carries no image
}

// HasImage reports whether the block carries an image reference.
func (b ContentBlock) HasImage() bool {
	return b.ImageURL != ""
}
