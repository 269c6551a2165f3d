package driven

import "context"

// Extraction is the output of extracting one source file: the raw text
// plus the document-level metadata the file carries.
type Extraction struct {
	// Text is the full extracted text.
	Text string

	// Title is the document title, empty when the file carries none.
	Title string

	// Author is the document author, empty when the file carries none.
	Author string

	// PageCount is the number of pages in the document.
	PageCount int
}

// Extractor produces raw text and metadata from a document file.
// The core treats extraction as opaque and trusts its output.
type Extractor interface {
	// Extract reads and parses the file at path.
	Extract(ctx context.Context, path string) (*Extraction, error)
}
