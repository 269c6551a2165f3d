package domain

// DocumentMetadata describes the source document a chunk was derived
// from. It is an explicit, named struct rather than a free-form map so
// the fields written at ingestion time cannot drift from the fields
// query filters match against.
type DocumentMetadata struct {
	// Title is the document title, "Untitled" when the source carries none.
	Title string

	// Author is the document author, "Unknown" when the source carries none.
	Author string

	// TotalPages is the page count of the source document.
	TotalPages int

	// SourceFile is the base name of the originating file.
	// Citations point back to this value.
	SourceFile string
}

// Document is a source document handed to ingestion: the full extracted
// text plus the metadata attached to every chunk derived from it.
type Document struct {
	// Text is the complete extracted text before chunking.
	Text string

	// Metadata is carried as payload on every point; it never
	// contributes to the embedding vector itself.
	Metadata DocumentMetadata
}

// Chunk is a bounded-size contiguous slice of a document's text, the
// atomic retrievable unit. Adjacent chunks overlap so context spanning
// a boundary is not lost.
type Chunk struct {
	// ID is the unique identifier for the chunk. It becomes the
	// point id when the chunk is written to the vector store.
	ID string

	// Content is the text content of this chunk. Never empty.
	Content string

	// Index is the ordinal position within the document, from 0.
	Index int

	// StartOffset and EndOffset locate the chunk in the source text.
	StartOffset int
	EndOffset   int
}
