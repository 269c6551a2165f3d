package domain

import "fmt"

// PassageMetadata is the metadata surfaced to the language model for a
// retrieved passage.
type PassageMetadata struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Page   int    `json:"page"`
}

// RetrievedPassage is a retrieval tool result: chunk content, its
// similarity score and a ready-made citation. This is the only shape
// the language model ever sees; raw vectors and collection internals
// stay behind the tool boundary.
type RetrievedPassage struct {
	Content  string          `json:"content"`
	Score    float64         `json:"score"`
	Citation string          `json:"citation"`
	Metadata PassageMetadata `json:"metadata"`
}

// FormatCitation renders the markdown citation for a source file, in
// the exact form the answer policy instructs the model to use.
func FormatCitation(sourceFile string) string {
	return fmt.Sprintf("[source](%s)", sourceFile)
}
