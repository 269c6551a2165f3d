// Package pdf extracts text and metadata from PDF files using the
// poppler command line tools (pdftotext and pdfinfo).
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// ErrPDFToolNotFound indicates the pdftotext binary is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner abstracts command execution for testing.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs real commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor converts PDF files to plain text.
type Extractor struct {
	runner CommandRunner
}

// New creates a PDF extractor using the system pdftotext.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates a PDF extractor with a custom command runner.
// Used for testing.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// CheckAvailable verifies pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform-specific installation help.
func InstallInstructions() string {
	return `pdftotext is required for PDF extraction. Install poppler:
  macOS:         brew install poppler
  Debian/Ubuntu: sudo apt install poppler-utils
  Fedora:        sudo dnf install poppler-utils`
}

// Extract runs pdftotext for the text and pdfinfo for the metadata.
// A pdfinfo failure is not fatal: the text still stands on its own,
// only title, author and page count fall back to zero values.
func (e *Extractor) Extract(ctx context.Context, path string) (*driven.Extraction, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path is empty", domain.ErrInvalidInput)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}

	// -layout keeps column layout, "-" streams to stdout
	text, err := e.runner.Run(ctx, "pdftotext", "-layout", path, "-")
	if err != nil {
		return nil, fmt.Errorf("%w: pdftotext failed for %s: %v", domain.ErrExtraction, path, err)
	}

	extraction := &driven.Extraction{
		Text: normaliseText(string(text)),
	}

	if info, err := e.runner.Run(ctx, "pdfinfo", path); err == nil {
		applyInfo(extraction, string(info))
	}

	return extraction, nil
}

// normaliseText strips the form feed page markers pdftotext emits and
// trims trailing whitespace per line.
func normaliseText(text string) string {
	text = strings.ReplaceAll(text, "\f", "\n\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// applyInfo parses pdfinfo's "Key: value" output into the extraction.
func applyInfo(extraction *driven.Extraction, info string) {
	for _, line := range strings.Split(info, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Title":
			extraction.Title = value
		case "Author":
			extraction.Author = value
		case "Pages":
			if pages, err := strconv.Atoi(value); err == nil {
				extraction.PageCount = pages
			}
		}
	}
}
