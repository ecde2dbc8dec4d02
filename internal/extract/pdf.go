package extract

import (
	"context"
	"strings"

	"docchat/internal/domain"
)

// PDF extracts page text by shelling out to pdftotext. Pages are separated
// by form feeds in its output; a page with no extractable text comes back
// empty and is skipped further up the pipeline.
type PDF struct {
	runner CommandRunner
}

// NewPDF returns a PDF extractor using the given command runner.
func NewPDF(runner CommandRunner) *PDF {
	return &PDF{runner: runner}
}

// Extract returns the text of each page of the PDF at path.
func (p *PDF) Extract(ctx context.Context, path string) ([]string, error) {
	out, err := p.runner.Run(ctx, "pdftotext", "-layout", path, "-")
	if err != nil {
		return nil, &domain.ExtractionError{Source: path, Err: err}
	}
	pages := strings.Split(string(out), "\f")
	// pdftotext terminates the last page with a form feed
	if len(pages) > 0 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages, nil
}
