// Package extract turns source documents into page-level text units.
package extract

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"docchat/internal/domain"
)

// CommandRunner executes an external command and returns its stdout.
// Abstracted so PDF extraction can be tested without the binary installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Auto dispatches on file extension: plain text formats are read directly,
// PDFs go through pdftotext.
type Auto struct {
	pdf *PDF
}

// NewAuto returns an extractor covering the supported formats.
func NewAuto() *Auto {
	return &Auto{pdf: NewPDF(execRunner{})}
}

// Extract returns one string per page. Plain text sources count as a
// single page.
func (a *Auto) Extract(ctx context.Context, path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &domain.ExtractionError{Source: path, Err: err}
		}
		return []string{string(data)}, nil
	case ".pdf":
		return a.pdf.Extract(ctx, path)
	default:
		return nil, &domain.ExtractionError{Source: path, Err: errUnsupported(path)}
	}
}

type errUnsupported string

func (e errUnsupported) Error() string {
	return "unsupported document format: " + filepath.Ext(string(e))
}
