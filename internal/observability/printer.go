// Package observability provides formatted output for manual inspection of a run.
package observability

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cyderes/page-content-ingestion/internal/models"
)

// SampleLabel precedes every printed sample.
const SampleLabel = "[API RESPONSE SAMPLE]:"

// Printer writes inspection output to a writer
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// PrintSample writes the API-response shaped subset of post as indented
// JSON. Non-ASCII text is written as is.
func (p *Printer) PrintSample(post models.Post) error {
	if _, err := fmt.Fprintln(p.out, SampleLabel); err != nil {
		return fmt.Errorf("failed to write sample: %w", err)
	}

	enc := json.NewEncoder(p.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(post.Sample()); err != nil {
		return fmt.Errorf("failed to encode sample: %w", err)
	}
	return nil
}
