// Package csv normalises CSV uploads by rendering the full table as text.
package csv

import (
	"bytes"
	"context"
	stdcsv "encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/paperchat-io/paperchat/internal/core/domain"
	"github.com/paperchat-io/paperchat/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles CSV documents. The whole table is rendered as
// its string representation; there is no column-aware chunking.
type Normaliser struct{}

// New creates a new CSV normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/csv"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 60
}

// Normalise loads the CSV and renders its full tabular string form.
// The first record is treated as the header row. An empty file yields
// empty text, not an error.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.ParsedDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	f, err := os.Open(raw.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrParse, raw.Path, err)
	}
	defer f.Close()

	reader := stdcsv.NewReader(f)
	// Ragged rows render as-is rather than failing the ingest
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %w", domain.ErrParse, err)
	}

	if len(records) == 0 {
		return &domain.ParsedDocument{Text: "", Metadata: map[string]string{}}, nil
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader(records[0])
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, row := range records[1:] {
		table.Append(row)
	}
	table.Render()

	metadata := map[string]string{
		"columns": strconv.Itoa(len(records[0])),
		"rows":    strconv.Itoa(len(records) - 1),
	}

	return &domain.ParsedDocument{
		Text:     buf.String(),
		Metadata: metadata,
	}, nil
}
