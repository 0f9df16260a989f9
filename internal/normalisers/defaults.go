package normalisers

import (
	"github.com/paperchat-io/paperchat/internal/normalisers/csv"
	"github.com/paperchat-io/paperchat/internal/normalisers/docx"
	"github.com/paperchat-io/paperchat/internal/normalisers/pdf"
	"github.com/paperchat-io/paperchat/internal/normalisers/plaintext"
	"github.com/paperchat-io/paperchat/internal/normalisers/pptx"
)

// NewDefaultRegistry returns a registry with every supported format
// registered: PDF, plain text, CSV, DOCX and PPTX.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(plaintext.New())
	r.Register(csv.New())
	r.Register(docx.New())
	r.Register(pptx.New())
	return r
}
