// Package normalisers provides implementations of the Normaliser interface
// for each supported document format. A normaliser converts an uploaded
// file into plain text plus a flat string metadata mapping.
//
// Supported formats form a closed set: PDF, plain text, CSV, DOCX and
// PPTX. Normalisers are registered with the Registry at startup; the
// registry dispatches on the declared MIME type and rejects anything
// outside the set with domain.ErrUnsupportedFormat.
package normalisers
