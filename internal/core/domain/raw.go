package domain

// RawDocument represents an uploaded file before parsing.
// The object storage collaborator hands the core a local path and a
// declared MIME type; the core never manages the upload itself.
type RawDocument struct {
	// UserID identifies the owner of the upload.
	UserID string

	// Path is the local filesystem path of the file.
	Path string

	// Name is the original file name.
	Name string

	// MIMEType is the declared content type (e.g., "application/pdf").
	// Dispatch to a parser is by this declared type, not by sniffing.
	MIMEType string
}
