package pdf

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paperchat-io/paperchat/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	n := New()
	assert.Equal(t, []string{"application/pdf"}, n.SupportedMIMETypes())
}

func TestNormalise_NilRaw(t *testing.T) {
	n := New()
	_, err := n.Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_MissingFile(t *testing.T) {
	n := New()
	raw := &domain.RawDocument{Path: filepath.Join(t.TempDir(), "absent.pdf")}

	_, err := n.Normalise(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrParse)
}
