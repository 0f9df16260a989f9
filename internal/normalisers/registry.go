package normalisers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/paperchat-io/paperchat/internal/core/domain"
	"github.com/paperchat-io/paperchat/internal/core/ports/driven"
	"github.com/paperchat-io/paperchat/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to the normaliser registered for
// their declared MIME type. When several normalisers claim the same
// type, the highest priority wins.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append(r.normalisers, n)
}

// Normalise parses raw using the best matching normaliser.
// An unrecognised MIME type fails with domain.ErrUnsupportedFormat;
// extraction failures are wrapped in domain.ErrParse by the
// individual normalisers.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.ParsedDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	n := r.lookup(raw.MIMEType)
	if n == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, raw.MIMEType)
	}

	logger.Debug("Normalising %s as %s", raw.Name, raw.MIMEType)
	return n.Normalise(ctx, raw)
}

// SupportedMIMETypes returns all MIME types that can be parsed, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for _, n := range r.normalisers {
		for _, mt := range n.SupportedMIMETypes() {
			seen[mt] = true
		}
	}

	types := make([]string, 0, len(seen))
	for mt := range seen {
		types = append(types, mt)
	}
	sort.Strings(types)
	return types
}

// lookup finds the highest-priority normaliser claiming mimeType.
func (r *Registry) lookup(mimeType string) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best driven.Normaliser
	for _, n := range r.normalisers {
		for _, mt := range n.SupportedMIMETypes() {
			if mt != mimeType {
				continue
			}
			if best == nil || n.Priority() > best.Priority() {
				best = n
			}
		}
	}
	return best
}
