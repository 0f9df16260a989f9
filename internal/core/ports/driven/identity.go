package driven

import (
	"context"

	"github.com/paperchat-io/paperchat/internal/core/domain"
)

// IdentityProvider supplies the identity of the current caller.
// The core uses it only as an opaque namespace key for indexes,
// documents and transcripts; token issuance and verification live
// outside the core.
type IdentityProvider interface {
	// Current returns the calling user's identity.
	Current(ctx context.Context) (domain.Identity, error)
}
