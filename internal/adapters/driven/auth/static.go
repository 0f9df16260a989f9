// Package auth provides identity resolution for retrieval and chat
// operations. The core treats identities as opaque namespace keys.
package auth

import (
	"context"
	"fmt"
	"os/user"

	"github.com/google/uuid"

	"github.com/paperchat-io/paperchat/internal/core/domain"
	"github.com/paperchat-io/paperchat/internal/core/ports/driven"
)

// Ensure StaticProvider implements the interface.
var _ driven.IdentityProvider = (*StaticProvider)(nil)

// StaticProvider resolves every call to one fixed identity. It backs
// the single-user CLI surface; multi-tenant deployments swap in a
// provider that derives identity from the request.
type StaticProvider struct {
	identity domain.Identity
}

// NewStaticProvider creates a provider for the given username. The
// user ID is derived deterministically from the username so it stays
// stable across runs.
func NewStaticProvider(username string) (*StaticProvider, error) {
	if username == "" {
		current, err := user.Current()
		if err != nil {
			return nil, fmt.Errorf("resolving current OS user: %w", err)
		}
		username = current.Username
	}

	return &StaticProvider{
		identity: domain.Identity{
			UserID:   uuid.NewSHA1(uuid.NameSpaceOID, []byte(username)).String(),
			Username: username,
		},
	}, nil
}

// Current returns the fixed identity.
func (p *StaticProvider) Current(_ context.Context) (domain.Identity, error) {
	return p.identity, nil
}
