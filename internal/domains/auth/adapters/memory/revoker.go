package memory

import (
	"context"
	"sync"
	"time"

	"github.com/avetrov/go-shop-api/internal/domains/auth/ports"
)

var _ ports.TokenRevoker = (*Revoker)(nil)

// Revoker keeps the token denylist in process memory. Entries expire with
// the token lifetime so the set stays bounded.
type Revoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewRevoker() *Revoker {
	return &Revoker{revoked: map[string]time.Time{}}
}

func (r *Revoker) Revoke(_ context.Context, token string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[token] = time.Now().Add(ttl)
	return nil
}

func (r *Revoker) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expiry, ok := r.revoked[token]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(r.revoked, token)
		return false, nil
	}
	return true, nil
}
