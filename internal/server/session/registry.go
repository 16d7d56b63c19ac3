// Package session implements the in-memory session registry: a process-wide
// mapping from opaque token to user identity.
//
// Sessions are deliberately not persisted: they are created on login or
// registration and vanish on logout or process restart. This is an
// acknowledged limitation of the design, not an oversight; a restart logs
// every user out.
package session

import (
	"sync"

	"github.com/dmitrijs2005/mitienda/internal/common"
)

// tokenBytes gives 256 bits of entropy per token, far beyond the minimum
// needed to make guessing or collisions negligible.
const tokenBytes = 32

// Registry maps session tokens to user IDs. It is the only shared mutable
// state in the process and is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]int64
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]int64)}
}

// Create issues a new unpredictable token for userID and stores the mapping.
func (r *Registry) Create(userID int64) (string, error) {
	token, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.sessions[token] = userID
	r.mu.Unlock()

	return token, nil
}

// Resolve returns the user ID mapped to token, or ok=false when the token
// is unknown.
func (r *Registry) Resolve(token string) (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.sessions[token]
	return userID, ok
}

// Destroy removes the mapping for token. Destroying an unknown or absent
// token is a no-op, never an error.
func (r *Registry) Destroy(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
