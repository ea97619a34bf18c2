package port

import "github.com/bnema/termdeck/internal/domain/entity"

// WorkspaceStateProvider exposes the live workspace state to the snapshot
// service. State must be safe to call from any goroutine and returns nil
// until a state has been published.
type WorkspaceStateProvider interface {
	State() *entity.WorkspaceState
}
