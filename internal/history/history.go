// Package history records burndown chart runs in an optional SQL store.
package history

import (
	"sync"

	"github.com/huangsam/burndown/internal/contract"
)

// HistoryManager owns the process-wide history store.
type HistoryManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        contract.HistoryStore
}

var _ contract.HistoryManager = &HistoryManager{} // Compile-time check

// GetHistoryStore returns the configured store, or nil when history is off.
func (mgr *HistoryManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}
