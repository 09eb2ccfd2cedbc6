// Package store persists the imported table and the run journal on SQLite,
// DuckDB, MySQL or PostgreSQL.
package store

import (
	"sync"

	"github.com/huangsam/langtrends/internal/contract"
)

// StoreManager holds the stores opened for the current command.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	data         contract.DataStore
	runs         contract.RunStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetDataStore returns the DataStore.
func (mgr *StoreManager) GetDataStore() contract.DataStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.data
}

// GetRunStore returns the RunStore.
func (mgr *StoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
