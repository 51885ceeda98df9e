package storage

import (
	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// CreateIndex creates an index on a collection and builds it from the
// existing documents. Re-creating an existing index is a no-op.
func (se *StorageEngine) CreateIndex(collName string, spec domain.IndexSpec) (string, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	cd, err := se.getOrCreateCollection(collName)
	if err != nil {
		return "", err
	}
	created, err := se.indexEngine.CreateIndex(collName, spec)
	if err != nil {
		return "", err
	}
	if created {
		if err := se.indexEngine.BuildIndexForCollection(collName, spec.Name(), cd.coll); err != nil {
			return "", err
		}
		cd.info.State = CollectionStateDirty
	}
	return spec.Name(), nil
}

// GetIndexes returns the index specs of a collection
func (se *StorageEngine) GetIndexes(collName string) []domain.IndexSpec {
	se.mu.RLock()
	defer se.mu.RUnlock()
	return se.indexEngine.GetIndexes(collName)
}
