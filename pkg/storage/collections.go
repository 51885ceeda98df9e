package storage

import (
	"fmt"
	"sort"
	"time"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

type CollectionState int

const (
	CollectionStateLoaded CollectionState = iota
	CollectionStateDirty
)

type CollectionInfo struct {
	Name          string
	DocumentCount int64
	LastModified  time.Time
	State         CollectionState
}

type collectionData struct {
	coll    *domain.Collection
	info    *CollectionInfo
	nextSeq int64
}

func newCollectionData(name string) *collectionData {
	return &collectionData{
		coll: domain.NewCollection(name),
		info: &CollectionInfo{
			Name:         name,
			State:        CollectionStateLoaded,
			LastModified: time.Now(),
		},
		nextSeq: 1,
	}
}

func (cd *collectionData) touch() {
	cd.info.State = CollectionStateDirty
	cd.info.DocumentCount = int64(len(cd.coll.Documents))
	cd.info.LastModified = time.Now()
}

// getOrCreateCollection returns the named collection, creating it on first
// write. Caller must hold the write lock.
func (se *StorageEngine) getOrCreateCollection(collName string) (*collectionData, error) {
	if collName == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}
	cd, exists := se.collections[collName]
	if !exists {
		cd = newCollectionData(collName)
		se.collections[collName] = cd
	}
	return cd, nil
}

// CollectionNames lists the collections in name order
func (se *StorageEngine) CollectionNames() []string {
	se.mu.RLock()
	defer se.mu.RUnlock()
	names := make([]string, 0, len(se.collections))
	for name := range se.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetCollectionInfo returns a copy of the collection metadata
func (se *StorageEngine) GetCollectionInfo(collName string) (CollectionInfo, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()
	cd, exists := se.collections[collName]
	if !exists {
		return CollectionInfo{}, fmt.Errorf("collection %s does not exist", collName)
	}
	return *cd.info, nil
}
