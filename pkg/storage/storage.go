package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adfharrison1/bookshelf/pkg/indexing"
)

// StorageEngine is an in-memory document engine with snapshot persistence
type StorageEngine struct {
	mu          sync.RWMutex
	collections map[string]*collectionData
	indexEngine *indexing.IndexEngine

	// Configuration
	dataFile       string // Snapshot file, empty disables persistence
	backgroundSave bool
	saveInterval   time.Duration
	newID          func() string

	// Background workers
	backgroundWg sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// NewStorageEngine creates a new storage engine
func NewStorageEngine(options ...StorageOption) *StorageEngine {
	engine := &StorageEngine{
		collections:  make(map[string]*collectionData),
		indexEngine:  indexing.NewIndexEngine(),
		saveInterval: 5 * time.Minute,
		newID:        uuid.NewString,
		stopChan:     make(chan struct{}),
	}

	for _, option := range options {
		option(engine)
	}

	return engine
}

// DataFile returns the snapshot file the engine persists to.
func (se *StorageEngine) DataFile() string {
	return se.dataFile
}
