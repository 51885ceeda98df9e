package storage

import "time"

type StorageOption func(*StorageEngine)

// WithDataFile sets the snapshot file used by Snapshot and Restore
func WithDataFile(path string) StorageOption {
	return func(engine *StorageEngine) {
		engine.dataFile = path
	}
}

// WithBackgroundSave snapshots dirty collections every interval once the
// background workers are started
func WithBackgroundSave(interval time.Duration) StorageOption {
	return func(engine *StorageEngine) {
		if interval > 0 {
			engine.backgroundSave = true
			engine.saveInterval = interval
		}
	}
}

// WithIDGenerator replaces the UUID generator, mostly for tests
func WithIDGenerator(fn func() string) StorageOption {
	return func(engine *StorageEngine) {
		engine.newID = fn
	}
}
