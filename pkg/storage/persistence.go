package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// Snapshot writes the engine state to the configured data file. It is a
// no-op when persistence is disabled.
func (se *StorageEngine) Snapshot() error {
	if se.dataFile == "" {
		return nil
	}
	return se.SaveToFile(se.dataFile)
}

// Restore loads the configured data file. A missing file leaves the engine empty.
func (se *StorageEngine) Restore() error {
	if se.dataFile == "" {
		return nil
	}
	return se.LoadFromFile(se.dataFile)
}

// SaveToFile writes every collection and index definition to filename
// atomically (temp file + rename).
func (se *StorageEngine) SaveToFile(filename string) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	storageData := NewStorageData()
	for collName, cd := range se.collections {
		docs := make(map[string]interface{}, len(cd.coll.Documents))
		for docID, doc := range cd.coll.Documents {
			docs[docID] = map[string]interface{}(doc)
		}
		storageData.Collections[collName] = docs
	}
	storageData.Indexes = se.indexEngine.ExportSpecs()
	storageData.Metadata["saved_at"] = time.Now().UTC().Format(time.RFC3339)

	msgpackData, err := msgpack.Marshal(storageData)
	if err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	payload := msgpackData
	flags := uint8(0)
	compressed := make([]byte, lz4.CompressBlockBound(len(msgpackData)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(msgpackData, compressed, hashTable[:])
	if err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}
	// n == 0 means the payload is incompressible and is stored raw
	if n > 0 {
		payload = compressed[:n]
		flags |= FlagCompressed
	}

	var buf bytes.Buffer
	if err := WriteHeader(&buf, flags, len(msgpackData)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	buf.Write(payload)

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	tempFile := filename + ".tmp"
	if err := os.WriteFile(tempFile, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename snapshot: %w", err)
	}

	for _, cd := range se.collections {
		cd.info.State = CollectionStateLoaded
	}
	zap.S().Debugf("Saved snapshot %s (%d bytes, %d collections)", filename, buf.Len(), len(se.collections))
	return nil
}

// LoadFromFile replaces the engine state with the snapshot in filename and
// rebuilds indexes. A missing file is not an error.
func (se *StorageEngine) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			zap.S().Debugf("Snapshot %s does not exist, starting empty", filename)
			return nil
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	header, err := ReadHeader(file)
	if err != nil {
		return fmt.Errorf("invalid file header: %w", err)
	}
	body, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read snapshot data: %w", err)
	}

	raw := body
	if header.Flags&FlagCompressed != 0 {
		raw = make([]byte, header.Length)
		n, err := lz4.UncompressBlock(body, raw)
		if err != nil {
			return fmt.Errorf("failed to decompress data: %w", err)
		}
		raw = raw[:n]
	}
	if len(raw) != int(header.Length) {
		return fmt.Errorf("snapshot truncated: expected %d bytes, got %d", header.Length, len(raw))
	}

	dec := msgpack.NewDecoder(bytes.NewReader(raw))
	dec.UseLooseInterfaceDecoding(true)
	var storageData StorageData
	if err := dec.Decode(&storageData); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}

	se.mu.Lock()
	defer se.mu.Unlock()

	se.collections = make(map[string]*collectionData, len(storageData.Collections))
	for collName, docs := range storageData.Collections {
		cd := newCollectionData(collName)
		for docID, docData := range docs {
			doc, ok := docData.(map[string]interface{})
			if !ok {
				return fmt.Errorf("collection %s: document %s has unexpected type %T", collName, docID, docData)
			}
			cd.coll.Documents[docID] = domain.Document(doc)
			if seq := sequence(doc); seq >= cd.nextSeq {
				cd.nextSeq = seq + 1
			}
		}
		cd.info.DocumentCount = int64(len(cd.coll.Documents))
		se.collections[collName] = cd
	}

	for collName, specs := range storageData.Indexes {
		se.indexEngine.DropCollection(collName)
		for _, spec := range specs {
			if _, err := se.indexEngine.CreateIndex(collName, spec); err != nil {
				return fmt.Errorf("restore index %s on %s: %w", spec.Name(), collName, err)
			}
		}
		if cd, ok := se.collections[collName]; ok {
			se.indexEngine.RebuildCollection(collName, cd.coll)
		}
	}

	zap.S().Infof("Loaded snapshot %s with %d collections", filename, len(se.collections))
	return nil
}

// saveIfDirty snapshots the engine when any collection changed since the last save
func (se *StorageEngine) saveIfDirty() {
	se.mu.RLock()
	dirty := 0
	for _, cd := range se.collections {
		if cd.info.State == CollectionStateDirty {
			dirty++
		}
	}
	se.mu.RUnlock()

	if dirty == 0 {
		zap.S().Debugf("No dirty collections to save")
		return
	}

	start := time.Now()
	if err := se.Snapshot(); err != nil {
		zap.S().Errorf("Background save failed: %v", err)
		return
	}
	zap.S().Infof("Background save completed - %d dirty collections in %v", dirty, time.Since(start))
}
