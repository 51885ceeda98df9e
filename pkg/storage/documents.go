package storage

import (
	"fmt"
	"sort"
	"time"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// scanStats describes how a filter was evaluated
type scanStats struct {
	examined  int64
	indexName string
}

// InsertMany inserts documents into a collection as one batch: either every
// document is stored or none is. Documents without an _id get a generated
// one; every document gets the next insertion sequence number. The stored
// documents are returned.
func (se *StorageEngine) InsertMany(collName string, docs []domain.Document) ([]domain.Document, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	cd, err := se.getOrCreateCollection(collName)
	if err != nil {
		return nil, err
	}

	prepared := make([]domain.Document, len(docs))
	seen := make(map[string]bool, len(docs))
	for i, doc := range docs {
		if doc == nil {
			return nil, fmt.Errorf("document %d is nil", i)
		}
		d := doc.Copy()
		id, hasID := d[domain.KeyID].(string)
		if _, present := d[domain.KeyID]; present && !hasID {
			return nil, fmt.Errorf("document %d: _id must be a string", i)
		}
		if !hasID || id == "" {
			id = se.newID()
			d[domain.KeyID] = id
		}
		if _, exists := cd.coll.Documents[id]; exists || seen[id] {
			return nil, fmt.Errorf("document %d: duplicate _id %s in collection %s", i, id, collName)
		}
		seen[id] = true
		prepared[i] = d
	}

	out := make([]domain.Document, len(prepared))
	for i, d := range prepared {
		d[domain.KeySeq] = cd.nextSeq
		cd.nextSeq++
		id := d[domain.KeyID].(string)
		cd.coll.Documents[id] = d
		se.indexEngine.UpdateIndexForDocument(collName, id, nil, d)
		out[i] = d.Copy()
	}
	cd.touch()

	return out, nil
}

// Find returns copies of the documents matching filter, shaped by opts.
// A missing collection behaves like an empty one.
func (se *StorageEngine) Find(collName string, filter domain.Filter, opts *domain.FindOptions) ([]domain.Document, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	docs, _ := se.scan(collName, filter)
	return shapeResults(docs, opts), nil
}

// Count returns the number of documents matching filter
func (se *StorageEngine) Count(collName string, filter domain.Filter) (int64, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	docs, _ := se.scan(collName, filter)
	return int64(len(docs)), nil
}

// UpdateOne applies set to the first matching document in insertion order
// and returns the updated copy, or nil when nothing matched. _id and _seq
// cannot be changed.
func (se *StorageEngine) UpdateOne(collName string, filter domain.Filter, set domain.Document) (domain.Document, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	docs, _ := se.scan(collName, filter)
	if len(docs) == 0 {
		return nil, nil
	}
	cd := se.collections[collName]
	doc := docs[0]
	id := doc[domain.KeyID].(string)

	oldDoc := doc.Copy()
	for key, value := range set {
		if key == domain.KeyID || key == domain.KeySeq {
			continue
		}
		doc[key] = value
	}
	se.indexEngine.UpdateIndexForDocument(collName, id, oldDoc, doc)
	cd.touch()

	return doc.Copy(), nil
}

// DeleteOne removes the first matching document in insertion order
func (se *StorageEngine) DeleteOne(collName string, filter domain.Filter) (int64, error) {
	return se.deleteMatching(collName, filter, 1)
}

// DeleteMany removes every matching document; an empty filter clears the collection
func (se *StorageEngine) DeleteMany(collName string, filter domain.Filter) (int64, error) {
	return se.deleteMatching(collName, filter, 0)
}

func (se *StorageEngine) deleteMatching(collName string, filter domain.Filter, limit int) (int64, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	docs, _ := se.scan(collName, filter)
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	if len(docs) == 0 {
		return 0, nil
	}
	cd := se.collections[collName]
	for _, doc := range docs {
		id := doc[domain.KeyID].(string)
		se.indexEngine.UpdateIndexForDocument(collName, id, doc, nil)
		delete(cd.coll.Documents, id)
	}
	cd.touch()
	return int64(len(docs)), nil
}

// Explain evaluates filter and reports how it was executed
func (se *StorageEngine) Explain(collName string, filter domain.Filter) (*domain.ExplainStats, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	start := time.Now()
	docs, stats := se.scan(collName, filter)
	return &domain.ExplainStats{
		ExecutionTime: time.Since(start),
		DocsExamined:  stats.examined,
		DocsReturned:  int64(len(docs)),
		IndexName:     stats.indexName,
	}, nil
}

// scan returns the live documents matching filter in insertion order, using
// an index when one covers the equality conditions. Caller must hold a lock.
func (se *StorageEngine) scan(collName string, filter domain.Filter) ([]domain.Document, scanStats) {
	var stats scanStats
	cd, exists := se.collections[collName]
	if !exists {
		return nil, stats
	}

	var matched []domain.Document
	if index, values, ok := se.indexEngine.SelectIndex(collName, filter); ok {
		stats.indexName = index.Name()
		for _, docID := range index.Query(values) {
			doc, exists := cd.coll.Documents[docID]
			if !exists {
				continue
			}
			stats.examined++
			if MatchesFilter(doc, filter) {
				matched = append(matched, doc)
			}
		}
	} else {
		for _, doc := range cd.coll.Documents {
			stats.examined++
			if MatchesFilter(doc, filter) {
				matched = append(matched, doc)
			}
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return sequence(matched[i]) < sequence(matched[j])
	})
	return matched, stats
}

func sequence(doc domain.Document) int64 {
	seq, _ := domain.ToInt64(doc[domain.KeySeq])
	return seq
}

// shapeResults sorts, paginates and projects documents, returning copies.
func shapeResults(docs []domain.Document, opts *domain.FindOptions) []domain.Document {
	if opts == nil {
		opts = &domain.FindOptions{}
	}
	if len(opts.Sort) > 0 {
		SortDocuments(docs, opts.Sort)
	}

	start := opts.Skip
	if start > len(docs) {
		start = len(docs)
	}
	end := len(docs)
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}

	out := make([]domain.Document, 0, end-start)
	for _, doc := range docs[start:end] {
		out = append(out, Project(doc, opts.Projection))
	}
	return out
}
