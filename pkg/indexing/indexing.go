package indexing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// IndexEngine keeps the inverted indexes of every collection
type IndexEngine struct {
	indexes map[string]map[string]*Index // Collection name -> index name -> index
}

// NewIndexEngine creates a new index engine
func NewIndexEngine() *IndexEngine {
	return &IndexEngine{
		indexes: make(map[string]map[string]*Index),
	}
}

// Index maps the composite value of its key fields to document IDs.
type Index struct {
	Spec     domain.IndexSpec
	Inverted map[string][]string
}

// NewIndex creates an index for the given spec.
func NewIndex(spec domain.IndexSpec) *Index {
	return &Index{
		Spec:     spec,
		Inverted: make(map[string][]string),
	}
}

// Name returns the index name.
func (idx *Index) Name() string {
	return idx.Spec.Name()
}

// BuildIndex indexes all documents in a collection, replacing previous entries.
func (idx *Index) BuildIndex(collection *domain.Collection) {
	idx.Inverted = make(map[string][]string)
	for docID, doc := range collection.Documents {
		if key, ok := idx.documentKey(doc); ok {
			idx.Inverted[key] = append(idx.Inverted[key], docID)
		}
	}
}

// Query returns document IDs whose key fields equal values, in key order.
func (idx *Index) Query(values []interface{}) []string {
	if len(values) != len(idx.Spec.Keys) {
		return nil
	}
	return idx.Inverted[compositeKey(values)]
}

// UpdateIndex updates the index after an insert/update/delete operation.
// oldDoc is nil for inserts and newDoc is nil for deletes.
func (idx *Index) UpdateIndex(docID string, oldDoc, newDoc domain.Document) {
	if oldKey, ok := idx.documentKey(oldDoc); ok {
		docList := idx.Inverted[oldKey]
		for i, id := range docList {
			if id == docID {
				idx.Inverted[oldKey] = append(docList[:i], docList[i+1:]...)
				break
			}
		}
		if len(idx.Inverted[oldKey]) == 0 {
			delete(idx.Inverted, oldKey)
		}
	}
	if newKey, ok := idx.documentKey(newDoc); ok {
		idx.Inverted[newKey] = append(idx.Inverted[newKey], docID)
	}
}

// documentKey returns the composite key of doc; documents missing any key
// field are not indexed.
func (idx *Index) documentKey(doc domain.Document) (string, bool) {
	if doc == nil {
		return "", false
	}
	values := make([]interface{}, len(idx.Spec.Keys))
	for i, k := range idx.Spec.Keys {
		v, ok := doc[k.Field]
		if !ok {
			return "", false
		}
		values[i] = v
	}
	return compositeKey(values), true
}

// compositeKey normalizes values so that numerically equal values of
// different Go types share a key.
func compositeKey(values []interface{}) string {
	parts := make([]string, len(values))
	for i, v := range values {
		if f, ok := domain.ToFloat64(v); ok {
			parts[i] = "n:" + strconv.FormatFloat(f, 'g', -1, 64)
			continue
		}
		switch val := v.(type) {
		case string:
			parts[i] = "s:" + val
		case bool:
			parts[i] = "b:" + strconv.FormatBool(val)
		case nil:
			parts[i] = "z:"
		default:
			parts[i] = fmt.Sprintf("x:%v", val)
		}
	}
	return strings.Join(parts, "\x00")
}

// CreateIndex registers an index on a collection. Creating an index that
// already exists is a no-op; created reports whether a new index was added.
func (ie *IndexEngine) CreateIndex(collectionName string, spec domain.IndexSpec) (created bool, err error) {
	if err := spec.Validate(); err != nil {
		return false, err
	}
	if ie.indexes[collectionName] == nil {
		ie.indexes[collectionName] = make(map[string]*Index)
	}
	if _, exists := ie.indexes[collectionName][spec.Name()]; exists {
		return false, nil
	}
	ie.indexes[collectionName][spec.Name()] = NewIndex(spec)
	return true, nil
}

// DropCollection forgets every index of a collection
func (ie *IndexEngine) DropCollection(collectionName string) {
	delete(ie.indexes, collectionName)
}

// GetIndexes returns the index specs of a collection sorted by name
func (ie *IndexEngine) GetIndexes(collectionName string) []domain.IndexSpec {
	specs := []domain.IndexSpec{}
	for _, index := range ie.indexes[collectionName] {
		specs = append(specs, index.Spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name() < specs[j].Name() })
	return specs
}

// GetIndex returns an index of a collection by name.
func (ie *IndexEngine) GetIndex(collectionName, indexName string) (*Index, bool) {
	if collectionIndexes, exists := ie.indexes[collectionName]; exists {
		if index, exists := collectionIndexes[indexName]; exists {
			return index, true
		}
	}
	return nil, false
}

// BuildIndexForCollection (re)builds an index from the collection contents
func (ie *IndexEngine) BuildIndexForCollection(collectionName, indexName string, collection *domain.Collection) error {
	index, exists := ie.GetIndex(collectionName, indexName)
	if !exists {
		return fmt.Errorf("index %s does not exist in collection %s", indexName, collectionName)
	}
	index.BuildIndex(collection)
	return nil
}

// RebuildCollection rebuilds every index of a collection
func (ie *IndexEngine) RebuildCollection(collectionName string, collection *domain.Collection) {
	for _, index := range ie.indexes[collectionName] {
		index.BuildIndex(collection)
	}
}

// UpdateIndexForDocument updates all indexes of a collection when a document changes
func (ie *IndexEngine) UpdateIndexForDocument(collectionName, docID string, oldDoc, newDoc domain.Document) {
	for _, index := range ie.indexes[collectionName] {
		index.UpdateIndex(docID, oldDoc, newDoc)
	}
}

// SelectIndex picks the index able to answer the equality conditions of
// filter, preferring the one covering the most fields (then the smallest
// name, for a deterministic plan). It returns the lookup values in key order.
func (ie *IndexEngine) SelectIndex(collectionName string, filter domain.Filter) (*Index, []interface{}, bool) {
	equalities := make(map[string]interface{})
	for _, c := range filter {
		if c.Op == domain.OpEq {
			if _, seen := equalities[c.Field]; !seen {
				equalities[c.Field] = c.Value
			}
		}
	}
	if len(equalities) == 0 {
		return nil, nil, false
	}

	var best *Index
	var bestValues []interface{}
	for _, index := range ie.indexes[collectionName] {
		values := make([]interface{}, 0, len(index.Spec.Keys))
		for _, k := range index.Spec.Keys {
			v, ok := equalities[k.Field]
			if !ok {
				break
			}
			values = append(values, v)
		}
		if len(values) != len(index.Spec.Keys) {
			continue
		}
		if best == nil || len(values) > len(bestValues) ||
			(len(values) == len(bestValues) && index.Name() < best.Name()) {
			best, bestValues = index, values
		}
	}
	return best, bestValues, best != nil
}

// ExportSpecs returns the index specs of every collection for persistence
func (ie *IndexEngine) ExportSpecs() map[string][]domain.IndexSpec {
	out := make(map[string][]domain.IndexSpec, len(ie.indexes))
	for collName := range ie.indexes {
		out[collName] = ie.GetIndexes(collName)
	}
	return out
}
