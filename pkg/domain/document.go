package domain

// Document represents a schemaless document in the database
type Document map[string]interface{}

// Reserved document keys maintained by the engine
const (
	KeyID  = "_id"
	KeySeq = "_seq"
)

// Collection represents a named collection of documents keyed by id
type Collection struct {
	Name      string              `json:"name" msgpack:"name"`
	Documents map[string]Document `json:"documents" msgpack:"documents"`
}

// NewCollection creates a new collection
func NewCollection(name string) *Collection {
	return &Collection{
		Name:      name,
		Documents: make(map[string]Document),
	}
}

// Copy returns a shallow copy of the document.
func (d Document) Copy() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// ToFloat64 converts the numeric representations produced by Go literals
// and by msgpack/bson/json decoding to float64.
func ToFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// ToInteger converts a numeric value to int64 like ToInt64 but rejects
// floats with a fractional part.
func ToInteger(value interface{}) (int64, bool) {
	if n, ok := ToInt64(value); ok {
		if f, isFloat := ToFloat64(value); !isFloat || f == float64(n) {
			return n, true
		}
	}
	return 0, false
}

// ToInt64 converts a numeric value to int64, truncating floats.
func ToInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	f, ok := ToFloat64(value)
	if !ok {
		return 0, false
	}
	return int64(f), true
}
