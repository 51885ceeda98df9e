package domain

import (
	"fmt"
	"strings"
)

// Storage field names of a book record.
const (
	FieldTitle         = "title"
	FieldAuthor        = "author"
	FieldGenre         = "genre"
	FieldPublishedYear = "published_year"
	FieldPrice         = "price"
	FieldInStock       = "in_stock"
	FieldPages         = "pages"
	FieldPublisher     = "publisher"
)

// BookFields lists every logical field of a book in schema order.
var BookFields = []string{
	FieldTitle,
	FieldAuthor,
	FieldGenre,
	FieldPublishedYear,
	FieldPrice,
	FieldInStock,
	FieldPages,
	FieldPublisher,
}

// IsBookField reports whether name is a logical book field.
func IsBookField(name string) bool {
	for _, f := range BookFields {
		if f == name {
			return true
		}
	}
	return false
}

// Book is the only entity of the bookshelf. ID is assigned by the storage
// engine and is not part of the logical schema.
type Book struct {
	ID            string  `json:"id,omitempty" bson:"-" msgpack:"_id,omitempty"`
	Title         string  `json:"title" bson:"title" msgpack:"title"`
	Author        string  `json:"author" bson:"author" msgpack:"author"`
	Genre         string  `json:"genre" bson:"genre" msgpack:"genre"`
	PublishedYear int     `json:"published_year" bson:"published_year" msgpack:"published_year"`
	Price         float64 `json:"price" bson:"price" msgpack:"price"`
	InStock       bool    `json:"in_stock" bson:"in_stock" msgpack:"in_stock"`
	Pages         int     `json:"pages" bson:"pages" msgpack:"pages"`
	Publisher     string  `json:"publisher" bson:"publisher" msgpack:"publisher"`
}

// Validate checks the record against the field constraints.
func (b Book) Validate() error {
	required := []struct{ field, value string }{
		{FieldTitle, b.Title},
		{FieldAuthor, b.Author},
		{FieldGenre, b.Genre},
		{FieldPublisher, b.Publisher},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidDocument, r.field)
		}
	}
	if b.Price < 0 {
		return fmt.Errorf("%w: price %.2f is negative", ErrInvalidDocument, b.Price)
	}
	if b.Pages <= 0 {
		return fmt.Errorf("%w: pages must be positive, got %d", ErrInvalidDocument, b.Pages)
	}
	return nil
}

// ValidateAll validates every book, reporting the first offending position.
func ValidateAll(books []Book) error {
	for i, b := range books {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("record %d (%q): %w", i, b.Title, err)
		}
	}
	return nil
}

// ToDocument converts the book into a schemaless document. The id is only
// set when the book already has one.
func (b Book) ToDocument() Document {
	doc := Document{
		FieldTitle:         b.Title,
		FieldAuthor:        b.Author,
		FieldGenre:         b.Genre,
		FieldPublishedYear: int64(b.PublishedYear),
		FieldPrice:         b.Price,
		FieldInStock:       b.InStock,
		FieldPages:         int64(b.Pages),
		FieldPublisher:     b.Publisher,
	}
	if b.ID != "" {
		doc[KeyID] = b.ID
	}
	return doc
}

// BookFromDocument builds a book from a document. Missing fields keep their
// zero value, which is how projected documents come back.
func BookFromDocument(doc Document) Book {
	var b Book
	b.ID, _ = doc[KeyID].(string)
	b.Title, _ = doc[FieldTitle].(string)
	b.Author, _ = doc[FieldAuthor].(string)
	b.Genre, _ = doc[FieldGenre].(string)
	b.Publisher, _ = doc[FieldPublisher].(string)
	b.InStock, _ = doc[FieldInStock].(bool)
	if v, ok := ToInt64(doc[FieldPublishedYear]); ok {
		b.PublishedYear = int(v)
	}
	if v, ok := ToInt64(doc[FieldPages]); ok {
		b.Pages = int(v)
	}
	if v, ok := ToFloat64(doc[FieldPrice]); ok {
		b.Price = v
	}
	return b
}

// Project returns the document form of b restricted to fields. The
// identifier is never included. With no fields the whole document is
// returned.
func (b Book) Project(fields ...string) Document {
	doc := b.ToDocument()
	if len(fields) == 0 {
		return doc
	}
	out := make(Document, len(fields))
	for _, f := range fields {
		if v, ok := doc[f]; ok && f != KeyID {
			out[f] = v
		}
	}
	return out
}

// CheckUpdate verifies that an update only touches writable book fields.
func CheckUpdate(set Document) error {
	if len(set) == 0 {
		return fmt.Errorf("%w: empty update", ErrInvalidDocument)
	}
	for k := range set {
		if !IsBookField(k) {
			return fmt.Errorf("%w: %s", ErrUnknownField, k)
		}
	}
	if p, ok := set[FieldPrice]; ok {
		if f, ok := ToFloat64(p); !ok || f < 0 {
			return fmt.Errorf("%w: price must be a non-negative number", ErrInvalidDocument)
		}
	}
	if p, ok := set[FieldPages]; ok {
		if n, ok := ToInteger(p); !ok || n <= 0 {
			return fmt.Errorf("%w: pages must be a positive integer", ErrInvalidDocument)
		}
	}
	return nil
}

// NormalizeUpdate checks set and converts its values to the types stored
// for each field: int64 for years and pages, float64 for price.
func NormalizeUpdate(set Document) (Document, error) {
	if err := CheckUpdate(set); err != nil {
		return nil, err
	}
	out := make(Document, len(set))
	for k, v := range set {
		switch k {
		case FieldPublishedYear, FieldPages:
			n, ok := ToInteger(v)
			if !ok {
				return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidDocument, k)
			}
			out[k] = n
		case FieldPrice:
			f, _ := ToFloat64(v)
			out[k] = f
		case FieldInStock:
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: %s must be a boolean", ErrInvalidDocument, k)
			}
			out[k] = b
		default:
			s, ok := v.(string)
			if !ok || s == "" {
				return nil, fmt.Errorf("%w: %s must be a non-empty string", ErrInvalidDocument, k)
			}
			out[k] = s
		}
	}
	return out, nil
}
