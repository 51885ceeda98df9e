package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// record is the stored shape of a book. The identifier is a server-side
// ObjectID, exposed to callers as its hex string.
type record struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Author        string             `bson:"author"`
	Genre         string             `bson:"genre"`
	PublishedYear int                `bson:"published_year"`
	Price         float64            `bson:"price"`
	InStock       bool               `bson:"in_stock"`
	Pages         int                `bson:"pages"`
	Publisher     string             `bson:"publisher"`
}

func recordFromBook(b domain.Book) (record, error) {
	r := record{
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		PublishedYear: b.PublishedYear,
		Price:         b.Price,
		InStock:       b.InStock,
		Pages:         b.Pages,
		Publisher:     b.Publisher,
	}
	if b.ID != "" {
		id, err := primitive.ObjectIDFromHex(b.ID)
		if err != nil {
			return record{}, err
		}
		r.ID = id
	} else {
		r.ID = primitive.NewObjectID()
	}
	return r, nil
}

func (r record) book() domain.Book {
	b := domain.Book{
		Title:         r.Title,
		Author:        r.Author,
		Genre:         r.Genre,
		PublishedYear: r.PublishedYear,
		Price:         r.Price,
		InStock:       r.InStock,
		Pages:         r.Pages,
		Publisher:     r.Publisher,
	}
	if !r.ID.IsZero() {
		b.ID = r.ID.Hex()
	}
	return b
}

// filterDoc translates a filter to a query document. Several conditions
// become an explicit $and so repeated fields keep both constraints.
func filterDoc(filter domain.Filter) bson.D {
	switch len(filter) {
	case 0:
		return bson.D{}
	case 1:
		return bson.D{condition(filter[0])}
	}
	clauses := make(bson.A, len(filter))
	for i, c := range filter {
		clauses[i] = bson.D{condition(c)}
	}
	return bson.D{{Key: "$and", Value: clauses}}
}

func condition(c domain.Condition) bson.E {
	if c.Op == domain.OpGt {
		return bson.E{Key: c.Field, Value: bson.D{{Key: "$gt", Value: c.Value}}}
	}
	return bson.E{Key: c.Field, Value: c.Value}
}

// sortDoc appends _id so ties keep insertion order.
func sortDoc(keys []domain.SortKey) bson.D {
	d := make(bson.D, 0, len(keys)+1)
	for _, k := range keys {
		d = append(d, bson.E{Key: k.Field, Value: k.Direction()})
	}
	return append(d, bson.E{Key: "_id", Value: 1})
}

// projectionDoc keeps the named fields and suppresses _id.
func projectionDoc(fields []string) bson.D {
	if len(fields) == 0 {
		return nil
	}
	d := make(bson.D, 0, len(fields)+1)
	for _, f := range fields {
		d = append(d, bson.E{Key: f, Value: 1})
	}
	return append(d, bson.E{Key: "_id", Value: 0})
}

func indexKeys(spec domain.IndexSpec) bson.D {
	d := make(bson.D, len(spec.Keys))
	for i, k := range spec.Keys {
		d[i] = bson.E{Key: k.Field, Value: k.Direction()}
	}
	return d
}

// findIndexName walks an explain winning plan looking for the first
// stage that names an index.
func findIndexName(plan interface{}) string {
	switch v := plan.(type) {
	case bson.M:
		if name, ok := v["indexName"].(string); ok {
			return name
		}
		for _, key := range []string{"inputStage", "queryPlan"} {
			if name := findIndexName(v[key]); name != "" {
				return name
			}
		}
		if stages, ok := v["inputStages"].(bson.A); ok {
			for _, s := range stages {
				if name := findIndexName(s); name != "" {
					return name
				}
			}
		}
	case bson.D:
		return findIndexName(v.Map())
	}
	return ""
}
