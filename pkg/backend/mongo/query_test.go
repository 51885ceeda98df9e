package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adfharrison1/bookshelf/pkg/domain"
	"github.com/adfharrison1/bookshelf/pkg/fixture"
)

func TestFilterDoc(t *testing.T) {
	assert.Equal(t, bson.D{}, filterDoc(nil))

	assert.Equal(t,
		bson.D{{Key: "genre", Value: "Fiction"}},
		filterDoc(domain.Eq(domain.FieldGenre, "Fiction")))

	assert.Equal(t,
		bson.D{{Key: "published_year", Value: bson.D{{Key: "$gt", Value: 1950}}}},
		filterDoc(domain.Gt(domain.FieldPublishedYear, 1950)))

	got := filterDoc(domain.And(domain.Eq(domain.FieldInStock, true), domain.Gt(domain.FieldPublishedYear, 2010)))
	assert.Equal(t, bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: "in_stock", Value: true}},
		bson.D{{Key: "published_year", Value: bson.D{{Key: "$gt", Value: 2010}}}},
	}}}, got)
}

func TestSortAndProjectionDocs(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, sortDoc(nil))
	assert.Equal(t,
		bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}},
		sortDoc([]domain.SortKey{domain.Desc(domain.FieldPrice)}))

	assert.Nil(t, projectionDoc(nil))
	assert.Equal(t,
		bson.D{{Key: "title", Value: 1}, {Key: "price", Value: 1}, {Key: "_id", Value: 0}},
		projectionDoc([]string{domain.FieldTitle, domain.FieldPrice}))

	spec := domain.NewIndexSpec(domain.Asc(domain.FieldAuthor), domain.Desc(domain.FieldPublishedYear))
	assert.Equal(t, bson.D{{Key: "author", Value: 1}, {Key: "published_year", Value: -1}}, indexKeys(spec))
}

func TestRecordConversion(t *testing.T) {
	b := fixture.Books()[0]
	r, err := recordFromBook(b)
	require.NoError(t, err)
	assert.False(t, r.ID.IsZero())

	back := r.book()
	assert.Equal(t, r.ID.Hex(), back.ID)
	back.ID = ""
	assert.Equal(t, b, back)

	id := primitive.NewObjectID()
	b.ID = id.Hex()
	r, err = recordFromBook(b)
	require.NoError(t, err)
	assert.Equal(t, id, r.ID)

	b.ID = "not-an-object-id"
	_, err = recordFromBook(b)
	assert.Error(t, err)

	assert.Empty(t, record{Title: "projected"}.book().ID)
}

func TestFindIndexName(t *testing.T) {
	plan := bson.M{
		"stage": "FETCH",
		"inputStage": bson.M{
			"stage":     "IXSCAN",
			"indexName": "title_1",
		},
	}
	assert.Equal(t, "title_1", findIndexName(plan))

	assert.Empty(t, findIndexName(bson.M{"stage": "COLLSCAN"}))

	nested := bson.M{
		"stage": "OR",
		"inputStages": bson.A{
			bson.M{"stage": "COLLSCAN"},
			bson.D{{Key: "stage", Value: "IXSCAN"}, {Key: "indexName", Value: "author_1_published_year_-1"}},
		},
	}
	assert.Equal(t, "author_1_published_year_-1", findIndexName(nested))

	// newer servers wrap the classic plan in queryPlan
	wrapped := bson.M{"queryPlan": bson.M{"stage": "FETCH", "inputStage": bson.M{"indexName": "title_1"}}}
	assert.Equal(t, "title_1", findIndexName(wrapped))
}
