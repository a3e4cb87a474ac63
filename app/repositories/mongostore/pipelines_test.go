package mongostore

import (
	"math"
	"testing"

	"inkwell/app/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func stageNames(p mongo.Pipeline) []string {
	names := make([]string, 0, len(p))
	for _, stage := range p {
		names = append(names, stage[0].Key)
	}
	return names
}

func stage(t *testing.T, p mongo.Pipeline, name string, nth int) bson.D {
	t.Helper()
	seen := 0
	for _, s := range p {
		if s[0].Key == name {
			if seen == nth {
				d, ok := s[0].Value.(bson.D)
				require.True(t, ok, "%s stage is not a document", name)
				return d
			}
			seen++
		}
	}
	t.Fatalf("no %s stage #%d", name, nth)
	return nil
}

func field(d bson.D, key string) any {
	for _, e := range d {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

func query() search.Query {
	return search.Query{Page: 3, Limit: 20, SortBy: "createdAt", SortOrder: "desc"}
}

func TestPostSearchPipeline(t *testing.T) {
	q := query()
	q.Q = "go+"
	category := primitive.NewObjectID()

	p := PostSearchPipeline(q, &category)
	assert.Equal(t, []string{"$lookup", "$unwind", "$lookup", "$unwind", "$match", "$project", "$facet", "$project"}, stageNames(p))

	m := stage(t, p, "$match", 0)
	assert.Equal(t, category, field(m, "category._id"))
	or, ok := field(m, "$or").(bson.A)
	require.True(t, ok)
	assert.Len(t, or, 5)
	re := or[0].(bson.D)[0].Value.(primitive.Regex)
	assert.Equal(t, `go\+`, re.Pattern, "q is matched literally")
	assert.Equal(t, "i", re.Options)

	assert.Equal(t, 0, field(stage(t, p, "$project", 0), "likes"))
}

func TestPostSearchPipelineWithoutFilters(t *testing.T) {
	p := PostSearchPipeline(query(), nil)
	assert.NotContains(t, stageNames(p), "$match")
}

func TestFacetStage(t *testing.T) {
	p := RoleSearchPipeline(query())
	f := stage(t, p, "$facet", 0)

	data := field(f, "data").(bson.A)
	require.Len(t, data, 3)
	sort := data[0].(bson.D)[0].Value.(bson.D)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}, sort)
	assert.Equal(t, int64(40), data[1].(bson.D)[0].Value)
	assert.Equal(t, int64(20), data[2].(bson.D)[0].Value)

	total := field(f, "total").(bson.A)
	assert.Equal(t, bson.D{{Key: "$count", Value: "count"}}, total[0])
}

func TestFacetStageFarPageSkipsEverything(t *testing.T) {
	q := query()
	q.Page = 922337203685477580
	q.Limit = 100

	data := field(stage(t, RoleSearchPipeline(q), "$facet", 0), "data").(bson.A)
	skip := data[1].(bson.D)[0].Value.(int64)
	assert.Equal(t, int64(math.MaxInt), skip)
}

func TestUserSearchPipelineExcludesRequester(t *testing.T) {
	me := primitive.NewObjectID()
	p := UserSearchPipeline(query(), me)

	assert.Equal(t, "$match", p[0][0].Key)
	cond := field(stage(t, p, "$match", 0), "_id").(bson.D)
	assert.Equal(t, bson.D{{Key: "$ne", Value: me}}, cond)
	assert.Equal(t, 0, field(stage(t, p, "$project", 0), "password"))
}

func TestCategorySearchPipelineCountsPosts(t *testing.T) {
	q := query()
	q.Q = "test10"
	p := CategorySearchPipeline(q)
	assert.Equal(t, []string{"$lookup", "$addFields", "$project", "$match", "$facet", "$project"}, stageNames(p))

	l := stage(t, p, "$lookup", 0)
	assert.Equal(t, PostsCollection, field(l, "from"))
	assert.Equal(t, "category", field(l, "foreignField"))
}

func TestCommentSearchPipeline(t *testing.T) {
	q := query()
	q.Q = "hello"
	p := CommentSearchPipeline(q)
	assert.Equal(t, []string{"$lookup", "$unwind", "$lookup", "$unwind", "$match", "$facet", "$project"}, stageNames(p))
	assert.Equal(t, UsersCollection, field(stage(t, p, "$lookup", 0), "from"))
	assert.Equal(t, PostsCollection, field(stage(t, p, "$lookup", 1), "from"))
}

func TestLikeFilterAndUpdate(t *testing.T) {
	post, user := primitive.NewObjectID(), primitive.NewObjectID()

	assert.Equal(t, bson.D{{Key: "_id", Value: post}, {Key: "likes", Value: bson.D{{Key: "$ne", Value: user}}}}, LikeFilter(post, user, false))
	assert.Equal(t, bson.D{{Key: "_id", Value: post}, {Key: "likes", Value: user}}, LikeFilter(post, user, true))

	like := LikeUpdate(user, true)
	assert.Equal(t, "$push", like[0].Key)
	assert.Equal(t, bson.D{{Key: "totalLikes", Value: 1}}, like[1].Value)

	unlike := LikeUpdate(user, false)
	assert.Equal(t, "$pull", unlike[0].Key)
	assert.Equal(t, bson.D{{Key: "totalLikes", Value: -1}}, unlike[1].Value)
}

func TestDuplicateField(t *testing.T) {
	assert.Equal(t, "username", duplicateField(`E11000 duplicate key error collection: blog.users index: username_1 dup key: { username: "a" }`))
	assert.Equal(t, "email", duplicateField(`E11000 duplicate key error collection: blog.users index: email_1 dup key`))
	assert.Equal(t, "name", duplicateField(`E11000 duplicate key error collection: blog.categories index: name_1 dup key`))
}
