package mongostore

import (
	"regexp"

	"inkwell/app/search"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names
const (
	RolesCollection      = "roles"
	UsersCollection      = "users"
	CategoriesCollection = "categories"
	PostsCollection      = "posts"
	CommentsCollection   = "comments"
)

// lookup joins the document referenced by localField and keeps only the
// projected fields of it.
func lookup(from, localField, as string, fields ...string) bson.D {
	spec := bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: as},
	}
	if len(fields) > 0 {
		project := bson.D{}
		for _, f := range fields {
			project = append(project, bson.E{Key: f, Value: 1})
		}
		spec = append(spec, bson.E{Key: "pipeline", Value: mongo.Pipeline{{{Key: "$project", Value: project}}}})
	}
	return bson.D{{Key: "$lookup", Value: spec}}
}

// unwind flattens a joined array. Documents whose join found nothing are
// dropped.
func unwind(field string) bson.D {
	return bson.D{{Key: "$unwind", Value: "$" + field}}
}

// first replaces a joined array by its first element, leaving the field
// absent when the join found nothing.
func first(fields ...string) bson.D {
	set := bson.D{}
	for _, f := range fields {
		set = append(set, bson.E{Key: f, Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$" + f, 0}}}})
	}
	return bson.D{{Key: "$addFields", Value: set}}
}

func exclude(fields ...string) bson.D {
	project := bson.D{}
	for _, f := range fields {
		project = append(project, bson.E{Key: f, Value: 0})
	}
	return bson.D{{Key: "$project", Value: project}}
}

// textMatch builds the q condition: a case-insensitive literal substring
// match on any of fields. It returns the zero element for an empty q.
func textMatch(q string, fields ...string) bson.E {
	if q == "" {
		return bson.E{}
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	or := bson.A{}
	for _, f := range fields {
		or = append(or, bson.D{{Key: f, Value: re}})
	}
	return bson.E{Key: "$or", Value: or}
}

// match builds a $match stage from the non-empty conditions. It returns nil
// when there is nothing to filter on.
func match(conds ...bson.E) bson.D {
	filter := bson.D{}
	for _, c := range conds {
		if c.Key != "" {
			filter = append(filter, c)
		}
	}
	if len(filter) == 0 {
		return nil
	}
	return bson.D{{Key: "$match", Value: filter}}
}

// facet sorts, pages and counts the matched documents in one stage and
// flattens the count.
func facet(q search.Query) []bson.D {
	dir := 1
	if q.Descending() {
		dir = -1
	}
	sort := bson.D{{Key: q.SortBy, Value: dir}}
	if q.SortBy != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}

	return []bson.D{
		{{Key: "$facet", Value: bson.D{
			{Key: "data", Value: bson.A{
				bson.D{{Key: "$sort", Value: sort}},
				bson.D{{Key: "$skip", Value: int64(q.Skip())}},
				bson.D{{Key: "$limit", Value: int64(q.Limit)}},
			}},
			{Key: "total", Value: bson.A{
				bson.D{{Key: "$count", Value: "count"}},
			}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "data", Value: 1},
			{Key: "total", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$arrayElemAt", Value: bson.A{"$total.count", 0}}},
				0,
			}}}},
		}}},
	}
}

// build drops nil stages and appends the facet.
func build(q search.Query, stages ...bson.D) mongo.Pipeline {
	p := mongo.Pipeline{}
	for _, s := range stages {
		if s != nil {
			p = append(p, s)
		}
	}
	return append(p, facet(q)...)
}

// PostSearchPipeline joins author and category, drops posts missing either,
// and filters on q and category.
func PostSearchPipeline(q search.Query, category *primitive.ObjectID) mongo.Pipeline {
	var byCategory bson.E
	if category != nil {
		byCategory = bson.E{Key: "category._id", Value: *category}
	}
	return build(q,
		lookup(UsersCollection, "user", "user", "username", "email", "avatar"),
		unwind("user"),
		lookup(CategoriesCollection, "category", "category"),
		unwind("category"),
		match(textMatch(q.Q, "title", "content", "user.username", "user.email", "category.name"), byCategory),
		exclude("likes"),
	)
}

// CommentSearchPipeline joins author and post and filters on q.
func CommentSearchPipeline(q search.Query) mongo.Pipeline {
	return build(q,
		lookup(UsersCollection, "user", "user", "username"),
		unwind("user"),
		lookup(PostsCollection, "post", "post", "title"),
		unwind("post"),
		match(textMatch(q.Q, "text", "user.username", "post.title")),
	)
}

// CategorySearchPipeline counts the posts of each category and filters on q.
func CategorySearchPipeline(q search.Query) mongo.Pipeline {
	countPosts := bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: PostsCollection},
		{Key: "localField", Value: "_id"},
		{Key: "foreignField", Value: "category"},
		{Key: "as", Value: "posts"},
		{Key: "pipeline", Value: mongo.Pipeline{{{Key: "$project", Value: bson.D{{Key: "_id", Value: 1}}}}}},
	}}}
	totalPosts := bson.D{{Key: "$addFields", Value: bson.D{
		{Key: "totalPosts", Value: bson.D{{Key: "$size", Value: "$posts"}}},
	}}}
	return build(q,
		countPosts,
		totalPosts,
		exclude("posts"),
		match(textMatch(q.Q, "name")),
	)
}

// UserSearchPipeline leaves out the requester, joins the role and filters
// on q.
func UserSearchPipeline(q search.Query, requester primitive.ObjectID) mongo.Pipeline {
	notRequester := bson.E{Key: "_id", Value: bson.D{{Key: "$ne", Value: requester}}}
	return build(q,
		match(notRequester),
		lookup(RolesCollection, "role", "role", "name"),
		unwind("role"),
		match(textMatch(q.Q, "username", "email", "role.name")),
		exclude("password"),
	)
}

// RoleSearchPipeline filters roles on q.
func RoleSearchPipeline(q search.Query) mongo.Pipeline {
	return build(q, match(textMatch(q.Q, "name")))
}

// CommentsByPostPipeline lists a post's comments with their authors, oldest
// first.
func CommentsByPostPipeline(postID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		match(bson.E{Key: "post", Value: postID}),
		lookup(UsersCollection, "user", "user", "username", "email", "avatar"),
		unwind("user"),
		exclude("post"),
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}}},
	}
}

// PostDetailPipeline loads one post with author and category.
func PostDetailPipeline(id primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		match(bson.E{Key: "_id", Value: id}),
		lookup(UsersCollection, "user", "user", "username", "email", "avatar"),
		lookup(CategoriesCollection, "category", "category"),
		first("user", "category"),
	}
}

// UserDetailPipeline loads one user with its role.
func UserDetailPipeline(id primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		match(bson.E{Key: "_id", Value: id}),
		lookup(RolesCollection, "role", "role", "name"),
		first("role"),
		exclude("password"),
	}
}
