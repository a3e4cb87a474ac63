package mock

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/search"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostRepository is an in-memory PostRepository. Authors and categories
// used for joins are registered with AddUser and AddCategory. Setting Err
// makes every call fail with it.
type PostRepository struct {
	posts      map[primitive.ObjectID]*models.Post
	users      map[primitive.ObjectID]*models.User
	categories map[primitive.ObjectID]*models.Category
	mutex      sync.RWMutex

	Err error
}

// CategoryRepository is an in-memory CategoryRepository that counts List
// calls so cache behaviour can be observed.
type CategoryRepository struct {
	categories map[primitive.ObjectID]*models.Category
	mutex      sync.RWMutex

	ListCalls int
	Err       error
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:      make(map[primitive.ObjectID]*models.Post),
		users:      make(map[primitive.ObjectID]*models.User),
		categories: make(map[primitive.ObjectID]*models.Category),
	}
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[primitive.ObjectID]*models.Post)
}

// AddUser registers a user for joins.
func (m *PostRepository) AddUser(u *models.User) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.users[u.ID] = u
}

// AddCategory registers a category for joins.
func (m *PostRepository) AddCategory(c *models.Category) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.categories[c.ID] = c
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{
		categories: make(map[primitive.ObjectID]*models.Category),
	}
}

// PostRepository implementation
func (m *PostRepository) Create(ctx context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *PostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	out := *post
	out.Likes = slices.Clone(post.Likes)
	return &out, nil
}

func (m *PostRepository) GetDetail(ctx context.Context, id primitive.ObjectID) (*models.PostDetail, error) {
	post, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()
	var user *models.UserRef
	if u, ok := m.users[post.UserID]; ok {
		user = u.Ref(true)
	}
	var category *models.CategoryRef
	if c, ok := m.categories[post.CategoryID]; ok {
		category = c.Ref()
	}
	return &models.PostDetail{PostRow: post.Row(user, category), Likes: post.Likes}, nil
}

func (m *PostRepository) Update(ctx context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	existing, exists := m.posts[post.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	stored := *post
	stored.Likes = existing.Likes
	stored.TotalLikes = existing.TotalLikes
	m.posts[post.ID] = &stored
	return nil
}

func (m *PostRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	delete(m.posts, id)
	return post, nil
}

func (m *PostRepository) Search(ctx context.Context, q search.Query, category *primitive.ObjectID) (*search.Page[models.PostRow], error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	posts := make([]*models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, p)
	}
	rows := search.Unwind(posts, func(p *models.Post) (models.PostRow, bool) {
		u, ok := m.users[p.UserID]
		if !ok {
			return models.PostRow{}, false
		}
		c, ok := m.categories[p.CategoryID]
		if !ok {
			return models.PostRow{}, false
		}
		return p.Row(u.Ref(true), c.Ref()), true
	})

	var filters []func(models.PostRow) bool
	if category != nil {
		want := *category
		filters = append(filters, func(r models.PostRow) bool { return r.Category.ID == want })
	}
	return search.Run(rows, repositories.PostSchema, q, filters...)
}

func (m *PostRepository) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (models.LikeResult, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return models.LikeResult{}, m.Err
	}

	post, exists := m.posts[postID]
	if !exists {
		return models.LikeResult{}, repositories.ErrNotFound
	}
	liked := post.ToggleLike(userID)
	return models.LikeResult{Liked: liked, TotalLikes: post.TotalLikes}, nil
}

func (m *PostRepository) Count(ctx context.Context) (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.posts), m.Err
}

func (m *PostRepository) TotalLikes(ctx context.Context) (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	total := 0
	for _, p := range m.posts {
		total += p.TotalLikes
	}
	return total, m.Err
}

// CategoryRepository implementation
func (m *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	for _, c := range m.categories {
		if c.Name == category.Name {
			return &repositories.DuplicateError{Field: "name"}
		}
	}
	stored := *category
	m.categories[category.ID] = &stored
	return nil
}

func (m *CategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	category, exists := m.categories[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	out := *category
	return &out, nil
}

func (m *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, exists := m.categories[category.ID]; !exists {
		return repositories.ErrNotFound
	}
	for id, c := range m.categories {
		if id != category.ID && c.Name == category.Name {
			return &repositories.DuplicateError{Field: "name"}
		}
	}
	stored := *category
	m.categories[category.ID] = &stored
	return nil
}

func (m *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, exists := m.categories[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *CategoryRepository) List(ctx context.Context) ([]models.CategoryOption, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.ListCalls++
	if m.Err != nil {
		return nil, m.Err
	}

	options := make([]models.CategoryOption, 0, len(m.categories))
	for _, c := range m.categories {
		options = append(options, models.CategoryOption{ID: c.ID, Name: c.Name})
	}
	slices.SortFunc(options, func(a, b models.CategoryOption) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return options, nil
}

func (m *CategoryRepository) Search(ctx context.Context, q search.Query) (*search.Page[models.CategoryRow], error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	rows := make([]models.CategoryRow, 0, len(m.categories))
	for _, c := range m.categories {
		rows = append(rows, models.CategoryRow{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt})
	}
	return search.Run(rows, repositories.CategorySchema, q)
}

func (m *CategoryRepository) Count(ctx context.Context) (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.categories), m.Err
}

var (
	_ repositories.PostRepository     = (*PostRepository)(nil)
	_ repositories.CategoryRepository = (*CategoryRepository)(nil)
)
