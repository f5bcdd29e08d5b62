package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"nexafolio/internal/models"
)

// MemoryStore is a transient in-process implementation of all four
// repositories, selected at startup when no database is configured.
// It is development-only: contents are lost on restart and are not
// shared across process instances. Concurrency safety covers the plain
// list/filter semantics only.
type MemoryStore struct {
	mu sync.RWMutex

	nextUserID    uint
	nextProjectID uint
	nextPostID    uint
	nextMessageID uint

	users    []models.User
	projects []models.Project
	posts    []models.BlogPost
	messages []models.Message
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Users returns the store's UserRepository view.
func (s *MemoryStore) Users() UserRepository { return &memoryUserRepo{s} }

// Projects returns the store's ProjectRepository view.
func (s *MemoryStore) Projects() ProjectRepository { return &memoryProjectRepo{s} }

// BlogPosts returns the store's BlogPostRepository view.
func (s *MemoryStore) BlogPosts() BlogPostRepository { return &memoryBlogPostRepo{s} }

// Messages returns the store's MessageRepository view.
func (s *MemoryStore) Messages() MessageRepository { return &memoryMessageRepo{s} }

type memoryUserRepo struct{ s *MemoryStore }

func (r *memoryUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.users {
		if r.s.users[i].ID == id {
			u := r.s.users[i]
			return &u, nil
		}
	}
	return nil, models.NewNotFoundError("User", id)
}

func (r *memoryUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.users {
		if r.s.users[i].Username == username {
			u := r.s.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].Username == user.Username {
			return models.NewConflictError("username")
		}
	}
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	if user.Role == "" {
		user.Role = "admin"
	}
	r.s.users = append(r.s.users, *user)
	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].ID == user.ID {
			r.s.users[i] = *user
			return nil
		}
	}
	return models.NewNotFoundError("User", user.ID)
}

type memoryProjectRepo struct{ s *MemoryStore }

func (r *memoryProjectRepo) List(_ context.Context) ([]models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Project, len(r.s.projects))
	copy(out, r.s.projects)
	// Priority descending, insertion (id) order for ties.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memoryProjectRepo) GetByID(_ context.Context, id uint) (*models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.projects {
		if r.s.projects[i].ID == id {
			p := r.s.projects[i]
			return &p, nil
		}
	}
	return nil, models.NewNotFoundError("Project", id)
}

func (r *memoryProjectRepo) Create(_ context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextProjectID++
	project.ID = r.s.nextProjectID
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	if project.Tags == nil {
		project.Tags = models.Tags{}
	}
	r.s.projects = append(r.s.projects, *project)
	return nil
}

func (r *memoryProjectRepo) Update(_ context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.projects {
		if r.s.projects[i].ID == project.ID {
			project.UpdatedAt = time.Now()
			if project.Tags == nil {
				project.Tags = models.Tags{}
			}
			r.s.projects[i] = *project
			return nil
		}
	}
	return models.NewNotFoundError("Project", project.ID)
}

func (r *memoryProjectRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.projects {
		if r.s.projects[i].ID == id {
			r.s.projects = append(r.s.projects[:i], r.s.projects[i+1:]...)
			return nil
		}
	}
	return nil
}

type memoryBlogPostRepo struct{ s *MemoryStore }

func (r *memoryBlogPostRepo) List(_ context.Context) ([]models.BlogPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.BlogPost, len(r.s.posts))
	copy(out, r.s.posts)
	// Newest first, matching the database ordering.
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *memoryBlogPostRepo) GetByID(_ context.Context, id uint) (*models.BlogPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.posts {
		if r.s.posts[i].ID == id {
			p := r.s.posts[i]
			return &p, nil
		}
	}
	return nil, models.NewNotFoundError("Post", id)
}

func (r *memoryBlogPostRepo) GetBySlug(_ context.Context, slug string) (*models.BlogPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.posts {
		if r.s.posts[i].Slug == slug {
			p := r.s.posts[i]
			return &p, nil
		}
	}
	return nil, models.NewNotFoundError("Post", slug)
}

func (r *memoryBlogPostRepo) Create(_ context.Context, post *models.BlogPost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.posts {
		if r.s.posts[i].Slug == post.Slug {
			return models.NewConflictError("slug")
		}
	}
	r.s.nextPostID++
	post.ID = r.s.nextPostID
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Tags == nil {
		post.Tags = models.Tags{}
	}
	r.s.posts = append(r.s.posts, *post)
	return nil
}

func (r *memoryBlogPostRepo) Update(_ context.Context, post *models.BlogPost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.posts {
		if r.s.posts[i].Slug == post.Slug && r.s.posts[i].ID != post.ID {
			return models.NewConflictError("slug")
		}
	}
	for i := range r.s.posts {
		if r.s.posts[i].ID == post.ID {
			post.UpdatedAt = time.Now()
			if post.Tags == nil {
				post.Tags = models.Tags{}
			}
			r.s.posts[i] = *post
			return nil
		}
	}
	return models.NewNotFoundError("Post", post.ID)
}

func (r *memoryBlogPostRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.posts {
		if r.s.posts[i].ID == id {
			r.s.posts = append(r.s.posts[:i], r.s.posts[i+1:]...)
			return nil
		}
	}
	return nil
}

type memoryMessageRepo struct{ s *MemoryStore }

func (r *memoryMessageRepo) List(_ context.Context) ([]models.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Message, len(r.s.messages))
	copy(out, r.s.messages)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *memoryMessageRepo) Create(_ context.Context, message *models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextMessageID++
	message.ID = r.s.nextMessageID
	message.CreatedAt = time.Now()
	r.s.messages = append(r.s.messages, *message)
	return nil
}

func (r *memoryMessageRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.messages {
		if r.s.messages[i].ID == id {
			r.s.messages = append(r.s.messages[:i], r.s.messages[i+1:]...)
			return nil
		}
	}
	return nil
}
