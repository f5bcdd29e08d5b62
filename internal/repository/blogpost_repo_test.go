package repository

import (
	"context"
	"regexp"
	"testing"

	"nexafolio/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestBlogPostRepository_GetBySlug(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBlogPostRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "content", "slug", "tags"}).
		AddRow(7, "Hello", "world", "hello-world", []byte(`["go","web"]`))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "blog_posts" WHERE slug = $1 ORDER BY "blog_posts"."id" LIMIT $2`)).
		WithArgs("hello-world", 1).
		WillReturnRows(rows)

	post, err := repo.GetBySlug(context.Background(), "hello-world")
	assert.NoError(t, err)
	if assert.NotNil(t, post) {
		assert.Equal(t, uint(7), post.ID)
		assert.Equal(t, models.Tags{"go", "web"}, post.Tags)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogPostRepository_GetBySlugNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBlogPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "blog_posts" WHERE slug = $1 ORDER BY "blog_posts"."id" LIMIT $2`)).
		WithArgs("missing", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.GetBySlug(context.Background(), "missing")
	assert.True(t, models.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogPostRepository_ListOrdersNewestFirst(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBlogPostRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "slug", "tags"}).
		AddRow(2, "Newer", "newer", []byte(`[]`)).
		AddRow(1, "Older", "older", []byte(`[]`))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "blog_posts" ORDER BY created_at DESC,id DESC`)).
		WillReturnRows(rows)

	posts, err := repo.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, "Newer", posts[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogPostRepository_CreateSlugConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBlogPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "blog_posts"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_blog_posts_slug"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.BlogPost{Title: "Dup", Content: "c", Slug: "dup"})
	assert.True(t, models.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_ListOrdersByPriority(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "priority", "tags"}).
		AddRow(3, "high", 10, []byte(`[]`)).
		AddRow(1, "low", 1, []byte(`[]`))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "projects" ORDER BY priority DESC,id ASC`)).
		WillReturnRows(rows)

	projects, err := repo.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, projects, 2)
	assert.Equal(t, "high", projects[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
