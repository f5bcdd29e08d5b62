package server

import (
	"log/slog"
	"strconv"
	"time"

	"nexafolio/internal/cache"
	"nexafolio/internal/models"
	"nexafolio/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const blogListCacheKey = "blog:list"

type createBlogPostRequest struct {
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	Slug       string      `json:"slug"`
	Tags       models.Tags `json:"tags"`
	ImageURL   string      `json:"imageUrl"`
	References string      `json:"references"`
}

type updateBlogPostRequest struct {
	Title      *string      `json:"title"`
	Content    *string      `json:"content"`
	Slug       *string      `json:"slug"`
	Tags       *models.Tags `json:"tags"`
	ImageURL   *string      `json:"imageUrl"`
	References *string      `json:"references"`
}

// ListBlogPosts returns all posts, newest first.
func (s *Server) ListBlogPosts(c *fiber.Ctx) error {
	posts := []models.BlogPost{}
	err := cache.Aside(c.Context(), s.redis, blogListCacheKey, &posts, time.Minute,
		func() error {
			fresh, err := s.blogRepo.List(c.Context())
			if err != nil {
				return err
			}
			posts = fresh
			return nil
		})
	if err != nil {
		return models.RespondWithStoreError(c, err)
	}
	return c.JSON(posts)
}

// GetBlogPost resolves the path segment as a numeric ID when it is all
// digits, otherwise as a slug.
func (s *Server) GetBlogPost(c *fiber.Ctx) error {
	idOrSlug := c.Params("idOrSlug")

	var post *models.BlogPost
	var err error
	if isNumeric(idOrSlug) {
		id, perr := strconv.ParseUint(idOrSlug, 10, 32)
		if perr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("invalid id"))
		}
		post, err = s.blogRepo.GetByID(c.Context(), uint(id))
	} else {
		post, err = s.blogRepo.GetBySlug(c.Context(), idOrSlug)
	}
	if err != nil {
		return models.RespondWithStoreError(c, err)
	}
	return c.JSON(post)
}

// CreateBlogPost creates a post. Slugs must be lowercase kebab-case
// and unique; a duplicate slug is a client error.
func (s *Server) CreateBlogPost(c *fiber.Ctx) error {
	var req createBlogPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("title is required"))
	}
	if req.Content == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("content is required"))
	}
	if err := validation.ValidateSlug(req.Slug); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	post := &models.BlogPost{
		Title:      req.Title,
		Content:    req.Content,
		Slug:       req.Slug,
		Tags:       req.Tags,
		ImageURL:   req.ImageURL,
		References: req.References,
	}

	if err := s.blogRepo.Create(c.Context(), post); err != nil {
		return models.RespondWithStoreError(c, err)
	}

	s.invalidateBlogCache(c)
	s.log.Info("blog post created",
		slog.Uint64("post_id", uint64(post.ID)),
		slog.String("slug", post.Slug))
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdateBlogPost applies a partial update. Unlike reads, mutations
// address posts by numeric ID only.
func (s *Server) UpdateBlogPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updateBlogPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.blogRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithStoreError(c, err)
	}

	if req.Slug != nil {
		if err := validation.ValidateSlug(*req.Slug); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		post.Slug = *req.Slug
	}
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}
	if req.ImageURL != nil {
		post.ImageURL = *req.ImageURL
	}
	if req.References != nil {
		post.References = *req.References
	}

	if err := s.blogRepo.Update(c.Context(), post); err != nil {
		return models.RespondWithStoreError(c, err)
	}

	s.invalidateBlogCache(c)
	return c.JSON(post)
}

// DeleteBlogPost removes a post by numeric ID.
func (s *Server) DeleteBlogPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.blogRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithStoreError(c, err)
	}

	s.invalidateBlogCache(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) invalidateBlogCache(c *fiber.Ctx) {
	cache.Invalidate(c.Context(), s.redis, blogListCacheKey)
}
