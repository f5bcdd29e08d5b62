package server

import (
	"log/slog"
	"time"

	"nexafolio/internal/cache"
	"nexafolio/internal/models"

	"github.com/gofiber/fiber/v2"
)

const projectListCacheKey = "projects:list"

type createProjectRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ImageURL    string      `json:"imageUrl"`
	ProjectURL  string      `json:"projectUrl"`
	GithubURL   string      `json:"githubUrl"`
	Tags        models.Tags `json:"tags"`
	Featured    bool        `json:"featured"`
	Priority    int         `json:"priority"`
}

type updateProjectRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	ImageURL    *string      `json:"imageUrl"`
	ProjectURL  *string      `json:"projectUrl"`
	GithubURL   *string      `json:"githubUrl"`
	Tags        *models.Tags `json:"tags"`
	Featured    *bool        `json:"featured"`
	Priority    *int         `json:"priority"`
}

// ListProjects returns all projects ordered by priority (highest
// first). The list is served through a short-lived cache.
func (s *Server) ListProjects(c *fiber.Ctx) error {
	projects := []models.Project{}
	err := cache.Aside(c.Context(), s.redis, projectListCacheKey, &projects, time.Minute,
		func() error {
			fresh, err := s.projectRepo.List(c.Context())
			if err != nil {
				return err
			}
			projects = fresh
			return nil
		})
	if err != nil {
		return models.RespondWithStoreError(c, err)
	}
	return c.JSON(projects)
}

// GetProject returns a single project by ID
func (s *Server) GetProject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	project, err := s.projectRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithStoreError(c, err)
	}
	return c.JSON(project)
}

// CreateProject creates a new project
func (s *Server) CreateProject(c *fiber.Ctx) error {
	var req createProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("title is required"))
	}
	if req.Description == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("description is required"))
	}
	if req.ImageURL == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("imageUrl is required"))
	}

	project := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		ProjectURL:  req.ProjectURL,
		GithubURL:   req.GithubURL,
		Tags:        req.Tags,
		Featured:    req.Featured,
		Priority:    req.Priority,
	}

	if err := s.projectRepo.Create(c.Context(), project); err != nil {
		return models.RespondWithStoreError(c, err)
	}

	s.invalidateProjectCache(c)
	s.log.Info("project created", slog.Uint64("project_id", uint64(project.ID)))
	return c.Status(fiber.StatusCreated).JSON(project)
}

// UpdateProject applies a partial update to a project. Absent fields
// keep their stored values.
func (s *Server) UpdateProject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	project, err := s.projectRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithStoreError(c, err)
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.ImageURL != nil {
		project.ImageURL = *req.ImageURL
	}
	if req.ProjectURL != nil {
		project.ProjectURL = *req.ProjectURL
	}
	if req.GithubURL != nil {
		project.GithubURL = *req.GithubURL
	}
	if req.Tags != nil {
		project.Tags = *req.Tags
	}
	if req.Featured != nil {
		project.Featured = *req.Featured
	}
	if req.Priority != nil {
		project.Priority = *req.Priority
	}

	if err := s.projectRepo.Update(c.Context(), project); err != nil {
		return models.RespondWithStoreError(c, err)
	}

	s.invalidateProjectCache(c)
	return c.JSON(project)
}

// DeleteProject removes a project. Deleting an absent project still
// succeeds.
func (s *Server) DeleteProject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.projectRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithStoreError(c, err)
	}

	s.invalidateProjectCache(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) invalidateProjectCache(c *fiber.Ctx) {
	cache.Invalidate(c.Context(), s.redis, projectListCacheKey)
}
