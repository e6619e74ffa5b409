package handler

import (
	"errors"
	"net/http"

	"letsarc/internal/model"
	"letsarc/internal/repository"
	"letsarc/internal/service/project"
	"letsarc/internal/service/view"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	service *project.Service
	logger  *zap.Logger
}

func NewProjectHandler(service *project.Service, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{service: service, logger: logger}
}

type projectRequest struct {
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	ProjectName   string          `json:"projectName"`
	ClientName    string          `json:"clientName"`
	ContactNumber string          `json:"contactNumber"`
	Email         string          `json:"email"`
	Date          string          `json:"date"`
	Progress      *model.Progress `json:"progress"`
}

type updateRequest struct {
	FirstName     *string         `json:"firstName"`
	LastName      *string         `json:"lastName"`
	ProjectName   *string         `json:"projectName"`
	ClientName    *string         `json:"clientName"`
	ContactNumber *string         `json:"contactNumber"`
	Email         *string         `json:"email"`
	Date          *string         `json:"date"`
	Progress      *model.Progress `json:"progress"`
}

func (r updateRequest) params() repository.UpdateParams {
	return repository.UpdateParams{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		ProjectName:   r.ProjectName,
		ClientName:    r.ClientName,
		ContactNumber: r.ContactNumber,
		Email:         r.Email,
		Date:          r.Date,
		Progress:      r.Progress,
	}
}

// ListProjects handles GET /api/adminprojects. View Engine parameters come in
// as query params; with none set, the full collection is returned.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	params := view.Params{
		Status:       view.StatusFilter(c.Query("status")),
		Client:       c.Query("client"),
		Search:       c.Query("q"),
		ProgressSort: view.ProgressSort(c.Query("sortProgress")),
		DateSort:     view.DateSort(c.Query("sortDate")),
		Surface:      view.Surface(c.Query("surface")),
	}

	projects, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.Error("ListProjects: failed to fetch projects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch projects"})
		return
	}

	result := view.Apply(projects, params)
	h.logger.Info("ListProjects: success",
		zap.Int("total", len(projects)),
		zap.Int("returned", len(result)),
	)
	c.JSON(http.StatusOK, result)
}

// CreateProject handles POST /api/adminprojects.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p := &model.Project{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		ProjectName:   req.ProjectName,
		ClientName:    req.ClientName,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		Date:          req.Date,
	}
	if req.Progress != nil {
		p.Progress = *req.Progress
	}

	created, err := h.service.Create(c.Request.Context(), p)
	if err != nil {
		var validationErr *model.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.logger.Warn("CreateProject: missing required fields",
				zap.Strings("missing", validationErr.Missing),
			)
			c.JSON(http.StatusBadRequest, gin.H{"error": "all fields are required"})
		case errors.Is(err, repository.ErrDuplicateProjectName):
			c.JSON(http.StatusConflict, gin.H{"error": "project name already exists"})
		default:
			h.logger.Error("CreateProject: failed to create project", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		}
		return
	}

	h.logger.Info("CreateProject: success",
		zap.String("id", created.ID),
		zap.String("project_name", created.ProjectName),
	)
	c.JSON(http.StatusCreated, created)
}

// GetProject handles GET /api/adminprojects/:id.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id := c.Param("id")

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.Error("GetProject: failed to fetch project", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch project"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// UpdateProject handles PUT /api/adminprojects/:id (partial update).
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id := c.Param("id")

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, req.params())
	if err != nil {
		h.respondUpdateError(c, "UpdateProject", id, err)
		return
	}

	h.logger.Info("UpdateProject: success", zap.String("id", updated.ID))
	c.JSON(http.StatusOK, updated)
}

// UpdateProjectByName handles PUT /api/adminprojects/name/:projectName, the
// legacy name-keyed variant. The name resolves to an id internally.
func (h *ProjectHandler) UpdateProjectByName(c *gin.Context) {
	name := c.Param("projectName")

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	updated, err := h.service.UpdateByName(c.Request.Context(), name, req.params())
	if err != nil {
		h.respondUpdateError(c, "UpdateProjectByName", name, err)
		return
	}

	h.logger.Info("UpdateProjectByName: success", zap.String("project_name", name))
	c.JSON(http.StatusOK, updated)
}

func (h *ProjectHandler) respondUpdateError(c *gin.Context, op, key string, err error) {
	switch {
	case errors.Is(err, repository.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
	case errors.Is(err, repository.ErrDuplicateProjectName):
		c.JSON(http.StatusConflict, gin.H{"error": "project name already exists"})
	default:
		h.logger.Error(op+": failed to update project", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
	}
}

// DeleteProject handles DELETE /api/adminprojects/:projectName. Deletion is
// keyed by name for the legacy UI; the store deletes by resolved id.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	name := c.Param("projectName")

	if err := h.service.DeleteByName(c.Request.Context(), name); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.Error("DeleteProject: failed to delete project",
			zap.String("project_name", name),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project"})
		return
	}

	h.logger.Info("DeleteProject: success", zap.String("project_name", name))
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// AdvanceProject handles POST /api/adminprojects/:id/advance. Advancing a
// completed project is a 409, not a silent clamp.
func (h *ProjectHandler) AdvanceProject(c *gin.Context) {
	id := c.Param("id")

	advanced, err := h.service.Advance(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		case errors.Is(err, repository.ErrProjectCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "project already completed"})
		default:
			h.logger.Error("AdvanceProject: failed to advance project",
				zap.String("id", id),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to advance project"})
		}
		return
	}

	h.logger.Info("AdvanceProject: success",
		zap.String("id", advanced.ID),
		zap.Int("completed", advanced.Progress.Completed),
	)
	c.JSON(http.StatusOK, advanced)
}

// GetProjectStages handles GET /api/adminprojects/:id/stages, the Detail
// Panel projection of the stage catalog against one project's progress.
func (h *ProjectHandler) GetProjectStages(c *gin.Context) {
	id := c.Param("id")

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.Error("GetProjectStages: failed to fetch project", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projectName": p.ProjectName,
		"progress":    p.Progress,
		"stages":      model.PanelFor(p.Progress),
	})
}

// ListProjectClients handles GET /api/adminprojects/clients: the distinct
// clientName values feeding the filter dropdown.
func (h *ProjectHandler) ListProjectClients(c *gin.Context) {
	projects, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.Error("ListProjectClients: failed to fetch projects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch projects"})
		return
	}

	clients := view.Clients(projects)
	if clients == nil {
		clients = []string{}
	}
	c.JSON(http.StatusOK, clients)
}
