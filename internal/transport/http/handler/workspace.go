package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nandinikorlakanti/know-ai-space/internal/app"
	"github.com/Nandinikorlakanti/know-ai-space/internal/transport/http/response"
)

const maxUploadSize = 10 << 20 // 10 MB

type WorkspaceHandler struct {
	workspaces *app.WorkspaceService
}

func NewWorkspaceHandler(workspaces *app.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

type CreateWorkspaceRequest struct {
	Workspace string `json:"workspace" binding:"required,max=128"`
}

type AddPageRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags"`
}

type UpdatePageRequest struct {
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
}

func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	name, err := h.workspaces.CreateWorkspace(c.Request.Context(), req.Workspace)
	if err != nil {
		writeServiceError(c, err, "create workspace failed")
		return
	}
	response.OK(c, gin.H{"workspace": name})
}

func (h *WorkspaceHandler) List(c *gin.Context) {
	names, err := h.workspaces.ListWorkspaces(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list workspaces failed")
		return
	}
	if names == nil {
		names = []string{}
	}
	response.OK(c, names)
}

func (h *WorkspaceHandler) ListPages(c *gin.Context) {
	pages, err := h.workspaces.ListPages(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeServiceError(c, err, "list pages failed")
		return
	}
	response.OK(c, pages)
}

func (h *WorkspaceHandler) ListDocuments(c *gin.Context) {
	docs, err := h.workspaces.ListDocuments(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeServiceError(c, err, "list documents failed")
		return
	}
	response.OK(c, gin.H{"documents": docs})
}

func (h *WorkspaceHandler) AddPage(c *gin.Context) {
	var req AddPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	page, err := h.workspaces.AddPage(c.Request.Context(), app.AddPageInput{
		Workspace: c.Param("name"),
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
	})
	if err != nil {
		writeServiceError(c, err, "add page failed")
		return
	}
	response.OK(c, gin.H{"page_id": page.ID})
}

func (h *WorkspaceHandler) UpdatePage(c *gin.Context) {
	var req UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	page, err := h.workspaces.UpdatePage(c.Request.Context(), app.UpdatePageInput{
		Workspace: c.Param("name"),
		PageID:    c.Param("id"),
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
	})
	if err != nil {
		writeServiceError(c, err, "update page failed")
		return
	}
	response.OK(c, gin.H{"page_id": page.ID})
}

func (h *WorkspaceHandler) DeletePage(c *gin.Context) {
	if err := h.workspaces.DeletePage(c.Request.Context(), c.Param("name"), c.Param("id")); err != nil {
		writeServiceError(c, err, "delete page failed")
		return
	}
	response.OK(c, gin.H{"deleted_page_id": c.Param("id")})
}

// Upload accepts a multipart form with "file" and ingests it as a page.
func (h *WorkspaceHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > maxUploadSize {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large (max 10MB)")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	page, err := h.workspaces.UploadFile(c.Request.Context(), c.Param("name"), file.Filename, f)
	if err != nil {
		writeServiceError(c, err, "upload failed")
		return
	}
	response.OK(c, gin.H{"page_id": page.ID, "title": page.Title})
}

// writeServiceError maps service sentinel errors onto the response
// envelope without leaking internals for unexpected failures.
func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidWorkspaceName):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidWorkspace, app.ErrInvalidWorkspaceName.Error())
	case errors.Is(err, app.ErrUnsupportedFileType):
		response.Error(c, http.StatusBadRequest, response.CodeUnsupportedFile, app.ErrUnsupportedFileType.Error())
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrPageNotFound):
		response.Error(c, http.StatusNotFound, response.CodePageNotFound, app.ErrPageNotFound.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
