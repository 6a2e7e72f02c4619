package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nandinikorlakanti/know-ai-space/internal/app"
	"github.com/Nandinikorlakanti/know-ai-space/internal/transport/http/response"
)

type KnowledgeHandler struct {
	knowledge *app.KnowledgeService
}

func NewKnowledgeHandler(knowledge *app.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{knowledge: knowledge}
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

type SuggestLinksRequest struct {
	Text         string `json:"text" binding:"required"`
	SourcePageID string `json:"source_page_id"`
}

type GenerateTagsRequest struct {
	Content string `json:"content"`
}

func (h *KnowledgeHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	answer, err := h.knowledge.Ask(c.Request.Context(), c.Param("name"), req.Question)
	if err != nil {
		writeServiceError(c, err, "ask failed")
		return
	}
	response.OK(c, gin.H{"answer": answer})
}

func (h *KnowledgeHandler) SuggestLinks(c *gin.Context) {
	var req SuggestLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	suggestions, err := h.knowledge.SuggestLinks(c.Request.Context(), app.SuggestLinksInput{
		Workspace:    c.Param("name"),
		Text:         req.Text,
		SourcePageID: req.SourcePageID,
	})
	if err != nil {
		writeServiceError(c, err, "suggest links failed")
		return
	}
	response.OK(c, gin.H{"suggestions": suggestions})
}

func (h *KnowledgeHandler) GenerateTags(c *gin.Context) {
	var req GenerateTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	result, err := h.knowledge.GenerateTags(c.Request.Context(), c.Param("name"), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNoContent):
			response.OK(c, gin.H{"tags": []any{}, "message": app.ErrNoContent.Error()})
		case errors.Is(err, app.ErrTaggingUnavailable):
			response.Error(c, http.StatusServiceUnavailable, response.CodeModelUnavailable, app.ErrTaggingUnavailable.Error())
		default:
			writeServiceError(c, err, "generate tags failed")
		}
		return
	}
	response.OK(c, result)
}

func (h *KnowledgeHandler) Graph(c *gin.Context) {
	graph, err := h.knowledge.Graph(c.Request.Context(), c.Param("name"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrGraphUnavailable):
			// Graph consumers render whatever they get; report the
			// capability gap alongside an empty graph.
			response.OK(c, gin.H{"nodes": graph.Nodes, "edges": graph.Edges, "error": app.ErrGraphUnavailable.Error()})
		default:
			writeServiceError(c, err, "build knowledge graph failed")
		}
		return
	}
	response.OK(c, graph)
}
