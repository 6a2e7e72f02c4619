package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nandinikorlakanti/know-ai-space/internal/app"
	"github.com/Nandinikorlakanti/know-ai-space/internal/index"
	"github.com/Nandinikorlakanti/know-ai-space/internal/repository"
	"github.com/Nandinikorlakanti/know-ai-space/internal/transport/http/response"
)

// newTestRouter wires the handlers over an in-memory store with every
// model capability absent, which is exactly the degraded mode the fixed
// messages are specified for.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	idx := index.New()
	workspaces := app.NewWorkspaceService(store, nil, idx, nil, nil)
	knowledge := app.NewKnowledgeService(store, nil, nil, nil, idx, nil)

	wh := NewWorkspaceHandler(workspaces)
	kh := NewKnowledgeHandler(knowledge)

	router := gin.New()
	v1 := router.Group("/api/v1")
	ws := v1.Group("/workspaces")
	ws.POST("", wh.Create)
	ws.GET("", wh.List)
	ws.GET("/:name/pages", wh.ListPages)
	ws.POST("/:name/pages", wh.AddPage)
	ws.PUT("/:name/pages/:id", wh.UpdatePage)
	ws.DELETE("/:name/pages/:id", wh.DeletePage)
	ws.POST("/:name/upload", wh.Upload)
	ws.GET("/:name/documents", wh.ListDocuments)
	ws.POST("/:name/ask", kh.Ask)
	ws.POST("/:name/links", kh.SuggestLinks)
	ws.POST("/:name/tags", kh.GenerateTags)
	ws.GET("/:name/graph", kh.Graph)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (int, string, map[string]interface{}) {
	t.Helper()
	var envelope struct {
		Code    int                    `json:"code"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Code, envelope.Message, envelope.Data
}

func TestCreateWorkspaceSanitizesName(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/workspaces",
		gin.H{"workspace": "Team (2024)!"})

	require.Equal(t, http.StatusOK, rec.Code)
	code, _, data := decodeEnvelope(t, rec)
	assert.Equal(t, response.CodeOK, code)
	assert.Equal(t, "Team2024", data["workspace"])
}

func TestCreateWorkspaceInvalidName(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/workspaces",
		gin.H{"workspace": "///"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, _, _ := decodeEnvelope(t, rec)
	assert.Equal(t, response.CodeInvalidWorkspace, code)
}

func TestCreateWorkspaceMissingPayload(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/workspaces", gin.H{})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, _, _ := decodeEnvelope(t, rec)
	assert.Equal(t, response.CodeBadRequest, code)
}

func TestPageLifecycle(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/workspaces/team/pages",
		gin.H{"title": "Runbook", "content": "restart with systemctl", "tags": []string{"ops"}})
	require.Equal(t, http.StatusOK, rec.Code)
	_, _, data := decodeEnvelope(t, rec)
	pageID, ok := data["page_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, pageID)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/workspaces/team/pages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listEnvelope struct {
		Data []struct {
			PageID string   `json:"page_id"`
			Title  string   `json:"title"`
			Tags   []string `json:"tags"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listEnvelope))
	require.Len(t, listEnvelope.Data, 1)
	assert.Equal(t, pageID, listEnvelope.Data[0].PageID)
	assert.Equal(t, "Runbook", listEnvelope.Data[0].Title)
	assert.Equal(t, []string{"ops"}, listEnvelope.Data[0].Tags)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/workspaces/team/pages/"+pageID,
		gin.H{"title": "Ops runbook"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/workspaces/team/pages/"+pageID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, _, data = decodeEnvelope(t, rec)
	assert.Equal(t, pageID, data["deleted_page_id"])

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/workspaces/team/pages/"+pageID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	code, _, _ := decodeEnvelope(t, rec)
	assert.Equal(t, response.CodePageNotFound, code)
}

func TestAskEmptyWorkspaceMessage(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/workspaces/team/ask",
		gin.H{"question": "where are the docs?"})

	require.Equal(t, http.StatusOK, rec.Code)
	_, _, data := decodeEnvelope(t, rec)
	assert.Equal(t, app.MsgNoContent, data["answer"])
}

func TestAskModelUnavailableMessage(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/workspaces/team/pages",
		gin.H{"content": "the deploy procedure is documented here"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/workspaces/team/ask",
		gin.H{"question": "how do we deploy?"})
	require.Equal(t, http.StatusOK, rec.Code)
	_, _, data := decodeEnvelope(t, rec)
	assert.Equal(t, app.MsgQAUnavailable, data["answer"])
}

func TestGenerateTagsUnavailable(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/workspaces/team/tags",
		gin.H{"content": "some content"})

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	code, message, _ := decodeEnvelope(t, rec)
	assert.Equal(t, response.CodeModelUnavailable, code)
	assert.Contains(t, message, "not available")
}

func TestGraphUnavailableReturnsEmptyGraph(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodGet, "/api/v1/workspaces/team/graph", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	_, _, data := decodeEnvelope(t, rec)
	assert.Empty(t, data["nodes"])
	assert.Empty(t, data["edges"])
	assert.NotEmpty(t, data["error"])
}

func TestSuggestLinksKeywordFallbackOverHTTP(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/workspaces/team/pages",
		gin.H{"title": "Deploy guide", "content": "deploy and rollback procedures"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/workspaces/team/links",
		gin.H{"text": "deploy rollback"})
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Suggestions []struct {
				TargetPage string  `json:"targetPage"`
				Confidence float64 `json:"confidence"`
				Reason     string  `json:"reason"`
			} `json:"suggestions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Suggestions, 1)
	assert.Equal(t, "Deploy guide", envelope.Data.Suggestions[0].TargetPage)
	assert.Contains(t, envelope.Data.Suggestions[0].Reason, "relevant keywords")
}

func TestUploadTextFileOverHTTP(t *testing.T) {
	router := newTestRouter()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("notes from the weekly sync"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspaces/team/upload", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	_, _, data := decodeEnvelope(t, rec)
	assert.Equal(t, "notes", data["title"])
	assert.NotEmpty(t, data["page_id"])
}

func TestUploadUnsupportedFileType(t *testing.T) {
	router := newTestRouter()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "binary.exe")
	require.NoError(t, err)
	_, err = part.Write([]byte("MZ"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspaces/team/upload", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, _, _ := decodeEnvelope(t, rec)
	assert.Equal(t, response.CodeUnsupportedFile, code)
}

func TestListWorkspacesEmpty(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodGet, "/api/v1/workspaces", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, strings.TrimSpace(`{"code":0,"message":"ok","data":[]}`), strings.TrimSpace(rec.Body.String()))
}
