package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/common/httpmw"
	"github.com/taskdeck/taskdeck/internal/common/logger"
	"github.com/taskdeck/taskdeck/internal/events/bus"
	"github.com/taskdeck/taskdeck/internal/task/dto"
	"github.com/taskdeck/taskdeck/internal/task/models"
	"github.com/taskdeck/taskdeck/internal/task/repository"
	"github.com/taskdeck/taskdeck/internal/task/service"
)

// MockEventBus implements bus.EventBus for testing
type MockEventBus struct {
	mu        sync.Mutex
	published []*bus.Event
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{}
}

func (m *MockEventBus) Publish(ctx context.Context, subject string, event *bus.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, event)
	return nil
}

func (m *MockEventBus) Subscribe(subject string, handler bus.EventHandler) (bus.Subscription, error) {
	return nil, nil
}

func (m *MockEventBus) Close() {}

func (m *MockEventBus) IsConnected() bool {
	return true
}

// testAuth stamps a fixed user ID onto every request.
func testAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(httpmw.UserIDKey, userID)
		c.Next()
	}
}

func setupRouter(t *testing.T, userID string) (*gin.Engine, *repository.MemoryRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepository()
	for _, id := range []string{"u1", "u2"} {
		user := &models.User{ID: id, Name: "User " + id, Email: id + "@example.com", PasswordHash: "x"}
		if err := repo.CreateUser(context.Background(), user); err != nil {
			t.Fatalf("CreateUser %s: %v", id, err)
		}
	}
	log, _ := logger.NewLogger(logger.LoggingConfig{Level: "error", Format: "json", OutputPath: "stdout"})
	svc := service.NewService(repo, NewMockEventBus(), log)
	handler := NewHandler(svc, log)

	router := gin.New()
	group := router.Group("/api", testAuth(userID))
	handler.RegisterRoutes(group)
	return router, repo
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewBuffer(jsonBody)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateBoard(t *testing.T) {
	router, _ := setupRouter(t, "u1")

	w := doJSON(t, router, http.MethodPost, "/api/boards", dto.CreateBoardRequest{Name: "Sprint 1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp dto.BoardResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Name != "Sprint 1" || resp.OwnerID != "u1" || resp.ID == "" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandler_CreateBoard_DuplicateName(t *testing.T) {
	router, _ := setupRouter(t, "u1")

	if w := doJSON(t, router, http.MethodPost, "/api/boards", dto.CreateBoardRequest{Name: "Sprint 1"}); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	w := doJSON(t, router, http.MethodPost, "/api/boards", dto.CreateBoardRequest{Name: "SPRINT 1"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}

	var resp httpmw.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != http.StatusConflict {
		t.Errorf("expected status 409 in body, got %d", resp.Status)
	}
	if resp.Error != "Conflict" {
		t.Errorf("expected error Conflict, got %q", resp.Error)
	}
	if resp.Path != "/api/boards" {
		t.Errorf("expected path /api/boards, got %q", resp.Path)
	}
	if resp.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestHandler_CreateBoard_ValidationFailure(t *testing.T) {
	router, _ := setupRouter(t, "u1")

	w := doJSON(t, router, http.MethodPost, "/api/boards", map[string]string{"name": "ab"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var resp httpmw.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Fields) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(resp.Fields))
	}
	if resp.Fields[0].Field != "Name" {
		t.Errorf("expected field Name, got %q", resp.Fields[0].Field)
	}
}

func TestHandler_GetBoard_ForbiddenForOtherUser(t *testing.T) {
	ownerRouter, repo := setupRouter(t, "u1")

	w := doJSON(t, ownerRouter, http.MethodPost, "/api/boards", dto.CreateBoardRequest{Name: "Private"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var board dto.BoardResponse
	json.Unmarshal(w.Body.Bytes(), &board)

	// Same store, different caller.
	gin.SetMode(gin.TestMode)
	log, _ := logger.NewLogger(logger.LoggingConfig{Level: "error", Format: "json", OutputPath: "stdout"})
	svc := service.NewService(repo, NewMockEventBus(), log)
	otherRouter := gin.New()
	group := otherRouter.Group("/api", testAuth("u2"))
	NewHandler(svc, log).RegisterRoutes(group)

	if w := doJSON(t, otherRouter, http.MethodGet, "/api/boards/"+board.ID, nil); w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandler_DeleteBoard_CascadesToTasks(t *testing.T) {
	router, _ := setupRouter(t, "u1")

	w := doJSON(t, router, http.MethodPost, "/api/boards", dto.CreateBoardRequest{Name: "Alpha"})
	var board dto.BoardResponse
	json.Unmarshal(w.Body.Bytes(), &board)

	w = doJSON(t, router, http.MethodPost, "/api/columns", dto.CreateColumnRequest{BoardID: board.ID, Name: "Todo"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create column: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var column dto.ColumnResponse
	json.Unmarshal(w.Body.Bytes(), &column)

	w = doJSON(t, router, http.MethodPost, "/api/tasks", dto.CreateTaskRequest{ColumnID: column.ID, Title: "Ship it", Description: "cut the release"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create task: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var task dto.TaskResponse
	json.Unmarshal(w.Body.Bytes(), &task)

	if w := doJSON(t, router, http.MethodDelete, "/api/boards/"+board.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete board: expected 204, got %d", w.Code)
	}

	if w := doJSON(t, router, http.MethodGet, "/api/tasks/"+task.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after cascade, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandler_CreateTask_DescriptionRequired(t *testing.T) {
	router, _ := setupRouter(t, "u1")

	w := doJSON(t, router, http.MethodPost, "/api/boards", dto.CreateBoardRequest{Name: "Alpha"})
	var board dto.BoardResponse
	json.Unmarshal(w.Body.Bytes(), &board)

	w = doJSON(t, router, http.MethodPost, "/api/columns", dto.CreateColumnRequest{BoardID: board.ID, Name: "Todo"})
	var column dto.ColumnResponse
	json.Unmarshal(w.Body.Bytes(), &column)

	cases := map[string]map[string]string{
		"absent": {"columnId": column.ID, "title": "Ship it"},
		"blank":  {"columnId": column.ID, "title": "Ship it", "description": ""},
		"short":  {"columnId": column.ID, "title": "Ship it", "description": "ab"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/tasks", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}

			var resp httpmw.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if len(resp.Fields) != 1 || resp.Fields[0].Field != "Description" {
				t.Errorf("expected a Description field error, got %+v", resp.Fields)
			}
		})
	}
}

func TestHandler_UpdateTask_OmittedFields(t *testing.T) {
	router, _ := setupRouter(t, "u1")

	w := doJSON(t, router, http.MethodPost, "/api/boards", dto.CreateBoardRequest{Name: "Alpha"})
	var board dto.BoardResponse
	json.Unmarshal(w.Body.Bytes(), &board)

	w = doJSON(t, router, http.MethodPost, "/api/columns", dto.CreateColumnRequest{BoardID: board.ID, Name: "Todo"})
	var column dto.ColumnResponse
	json.Unmarshal(w.Body.Bytes(), &column)

	w = doJSON(t, router, http.MethodPost, "/api/tasks", dto.CreateTaskRequest{ColumnID: column.ID, Title: "Ship it", Description: "soon"})
	var task dto.TaskResponse
	json.Unmarshal(w.Body.Bytes(), &task)

	w = doJSON(t, router, http.MethodPut, "/api/tasks/"+task.ID, map[string]string{"description": "later"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated dto.TaskResponse
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Title != "Ship it" {
		t.Errorf("expected title unchanged, got %q", updated.Title)
	}
	if updated.Description != "later" {
		t.Errorf("expected description updated, got %q", updated.Description)
	}
}

func TestHandler_UpdateColumn_EmptyNameRejected(t *testing.T) {
	router, _ := setupRouter(t, "u1")

	w := doJSON(t, router, http.MethodPost, "/api/boards", dto.CreateBoardRequest{Name: "Alpha"})
	var board dto.BoardResponse
	json.Unmarshal(w.Body.Bytes(), &board)

	w = doJSON(t, router, http.MethodPost, "/api/columns", dto.CreateColumnRequest{BoardID: board.ID, Name: "Todo"})
	var column dto.ColumnResponse
	json.Unmarshal(w.Body.Bytes(), &column)

	w = doJSON(t, router, http.MethodPut, "/api/columns/"+column.ID, map[string]string{"name": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	// The column keeps its original name.
	w = doJSON(t, router, http.MethodGet, "/api/columns/"+column.ID, nil)
	var got dto.ColumnResponse
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.Name != "Todo" {
		t.Errorf("expected name unchanged, got %q", got.Name)
	}
}

func TestHandler_ListSubtasks(t *testing.T) {
	router, _ := setupRouter(t, "u1")

	w := doJSON(t, router, http.MethodPost, "/api/boards", dto.CreateBoardRequest{Name: "Alpha"})
	var board dto.BoardResponse
	json.Unmarshal(w.Body.Bytes(), &board)

	w = doJSON(t, router, http.MethodPost, "/api/columns", dto.CreateColumnRequest{BoardID: board.ID, Name: "Todo"})
	var column dto.ColumnResponse
	json.Unmarshal(w.Body.Bytes(), &column)

	w = doJSON(t, router, http.MethodPost, "/api/tasks", dto.CreateTaskRequest{ColumnID: column.ID, Title: "Ship it", Description: "cut the release"})
	var task dto.TaskResponse
	json.Unmarshal(w.Body.Bytes(), &task)

	for _, title := range []string{"Tag release", "Write notes"} {
		if w := doJSON(t, router, http.MethodPost, "/api/subtasks", dto.CreateSubtaskRequest{TaskID: task.ID, Title: title}); w.Code != http.StatusCreated {
			t.Fatalf("create subtask: expected 201, got %d: %s", w.Code, w.Body.String())
		}
	}

	w = doJSON(t, router, http.MethodGet, "/api/tasks/"+task.ID+"/subtasks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var subtasks []dto.SubtaskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &subtasks); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(subtasks) != 2 {
		t.Errorf("expected 2 subtasks, got %d", len(subtasks))
	}
}
