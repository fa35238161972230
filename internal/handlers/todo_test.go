package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type todoPayload struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Completed   bool   `json:"completed"`
	ProjectID   *uint  `json:"projectId"`
	Tags        []struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	} `json:"tags"`
	Project *struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
	} `json:"project"`
}

func createTodo(t *testing.T, r *gin.Engine, token string, body map[string]interface{}) todoPayload {
	t.Helper()

	w, env := doRequest(t, r, http.MethodPost, "/api/todos", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var todo todoPayload
	decodeData(t, env, &todo)
	return todo
}

func TestCreateTodoDefaults(t *testing.T) {
	r := setupTest(t)
	token := registerUser(t, r)

	todo := createTodo(t, r, token, map[string]interface{}{"title": "Buy milk"})

	assert.Equal(t, "Buy milk", todo.Title)
	assert.Equal(t, "Personal", todo.Category)
	assert.Equal(t, "medium", todo.Priority)
	assert.Equal(t, "todo", todo.Status)
	assert.False(t, todo.Completed)
}

func TestCreateTodoRequiresTitle(t *testing.T) {
	r := setupTest(t)
	token := registerUser(t, r)

	w, env := doRequest(t, r, http.MethodPost, "/api/todos", token, map[string]interface{}{
		"description": "no title",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestCreateTodoRejectsInvalidPriority(t *testing.T) {
	r := setupTest(t)
	token := registerUser(t, r)

	w, _ := doRequest(t, r, http.MethodPost, "/api/todos", token, map[string]interface{}{
		"title":    "Bad",
		"priority": "urgent",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTodoRejectsInvalidStatus(t *testing.T) {
	r := setupTest(t)
	token := registerUser(t, r)

	w, _ := doRequest(t, r, http.MethodPost, "/api/todos", token, map[string]interface{}{
		"title":  "Bad",
		"status": "review",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTodosWithFilters(t *testing.T) {
	r := setupTest(t)
	token := registerUser(t, r)

	createTodo(t, r, token, map[string]interface{}{"title": "High", "priority": "high"})
	createTodo(t, r, token, map[string]interface{}{"title": "Low", "priority": "low"})
	createTodo(t, r, token, map[string]interface{}{"title": "Done", "status": "completed"})

	w, env := doRequest(t, r, http.MethodGet, "/api/todos?priority=high", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)

	var todos []todoPayload
	decodeData(t, env, &todos)
	require.Len(t, todos, 1)
	assert.Equal(t, "High", todos[0].Title)

	w, env = doRequest(t, r, http.MethodGet, "/api/todos?completed=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &todos)
	require.Len(t, todos, 1)
	assert.Equal(t, "Done", todos[0].Title)
	assert.True(t, todos[0].Completed)

	w, env = doRequest(t, r, http.MethodGet, "/api/todos?completed=false", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &todos)
	assert.Len(t, todos, 2)
}

func TestListTodosDueToday(t *testing.T) {
	r := setupTest(t)
	token := registerUser(t, r)

	createTodo(t, r, token, map[string]interface{}{
		"title":    "Due soon",
		"priority": "high",
		"dueDate":  time.Now().Format(time.RFC3339),
	})

	w, env := doRequest(t, r, http.MethodGet, "/api/todos", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var todos []todoPayload
	decodeData(t, env, &todos)
	require.Len(t, todos, 1)
	assert.Equal(t, "high", todos[0].Priority)
}

func TestUpdateTodoMergePatch(t *testing.T) {
	r := setupTest(t)
	token := registerUser(t, r)

	todo := createTodo(t, r, token, map[string]interface{}{
		"title":       "Original",
		"description": "keep me",
		"priority":    "low",
	})

	w, env := doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/todos/%d", todo.ID), token, map[string]interface{}{
		"title": "Renamed",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated todoPayload
	decodeData(t, env, &updated)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	assert.Equal(t, "low", updated.Priority)
}

func TestUpdateTodoCompletedAlias(t *testing.T) {
	r := setupTest(t)
	token := registerUser(t, r)

	todo := createTodo(t, r, token, map[string]interface{}{"title": "Alias"})

	w, env := doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/todos/%d", todo.ID), token, map[string]interface{}{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated todoPayload
	decodeData(t, env, &updated)
	assert.Equal(t, "completed", updated.Status)
	assert.True(t, updated.Completed)

	w, env = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/todos/%d", todo.ID), token, map[string]interface{}{
		"completed": false,
	})
	require.Equal(t, http.StatusOK, w.Code)

	decodeData(t, env, &updated)
	assert.Equal(t, "todo", updated.Status)
	assert.False(t, updated.Completed)
}

// An explicit null clears the project and due date; leaving the fields out
// keeps them.
func TestUpdateTodoClearsProjectAndDueDate(t *testing.T) {
	r := setupTest(t)
	token := registerUser(t, r)

	project := createProject(t, r, token, map[string]interface{}{"name": "Holder"})
	todo := createTodo(t, r, token, map[string]interface{}{
		"title":     "Attached",
		"projectId": project.ID,
		"dueDate":   time.Now().Format(time.RFC3339),
	})
	require.NotNil(t, todo.ProjectID)

	// A patch that doesn't mention either field leaves both alone.
	w, env := doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/todos/%d", todo.ID), token, map[string]interface{}{
		"title": "Still attached",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		todoPayload
		DueDate *string `json:"dueDate"`
	}
	decodeData(t, env, &updated)
	require.NotNil(t, updated.ProjectID)
	require.NotNil(t, updated.DueDate)

	w, env = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/todos/%d", todo.ID), token, map[string]interface{}{
		"projectId": nil,
		"dueDate":   nil,
	})
	require.Equal(t, http.StatusOK, w.Code)

	decodeData(t, env, &updated)
	assert.Nil(t, updated.ProjectID)
	assert.Nil(t, updated.DueDate)
}

func TestToggleTodoTwiceRestoresState(t *testing.T) {
	r := setupTest(t)
	token := registerUser(t, r)

	todo := createTodo(t, r, token, map[string]interface{}{"title": "Flip", "status": "in-progress"})

	w, env := doRequest(t, r, http.MethodPatch, fmt.Sprintf("/api/todos/%d/toggle", todo.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var toggled todoPayload
	decodeData(t, env, &toggled)
	assert.Equal(t, "completed", toggled.Status)
	assert.True(t, toggled.Completed)

	w, env = doRequest(t, r, http.MethodPatch, fmt.Sprintf("/api/todos/%d/toggle", todo.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	decodeData(t, env, &toggled)
	assert.Equal(t, "todo", toggled.Status)
	assert.False(t, toggled.Completed)
}

func TestTodoCrossUserIsolation(t *testing.T) {
	r := setupTest(t)
	owner := registerUser(t, r)
	intruder := registerUser(t, r)

	todo := createTodo(t, r, owner, map[string]interface{}{"title": "Private"})

	w, _ := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/todos/%d", todo.ID), intruder, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/todos/%d", todo.ID), intruder, map[string]interface{}{
		"title": "Hijacked",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/todos/%d", todo.ID), intruder, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := doRequest(t, r, http.MethodGet, "/api/todos", intruder, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 0, *env.Count)
}

func TestDeleteTodo(t *testing.T) {
	r := setupTest(t)
	token := registerUser(t, r)

	todo := createTodo(t, r, token, map[string]interface{}{"title": "Remove me"})

	w, env := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/todos/%d", todo.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, env.Message, "deleted")

	w, _ = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/todos/%d", todo.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTodoWithTags(t *testing.T) {
	r := setupTest(t)
	token := registerUser(t, r)

	w, env := doRequest(t, r, http.MethodPost, "/api/tags", token, map[string]interface{}{"name": "work"})
	require.Equal(t, http.StatusCreated, w.Code)

	var tag struct {
		ID uint `json:"id"`
	}
	decodeData(t, env, &tag)

	todo := createTodo(t, r, token, map[string]interface{}{
		"title": "Tagged",
		"tags":  []uint{tag.ID},
	})

	w, env = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/todos/%d", todo.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched todoPayload
	decodeData(t, env, &fetched)
	require.Len(t, fetched.Tags, 1)
	assert.Equal(t, "work", fetched.Tags[0].Name)

	// Replacing with an empty list clears the association.
	w, env = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/todos/%d", todo.ID), token, map[string]interface{}{
		"tags": []uint{},
	})
	require.Equal(t, http.StatusOK, w.Code)

	decodeData(t, env, &fetched)
	assert.Empty(t, fetched.Tags)
}

func TestCreateTodoRejectsForeignProject(t *testing.T) {
	r := setupTest(t)
	owner := registerUser(t, r)
	intruder := registerUser(t, r)

	w, env := doRequest(t, r, http.MethodPost, "/api/projects", owner, map[string]interface{}{"name": "Mine"})
	require.Equal(t, http.StatusCreated, w.Code)

	var project struct {
		ID uint `json:"id"`
	}
	decodeData(t, env, &project)

	w, _ = doRequest(t, r, http.MethodPost, "/api/todos", intruder, map[string]interface{}{
		"title":     "Sneaky",
		"projectId": project.ID,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
