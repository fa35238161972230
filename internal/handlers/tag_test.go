package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagPayload struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
	Count int64  `json:"count"`
}

func createTag(t *testing.T, r *gin.Engine, token string, body map[string]interface{}) tagPayload {
	t.Helper()

	w, env := doRequest(t, r, http.MethodPost, "/api/tags", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var tag tagPayload
	decodeData(t, env, &tag)
	return tag
}

func TestCreateTagDefaults(t *testing.T) {
	r := setupTest(t)
	token := registerUser(t, r)

	tag := createTag(t, r, token, map[string]interface{}{"name": "urgent"})

	assert.Equal(t, "urgent", tag.Name)
	assert.Equal(t, "#6b7280", tag.Color)
}

func TestCreateTagRequiresName(t *testing.T) {
	r := setupTest(t)
	token := registerUser(t, r)

	w, _ := doRequest(t, r, http.MethodPost, "/api/tags", token, map[string]interface{}{
		"color": "#123456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTagsSortedWithCounts(t *testing.T) {
	r := setupTest(t)
	token := registerUser(t, r)

	zebra := createTag(t, r, token, map[string]interface{}{"name": "zebra"})
	createTag(t, r, token, map[string]interface{}{"name": "alpha"})

	createTodo(t, r, token, map[string]interface{}{"title": "One", "tags": []uint{zebra.ID}})
	createTodo(t, r, token, map[string]interface{}{"title": "Two", "tags": []uint{zebra.ID}})

	w, env := doRequest(t, r, http.MethodGet, "/api/tags", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tags []tagPayload
	decodeData(t, env, &tags)
	require.Len(t, tags, 2)

	assert.Equal(t, "alpha", tags[0].Name)
	assert.Equal(t, int64(0), tags[0].Count)
	assert.Equal(t, "zebra", tags[1].Name)
	assert.Equal(t, int64(2), tags[1].Count)
}

func TestUpdateTagMergePatch(t *testing.T) {
	r := setupTest(t)
	token := registerUser(t, r)

	tag := createTag(t, r, token, map[string]interface{}{"name": "work", "color": "#111111"})

	w, env := doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/tags/%d", tag.ID), token, map[string]interface{}{
		"color": "#222222",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated tagPayload
	decodeData(t, env, &updated)
	assert.Equal(t, "work", updated.Name)
	assert.Equal(t, "#222222", updated.Color)
}

// Deleting a tag detaches it from every todo but keeps the todos.
func TestDeleteTagKeepsTodos(t *testing.T) {
	r := setupTest(t)
	token := registerUser(t, r)

	tag := createTag(t, r, token, map[string]interface{}{"name": "doomed"})
	todo := createTodo(t, r, token, map[string]interface{}{"title": "Stays", "tags": []uint{tag.ID}})

	w, _ := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/tags/%d", tag.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/tags/%d", tag.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/todos/%d", todo.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched todoPayload
	decodeData(t, env, &fetched)
	assert.Equal(t, "Stays", fetched.Title)
	assert.Empty(t, fetched.Tags)
}

func TestTagCrossUserIsolation(t *testing.T) {
	r := setupTest(t)
	owner := registerUser(t, r)
	intruder := registerUser(t, r)

	tag := createTag(t, r, owner, map[string]interface{}{"name": "private"})

	w, _ := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/tags/%d", tag.ID), intruder, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/tags/%d", tag.ID), intruder, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
