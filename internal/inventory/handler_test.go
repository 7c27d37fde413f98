package inventory

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performRequest(r http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestService(t))
	return r
}

func TestInventoryHandlers(t *testing.T) {
	r := setupRouter(t)

	resp := performRequest(r, http.MethodPost, "/inventory", bytes.NewBufferString(`{"name":"Beaker","quantity":20}`))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created ItemResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, "/inventory/1", resp.Header().Get("Location"))

	resp = performRequest(r, http.MethodPost, "/inventory", bytes.NewBufferString(`{"name":"Beaker","quantity":1}`))
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "DUPLICATE_KEY")

	resp = performRequest(r, http.MethodPut, "/inventory/1", bytes.NewBufferString(`{"quantity":12}`))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"quantity":12`)

	resp = performRequest(r, http.MethodPut, "/inventory/1", bytes.NewBufferString(`{}`))
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = performRequest(r, http.MethodGet, "/inventory/lookup?name=Beaker", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"name":"Beaker","quantity":12}`, resp.Body.String())

	resp = performRequest(r, http.MethodGet, "/inventory", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"total":1`)

	resp = performRequest(r, http.MethodGet, "/inventory/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = performRequest(r, http.MethodDelete, "/inventory/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = performRequest(r, http.MethodGet, "/inventory/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
