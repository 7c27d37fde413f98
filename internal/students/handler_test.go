package students

import (
	"bytes"
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

func TestStudentHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestService(t))

	body := `{"student_id":"TEST001","name":"Test Student","course":"BSIT","year_level":1}`
	resp := performRequest(r, http.MethodPost, "/students", bytes.NewBufferString(body))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, "/students/TEST001", resp.Header().Get("Location"))
	assert.Contains(t, resp.Body.String(), `"created":true`)

	resp = performRequest(r, http.MethodPost, "/students", bytes.NewBufferString(body))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"created":false`)

	resp = performRequest(r, http.MethodPost, "/students", bytes.NewBufferString(`{"name":"x"}`))
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = performRequest(r, http.MethodGet, "/students/TEST001", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t,
		`{"student_id":"TEST001","name":"Test Student","course":"BSIT","year_level":1,"equipment_count":0}`,
		resp.Body.String())

	resp = performRequest(r, http.MethodGet, "/students/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "NOT_FOUND")

	resp = performRequest(r, http.MethodGet, "/students", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"total":1`)
}
