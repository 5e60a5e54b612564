package util

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performResponse(t *testing.T, write func(c *gin.Context)) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	write(c)

	var body Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder, body
}

func TestSuccess(t *testing.T) {
	recorder, body := performResponse(t, func(c *gin.Context) {
		Success(c, gin.H{"xp": 130})
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, http.StatusOK, body.Code)
	assert.Equal(t, "success", body.Message)
	assert.NotNil(t, body.Data)
}

func TestCreated(t *testing.T) {
	recorder, body := performResponse(t, func(c *gin.Context) {
		Created(c, gin.H{"id": "abc"})
	})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "created", body.Message)
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name       string
		write      func(c *gin.Context)
		wantStatus int
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "参数错误") }, http.StatusBadRequest},
		{"not found", func(c *gin.Context) { NotFound(c) }, http.StatusNotFound},
		{"conflict", func(c *gin.Context) { Conflict(c, "版本冲突") }, http.StatusConflict},
		{"bad gateway", func(c *gin.Context) { BadGateway(c, "上游不可用") }, http.StatusBadGateway},
		{"internal", func(c *gin.Context) { InternalServerError(c) }, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, body := performResponse(t, tt.write)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantStatus, body.Code)
			assert.NotEmpty(t, body.Message)
			assert.Nil(t, body.Data)
		})
	}
}
