package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPracticeTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/resource", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"practice_id": GetPracticeID(c)})
	})
	return r
}

func TestPracticeMiddleware_ValidHeader(t *testing.T) {
	r := newPracticeTestRouter(PracticeMiddleware())
	practiceID := uuid.New().String()

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set(PracticeHeaderKey, practiceID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), practiceID)
}

func TestPracticeMiddleware_MissingHeaderRejected(t *testing.T) {
	r := newPracticeTestRouter(PracticeMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Practice identification required")
}

func TestPracticeMiddleware_InvalidFormatRejected(t *testing.T) {
	r := newPracticeTestRouter(PracticeMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set(PracticeHeaderKey, "not-a-uuid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid practice ID format")
}

func TestPracticeMiddleware_SkipPaths(t *testing.T) {
	r := newPracticeTestRouter(PracticeMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalPracticeMiddleware_AllowsMissingHeader(t *testing.T) {
	r := newPracticeTestRouter(OptionalPracticeMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetPracticeUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	practiceID := uuid.New()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(PracticeIDKey, practiceID.String())

	got, err := GetPracticeUUID(c)
	require.NoError(t, err)
	assert.Equal(t, practiceID, got)
}
