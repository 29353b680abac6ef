package endpoints

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/petition-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/store/mocks"
)

func TestHandleStatus(t *testing.T) {
	t.Run("returns ok when the database answers", func(t *testing.T) {
		health := mocks.NewMockHealthStore()
		health.On("CheckConnectivity", mock.Anything).Return(nil)

		w := httptest.NewRecorder()
		handleStatus(health)(w, httptest.NewRequest("GET", "/status", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		assert.JSONEq(t, `{"status":"ok","database":"ok"}`, w.Body.String())
		health.AssertExpectations(t)
	})

	t.Run("returns 503 when the database is unreachable", func(t *testing.T) {
		health := mocks.NewMockHealthStore()
		health.On("CheckConnectivity", mock.Anything).Return(errors.New("connection refused"))

		w := httptest.NewRecorder()
		handleStatus(health)(w, httptest.NewRequest("GET", "/status", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestRoutes(t *testing.T) {
	ts := newTestServer(t, 0)
	ts.health.On("CheckConnectivity", mock.Anything).Return(nil)
	b := ts.browser(t)

	t.Run("status", func(t *testing.T) {
		w := b.get("/status")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("stylesheet", func(t *testing.T) {
		w := b.get("/css/styles.css")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
	})

	t.Run("unknown route renders the 404 page", func(t *testing.T) {
		w := b.get("/no/such/page")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), http.StatusText(http.StatusNotFound))
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("login form via GET redirects", func(t *testing.T) {
		w := b.get("/login")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/admin", w.Header().Get("Location"))
	})

	t.Run("logout without a session", func(t *testing.T) {
		w := b.get("/logout")
		assert.Equal(t, http.StatusFound, w.Code)
	})
}
