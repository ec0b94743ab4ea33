package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventhub/internal/helpers"
	"github.com/joshua-takyi/eventhub/internal/middleware"
	"github.com/joshua-takyi/eventhub/internal/models"
	"github.com/joshua-takyi/eventhub/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// brokenRepo fails every call the way an unreachable backend would.
type brokenRepo struct{}

var errBackend = errors.New("connection refused")

func (brokenRepo) CreateEvent(context.Context, string, models.EventPayload) (*models.Event, error) {
	return nil, errBackend
}

func (brokenRepo) GetEvent(context.Context, uint64) (*models.Event, error) {
	return nil, errBackend
}

func (brokenRepo) UpdateEvent(context.Context, string, uint64, models.EventPayload) (*models.Event, error) {
	return nil, errBackend
}

func (brokenRepo) DeleteEvent(context.Context, string, uint64) (*models.Event, error) {
	return nil, errBackend
}

func (brokenRepo) AttendEvent(context.Context, string, uint64) (*models.Event, error) {
	return nil, errBackend
}

func newRouter(repo models.EventRepo) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	es := services.NewEventService(repo, logger)

	r := gin.New()
	r.Use(middleware.ErrorHandler(logger))
	r.Use(func(c *gin.Context) {
		if caller := c.GetHeader("X-Test-Caller"); caller != "" {
			c.Set("user", &helpers.EnhancedClaims{UserID: caller})
		}
		c.Next()
	})
	r.GET("/events/:id", GetEvent(es))
	r.POST("/events/:id/attend", AttendEvent(es))
	return r
}

func TestBackendFailuresBecomeInternalErrors(t *testing.T) {
	r := newRouter(brokenRepo{})

	req := httptest.NewRequest(http.MethodGet, "/events/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if strings.Contains(w.Body.String(), errBackend.Error()) {
		t.Error("backend error leaked to the client")
	}
}

func TestAttendRequiresCaller(t *testing.T) {
	r := newRouter(models.NewMemoryRepo())

	req := httptest.NewRequest(http.MethodPost, "/events/0/attend", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAttendTwiceIsNotAnError(t *testing.T) {
	repo := models.NewMemoryRepo()
	_, _ = repo.CreateEvent(context.Background(), "owner", models.EventPayload{Title: "A"})
	r := newRouter(repo)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/events/0/attend", nil)
		req.Header.Set("X-Test-Caller", "guest")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("attempt %d: status = %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}

	e, _ := repo.GetEvent(context.Background(), 0)
	if len(e.Attendees) != 1 {
		t.Errorf("attendees = %v, want one entry", e.Attendees)
	}
}
