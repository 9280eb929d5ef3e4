package marketplace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/sudo-init-do/gearhub/internal/listing"
	"github.com/sudo-init-do/gearhub/internal/middleware"
)

func f64(v float64) *float64 { return &v }

type recordingEnqueuer struct {
	types []string
}

func (e *recordingEnqueuer) Enqueue(_ context.Context, task *asynq.Task) error {
	e.types = append(e.types, task.Type())
	return nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = middleware.NewValidator()
	return e
}

type caller struct {
	id, role, name, email string
}

var (
	owner    = caller{id: "owner-1", role: middleware.RoleOwner, name: "Olive", email: "olive@example.com"}
	renter   = caller{id: "renter-1", role: middleware.RoleRenter, name: "Reed", email: "reed@example.com"}
	stranger = caller{id: "stranger-1", role: middleware.RoleRenter}
)

// call runs h against a request as who. params alternate name, value.
func call(t *testing.T, e *echo.Echo, h echo.HandlerFunc, method, target, body string, who *caller, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	if who != nil {
		c.Set(middleware.KeyUserID, who.id)
		c.Set(middleware.KeyRole, who.role)
		c.Set(middleware.KeyName, who.name)
		c.Set(middleware.KeyEmail, who.email)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func board() listing.Listing {
	return listing.Listing{
		ID:           "board",
		Name:         "Freeride Snowboard",
		Category:     "snowboards",
		PricePerDay:  20,
		PricePerWeek: f64(100),
		Status:       listing.StatusActive,
		Owner:        listing.Owner{ID: owner.id, Name: owner.name, Email: owner.email},
	}
}
