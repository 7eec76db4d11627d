package helper

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

func newCtx(t *testing.T, app *fiber.App, uri string) *fiber.Ctx {
	t.Helper()
	rc := &fasthttp.RequestCtx{}
	rc.Request.SetRequestURI(uri)
	return app.AcquireCtx(rc)
}

func TestResolvePaging(t *testing.T) {
	app := fiber.New()

	tests := []struct {
		name    string
		uri     string
		page    int
		perPage int
		offset  int
	}{
		{"defaults", "/", 1, 20, 0},
		{"explicit", "/?page=3&per_page=10", 3, 10, 20},
		{"limit alias", "/?limit=5", 1, 5, 0},
		{"capped", "/?per_page=500", 1, 100, 0},
		{"bad page", "/?page=-2", 1, 20, 0},
		{"bad per_page", "/?per_page=abc", 1, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCtx(t, app, tt.uri)
			defer app.ReleaseCtx(c)

			p := ResolvePaging(c, 20, 100)
			if p.Page != tt.page || p.PerPage != tt.perPage || p.Offset != tt.offset {
				t.Fatalf("got page=%d per_page=%d offset=%d", p.Page, p.PerPage, p.Offset)
			}
			if p.Limit != p.PerPage {
				t.Fatalf("limit %d != per_page %d", p.Limit, p.PerPage)
			}
		})
	}
}

func TestBuildPagination(t *testing.T) {
	p := BuildPagination(45, 2, 20)
	if p.TotalPages != 3 {
		t.Fatalf("total_pages: want 3, got %d", p.TotalPages)
	}
	if !p.HasNext || !p.HasPrev {
		t.Fatalf("middle page must have both neighbours: %+v", p)
	}

	empty := BuildPagination(0, 1, 20)
	if empty.TotalPages != 1 || empty.HasNext || empty.HasPrev {
		t.Fatalf("empty set: %+v", empty)
	}
}
