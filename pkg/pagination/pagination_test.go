package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return FromContext(e.NewContext(req, httptest.NewRecorder()))
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", DefaultLimit, 0},
		{"limit=10&offset=40", 10, 40},
		{"limit=0", DefaultLimit, 0},
		{"limit=-5", DefaultLimit, 0},
		{"limit=500", MaxLimit, 0},
		{"offset=-3", DefaultLimit, 0},
		{"limit=abc&offset=xyz", DefaultLimit, 0},
	}
	for _, tc := range cases {
		got := paramsFor(t, tc.query)
		if got.Limit != tc.wantLimit || got.Offset != tc.wantOffset {
			t.Errorf("query %q: got %+v, want limit=%d offset=%d", tc.query, got, tc.wantLimit, tc.wantOffset)
		}
	}
}

func TestNewResponse(t *testing.T) {
	resp := NewResponse([]string{"a", "b"}, 45, 20, 20)
	if !resp.HasMore {
		t.Errorf("offset 20 + limit 20 < total 45 should have more")
	}
	resp = NewResponse([]string{"a"}, 45, 20, 40)
	if resp.HasMore {
		t.Errorf("last page should not have more")
	}
}

func TestNextOffset(t *testing.T) {
	p := Params{Limit: 20, Offset: 40}
	if !p.HasNext(100) {
		t.Errorf("expected next page at total 100")
	}
	if p.HasNext(60) {
		t.Errorf("no next page when offset+limit == total")
	}
	if p.NextOffset() != 60 {
		t.Errorf("NextOffset = %d, want 60", p.NextOffset())
	}
}
