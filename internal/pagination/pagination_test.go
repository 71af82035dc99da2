package pagination

import (
	"errors"
	"math"
	"net/url"
	"testing"
)

func TestNewValidates(t *testing.T) {
	cases := []struct {
		page, limit int
		want        error
	}{
		{page: 0, limit: 2, want: ErrInvalidPage},
		{page: -3, limit: 2, want: ErrInvalidPage},
		{page: 1, limit: 0, want: ErrInvalidLimit},
		{page: 1, limit: -1, want: ErrInvalidLimit},
		{page: 1, limit: 1},
		{page: math.MaxInt, limit: 2, want: ErrInvalidPage},
		{page: math.MaxInt/2 + 2, limit: 2, want: ErrInvalidPage},
		{page: math.MaxInt/2 + 1, limit: 2},
		{page: math.MaxInt, limit: 1},
	}
	for _, tc := range cases {
		req, err := New(tc.page, tc.limit)
		if !errors.Is(err, tc.want) {
			t.Fatalf("New(%d, %d) error = %v, want %v", tc.page, tc.limit, err, tc.want)
		}
		if err == nil && req.Offset() < 0 {
			t.Fatalf("New(%d, %d) offset overflowed to %d", tc.page, tc.limit, req.Offset())
		}
	}

	req, err := New(2, 500)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if req.Limit != MaxLimit {
		t.Fatalf("expected limit to be clamped to %d, got %d", MaxLimit, req.Limit)
	}
}

func TestOffsetAndTotalPages(t *testing.T) {
	for page := 1; page <= 7; page++ {
		for limit := 1; limit <= 9; limit++ {
			req, err := New(page, limit)
			if err != nil {
				t.Fatalf("New(%d, %d): %v", page, limit, err)
			}
			if got, want := req.Offset(), (page-1)*limit; got != want {
				t.Fatalf("Offset() = %d, want %d", got, want)
			}
			for total := 0; total <= 20; total++ {
				want := total / limit
				if total%limit != 0 {
					want++
				}
				meta := Build(req, total, &url.URL{Path: "/courses"})
				if meta.TotalPages != want {
					t.Fatalf("TotalPages(%d, %d) = %d, want %d", total, limit, meta.TotalPages, want)
				}
				if (meta.NextPage != "") != (page < meta.TotalPages) {
					t.Fatalf("nextPage presence wrong for page=%d total=%d limit=%d", page, total, limit)
				}
				if (meta.PrevPage != "") != (page > 1) {
					t.Fatalf("prevPage presence wrong for page=%d", page)
				}
			}
		}
	}
}

func TestBuildFiveItemsLimitTwo(t *testing.T) {
	base, _ := url.Parse("/courses/category/cs?page=1&limit=2")

	first := Build(Request{Page: 1, Limit: 2}, 5, base)
	if first.TotalPages != 3 || first.PageSize != 2 || first.TotalCount != 5 {
		t.Fatalf("unexpected meta: %+v", first)
	}
	if first.NextPage != "/courses/category/cs?limit=2&page=2" {
		t.Fatalf("unexpected next link: %q", first.NextPage)
	}
	if first.PrevPage != "" {
		t.Fatalf("expected no prev link, got %q", first.PrevPage)
	}

	last := Build(Request{Page: 3, Limit: 2}, 5, base)
	if last.NextPage != "" {
		t.Fatalf("expected no next link, got %q", last.NextPage)
	}
	if last.PrevPage != "/courses/category/cs?limit=2&page=2" {
		t.Fatalf("unexpected prev link: %q", last.PrevPage)
	}
}

func TestBuildPreservesFilters(t *testing.T) {
	base, _ := url.Parse("/courses?level=beginner&page=2&limit=3")
	meta := Build(Request{Page: 2, Limit: 3}, 9, base)

	next, err := url.Parse(meta.NextPage)
	if err != nil {
		t.Fatalf("parse next: %v", err)
	}
	if next.Path != "/courses" || next.Query().Get("level") != "beginner" || next.Query().Get("page") != "3" {
		t.Fatalf("unexpected next link: %q", meta.NextPage)
	}
	prev, _ := url.Parse(meta.PrevPage)
	if prev.Query().Get("page") != "1" || prev.Query().Get("level") != "beginner" {
		t.Fatalf("unexpected prev link: %q", meta.PrevPage)
	}
}

func TestFromQuery(t *testing.T) {
	req, err := FromQuery(url.Values{}, 6)
	if err != nil || req.Page != 1 || req.Limit != 6 {
		t.Fatalf("defaults: %+v, %v", req, err)
	}

	req, err = FromQuery(url.Values{"page": {"3"}, "limit": {"2"}}, 6)
	if err != nil || req.Page != 3 || req.Limit != 2 {
		t.Fatalf("explicit: %+v, %v", req, err)
	}

	if _, err := FromQuery(url.Values{"limit": {"0"}}, 6); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit for limit=0, got %v", err)
	}
	if _, err := FromQuery(url.Values{"page": {"abc"}}, 6); !errors.Is(err, ErrInvalidPage) {
		t.Fatalf("expected ErrInvalidPage, got %v", err)
	}
}
