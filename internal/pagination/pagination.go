// Package pagination computes offset/limit windows and the navigation
// metadata returned with every paginated listing.
package pagination

import (
	"errors"
	"math"
	"net/url"
	"strconv"
)

const (
	// MaxLimit caps the page size a caller may request.
	MaxLimit = 100

	pageParam  = "page"
	limitParam = "limit"
)

var (
	ErrInvalidPage  = errors.New("page must be a positive integer")
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)

// Request is a validated page request.
type Request struct {
	Page  int
	Limit int
}

// New validates page and limit. A limit above MaxLimit is clamped and a
// page whose offset would overflow is rejected.
func New(page, limit int) (Request, error) {
	if page < 1 {
		return Request{}, ErrInvalidPage
	}
	if limit < 1 {
		return Request{}, ErrInvalidLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	// (page-1)*limit must fit in an int.
	if page-1 > math.MaxInt/limit {
		return Request{}, ErrInvalidPage
	}
	return Request{Page: page, Limit: limit}, nil
}

// FromQuery reads "page" and "limit" from q, falling back to page 1 and
// defaultLimit when absent.
func FromQuery(q url.Values, defaultLimit int) (Request, error) {
	page, limit := 1, defaultLimit
	if raw := q.Get(pageParam); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Request{}, ErrInvalidPage
		}
		page = v
	}
	if raw := q.Get(limitParam); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Request{}, ErrInvalidLimit
		}
		limit = v
	}
	return New(page, limit)
}

// Offset is the number of rows preceding the requested page.
func (r Request) Offset() int {
	return (r.Page - 1) * r.Limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit < 1 || total < 1 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Meta is the pagination block of a listing response.
type Meta struct {
	CurrentPage int    `json:"currentPage"`
	PageSize    int    `json:"pageSize"`
	TotalCount  int    `json:"totalCount"`
	TotalPages  int    `json:"totalPages"`
	NextPage    string `json:"nextPage,omitempty"`
	PrevPage    string `json:"prevPage,omitempty"`
}

// HasNext reports whether a page follows the current one.
func (m Meta) HasNext() bool { return m.CurrentPage < m.TotalPages }

// HasPrev reports whether a page precedes the current one.
func (m Meta) HasPrev() bool { return m.CurrentPage > 1 }

// Build assembles the metadata for req given the total number of matching
// rows. link is the request URL; next/prev links keep its path and every
// query parameter except page, which is replaced. A nil link yields no
// links.
func Build(req Request, total int, link *url.URL) Meta {
	meta := Meta{
		CurrentPage: req.Page,
		PageSize:    req.Limit,
		TotalCount:  total,
		TotalPages:  TotalPages(total, req.Limit),
	}
	if link == nil {
		return meta
	}
	if meta.HasNext() {
		meta.NextPage = pageLink(link, req, req.Page+1)
	}
	if meta.HasPrev() {
		meta.PrevPage = pageLink(link, req, req.Page-1)
	}
	return meta
}

func pageLink(base *url.URL, req Request, page int) string {
	u := url.URL{Path: base.Path}
	q := base.Query()
	q.Set(pageParam, strconv.Itoa(page))
	q.Set(limitParam, strconv.Itoa(req.Limit))
	u.RawQuery = q.Encode()
	return u.String()
}
