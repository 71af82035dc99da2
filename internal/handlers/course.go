package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KC-426/aeonaxy/internal/auth"
	"github.com/KC-426/aeonaxy/internal/pagination"
	"github.com/KC-426/aeonaxy/internal/services"
	"github.com/KC-426/aeonaxy/types"
)

// Default page sizes per listing route.
var defaultLimits = map[types.CourseFilter]int{
	types.FilterNone:       6,
	types.FilterCategory:   3,
	types.FilterLevel:      3,
	types.FilterPopularity: 2,
}

var queryFilters = []types.CourseFilter{types.FilterCategory, types.FilterLevel, types.FilterPopularity}

// CourseHandler provides HTTP handlers for the course catalog.
type CourseHandler struct {
	courses *services.CourseService
}

func NewCourseHandler(courses *services.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// CourseRouter registers course routes on the given router. Mutations
// require an admin token.
func CourseRouter(r chi.Router, courses *services.CourseService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewCourseHandler(courses)
	admin := chi.Chain(authMiddleware, RequireRole(auth.RoleAdmin))

	r.Get("/", handler.ListCourses)
	r.With(admin...).Post("/", handler.CreateCourse)
	r.With(admin...).Delete("/", handler.DeleteAllCourses)
	r.Get("/{courseID}", handler.GetCourse)
	r.With(admin...).Put("/{courseID}", handler.UpdateCourse)
	r.With(admin...).Delete("/{courseID}", handler.DeleteCourse)
	r.Get("/{filter}/{value}", handler.ListCoursesBy)
}

// ListCourses lists the catalog, optionally narrowed by one of the
// category, level or popularity query parameters.
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	filter, value := types.FilterNone, ""
	query := r.URL.Query()
	for _, f := range queryFilters {
		if !query.Has(string(f)) {
			continue
		}
		if filter != types.FilterNone {
			writeError(w, http.StatusBadRequest, "only one filter may be applied")
			return
		}
		filter, value = f, query.Get(string(f))
	}
	h.list(w, r, filter, value, defaultLimits[types.FilterNone])
}

// ListCoursesBy lists courses whose filter column equals value.
func (h *CourseHandler) ListCoursesBy(w http.ResponseWriter, r *http.Request) {
	filter := types.CourseFilter(chi.URLParam(r, "filter"))
	if filter == types.FilterNone || !filter.Valid() {
		writeError(w, http.StatusNotFound, "unknown course filter")
		return
	}
	h.list(w, r, filter, chi.URLParam(r, "value"), defaultLimits[filter])
}

func (h *CourseHandler) list(w http.ResponseWriter, r *http.Request, filter types.CourseFilter, value string, defaultLimit int) {
	page, err := pagination.FromQuery(r.URL.Query(), defaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.courses.List(r.Context(), services.ListCoursesInput{
		Filter: filter,
		Value:  value,
		Page:   page,
		Link:   r.URL,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CourseListResponse{
		Message:    "courses fetched successfully",
		Courses:    result.Courses,
		Pagination: result.Pagination,
	})
}

func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "courseID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	course, err := h.courses.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ResultResponse{Message: "course fetched successfully", Result: course})
}

func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCourse(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.courses.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ResultResponse{Message: "course added successfully", Result: created})
}

func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "courseID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := decodeCourse(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.courses.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ResultResponse{Message: "course updated successfully", Result: updated})
}

func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "courseID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.courses.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "course deleted successfully"})
}

func (h *CourseHandler) DeleteAllCourses(w http.ResponseWriter, r *http.Request) {
	n, err := h.courses.DeleteAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteAllResponse{Message: "all courses deleted successfully", Deleted: n})
}

func decodeCourse(w http.ResponseWriter, r *http.Request) (services.CourseInput, error) {
	var req CourseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return services.CourseInput{}, err
	}
	if req.Price == nil {
		return services.CourseInput{}, errors.New("price is required")
	}
	return services.CourseInput{
		Name:        req.Name,
		Price:       *req.Price,
		Description: req.Description,
		Category:    req.Category,
		Level:       req.Level,
		Popularity:  req.Popularity,
	}, nil
}
