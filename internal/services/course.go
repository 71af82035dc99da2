package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/KC-426/aeonaxy/internal/pagination"
	"github.com/KC-426/aeonaxy/types"
)

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	List(ctx context.Context, q types.CourseQuery) ([]types.Course, int, error)
	Get(ctx context.Context, id int) (types.Course, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, course types.Course) (types.Course, error)
	Update(ctx context.Context, course types.Course) (types.Course, error)
	Delete(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) (int64, error)
}

// CourseInput is the writable part of a course.
type CourseInput struct {
	Name        string
	Price       float64
	Description string
	Category    string
	Level       string
	Popularity  string
}

func (in *CourseInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Level = strings.TrimSpace(in.Level)
	in.Popularity = strings.TrimSpace(in.Popularity)
	if in.Name == "" || in.Description == "" || in.Category == "" || in.Level == "" || in.Popularity == "" {
		return fail(ErrInvalidArgument, "please fill all the required fields")
	}
	if in.Price < 0 {
		return fail(ErrInvalidArgument, "price must not be negative")
	}
	return nil
}

func (in CourseInput) course(id int) types.Course {
	return types.Course{
		ID:          id,
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
		Level:       in.Level,
		Popularity:  in.Popularity,
	}
}

// ListCoursesInput selects one page of the catalog. Link is the request
// URL used to build next/prev links; it may be nil.
type ListCoursesInput struct {
	Filter types.CourseFilter
	Value  string
	Page   pagination.Request
	Link   *url.URL
}

// CoursePage is one page of a course listing.
type CoursePage struct {
	Courses    []types.Course  `json:"courses"`
	Pagination pagination.Meta `json:"pagination"`
}

// CourseService encapsulates catalog use-cases.
type CourseService struct {
	repo CourseRepository
}

func NewCourseService(repo CourseRepository) *CourseService {
	return &CourseService{repo: repo}
}

// Create adds a course unless one with the same name exists.
func (s *CourseService) Create(ctx context.Context, in CourseInput) (types.Course, error) {
	if err := in.normalize(); err != nil {
		return types.Course{}, err
	}
	exists, err := s.repo.ExistsByName(ctx, in.Name)
	if err != nil {
		return types.Course{}, fmt.Errorf("check course name: %w", err)
	}
	if exists {
		return types.Course{}, fail(ErrConflict, "course already added")
	}
	course, err := s.repo.Create(ctx, in.course(0))
	if err != nil {
		return types.Course{}, translate("create course", err, "", "course already added")
	}
	return course, nil
}

// List returns one page of courses, optionally narrowed by a filter. An
// empty page is reported as NotFound.
func (s *CourseService) List(ctx context.Context, in ListCoursesInput) (CoursePage, error) {
	if !in.Filter.Valid() {
		return CoursePage{}, fail(ErrInvalidArgument, fmt.Sprintf("unsupported filter %q", in.Filter))
	}
	in.Value = strings.TrimSpace(in.Value)
	if in.Filter != types.FilterNone && in.Value == "" {
		return CoursePage{}, fail(ErrInvalidArgument, fmt.Sprintf("%s is required", in.Filter))
	}
	if in.Page.Page < 1 || in.Page.Limit < 1 {
		return CoursePage{}, fail(ErrInvalidArgument, "page and limit must be positive integers")
	}

	courses, total, err := s.repo.List(ctx, types.CourseQuery{
		Filter: in.Filter,
		Value:  in.Value,
		Offset: in.Page.Offset(),
		Limit:  in.Page.Limit,
	})
	if err != nil {
		return CoursePage{}, fmt.Errorf("list courses: %w", err)
	}
	if len(courses) == 0 {
		return CoursePage{}, fail(ErrNotFound, "no courses found")
	}
	return CoursePage{
		Courses:    courses,
		Pagination: pagination.Build(in.Page, total, in.Link),
	}, nil
}

func (s *CourseService) Get(ctx context.Context, id int) (types.Course, error) {
	course, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Course{}, translate("get course", err, "course not found", "")
	}
	return course, nil
}

// Update replaces the writable fields of course id.
func (s *CourseService) Update(ctx context.Context, id int, in CourseInput) (types.Course, error) {
	if err := in.normalize(); err != nil {
		return types.Course{}, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return types.Course{}, err
	}
	if current.Name != in.Name {
		exists, err := s.repo.ExistsByName(ctx, in.Name)
		if err != nil {
			return types.Course{}, fmt.Errorf("check course name: %w", err)
		}
		if exists {
			return types.Course{}, fail(ErrConflict, "a course with this name already exists")
		}
	}
	course, err := s.repo.Update(ctx, in.course(id))
	if err != nil {
		return types.Course{}, translate("update course", err, "course not found", "a course with this name already exists")
	}
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, id int) error {
	return translate("delete course", s.repo.Delete(ctx, id), "course not found", "")
}

// DeleteAll empties the catalog and reports how many courses were removed.
func (s *CourseService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, translate("delete courses", err, "no courses in the database", "")
	}
	return n, nil
}
