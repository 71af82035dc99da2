package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/KC-426/aeonaxy/types"
)

var courseCols = []string{"id", "name", "price", "description", "category", "level", "popularity", "created_at", "updated_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn, mock
}

func TestTranslateError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{name: "no rows", in: sql.ErrNoRows, want: ErrNotFound},
		{name: "pq unique", in: &pq.Error{Code: "23505"}, want: ErrConflict},
		{name: "pgx unique", in: &pgconn.PgError{Code: "23505"}, want: ErrConflict},
		{name: "pq other", in: &pq.Error{Code: "23503"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := translateError(tc.in)
			if tc.want == nil {
				if got != tc.in {
					t.Fatalf("expected error to pass through, got %v", got)
				}
				return
			}
			if !errors.Is(got, tc.want) {
				t.Fatalf("translateError(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
	if translateError(nil) != nil {
		t.Fatal("nil must stay nil")
	}
}

func TestCourseListWithFilter(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewCourseRepository(conn)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(1\) FROM courses WHERE category = \$1`).
		WithArgs("cs").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(`FROM courses WHERE category = \$1 ORDER BY id LIMIT \$2 OFFSET \$3`).
		WithArgs("cs", 2, 2).
		WillReturnRows(sqlmock.NewRows(courseCols).
			AddRow(3, "CS103", 30.0, "c", "cs", "beginner", "high", now, now).
			AddRow(4, "CS104", 40.0, "d", "cs", "advanced", "low", now, now))

	courses, total, err := repo.List(context.Background(), types.CourseQuery{
		Filter: types.FilterCategory,
		Value:  "cs",
		Offset: 2,
		Limit:  2,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 || len(courses) != 2 || courses[0].Name != "CS103" {
		t.Fatalf("unexpected result: total=%d courses=%+v", total, courses)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCourseListWithoutFilter(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewCourseRepository(conn)

	mock.ExpectQuery(`SELECT COUNT\(1\) FROM courses$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM courses ORDER BY id LIMIT \$1 OFFSET \$2`).
		WithArgs(6, 0).
		WillReturnRows(sqlmock.NewRows(courseCols))

	courses, total, err := repo.List(context.Background(), types.CourseQuery{Limit: 6})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 0 || len(courses) != 0 {
		t.Fatalf("expected empty listing, got total=%d len=%d", total, len(courses))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCourseListRejectsUnknownFilter(t *testing.T) {
	conn, _ := newMock(t)
	repo := NewCourseRepository(conn)

	_, _, err := repo.List(context.Background(), types.CourseQuery{Filter: "price; DROP TABLE courses", Limit: 1})
	if err == nil {
		t.Fatal("expected unknown filter to be rejected")
	}
}

func TestCourseCreateConflict(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewCourseRepository(conn)

	mock.ExpectQuery(`INSERT INTO courses`).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), types.Course{Name: "CS101"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCourseUpdateMissing(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewCourseRepository(conn)

	mock.ExpectQuery(`UPDATE courses`).
		WillReturnRows(sqlmock.NewRows(courseCols))

	_, err := repo.Update(context.Background(), types.Course{ID: 42, Name: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCourseDeleteAll(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewCourseRepository(conn)

	mock.ExpectExec(`DELETE FROM courses`).WillReturnResult(sqlmock.NewResult(0, 0))
	if _, err := repo.DeleteAll(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty catalog, got %v", err)
	}

	mock.ExpectExec(`DELETE FROM courses`).WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := repo.DeleteAll(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("DeleteAll() = %d, %v", n, err)
	}
}

func TestUserGetByEmailNotFound(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewUserRepository(conn)

	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnrollmentListEmpty(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewEnrollmentRepository(conn)

	mock.ExpectQuery(`FROM enrollments`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "name", "price", "description", "category", "level", "popularity", "enrolled_at"}))

	snapshots, err := repo.ListByUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if snapshots == nil || len(snapshots) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", snapshots)
	}
}

func TestEnrollmentAddDuplicate(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewEnrollmentRepository(conn)

	mock.ExpectExec(`INSERT INTO enrollments`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Add(context.Background(), 1, types.EnrollmentSnapshot{CourseID: 2})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCourseDeleteMissing(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewCourseRepository(conn)

	mock.ExpectExec(`DELETE FROM courses WHERE id = \$1`).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserUpdateProfile(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewUserRepository(conn)
	now := time.Now()
	cols := []string{"id", "name", "email", "password_hash", "phone_no", "gender", "image_name", "image_url", "created_at", "updated_at"}

	mock.ExpectQuery(`UPDATE users`).
		WithArgs("555-0100", "female", "me.png", "aeonaxy/profiles/x.png", sqlmock.AnyArg(), 3).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(3, "Ada", "ada@example.com", "hash", "555-0100", "female", "me.png", "aeonaxy/profiles/x.png", now, now))

	user, err := repo.UpdateProfile(context.Background(), types.User{
		ID:        3,
		Phone:     "555-0100",
		Gender:    "female",
		ImageName: "me.png",
		ImageURL:  "aeonaxy/profiles/x.png",
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if user.Email != "ada@example.com" || user.ImageURL != "aeonaxy/profiles/x.png" {
		t.Fatalf("unexpected user %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestAdminExistsByEmail(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewAdminRepository(conn)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM admins WHERE email = \$1\)`).
		WithArgs("root@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail(context.Background(), "root@example.com")
	if err != nil || !exists {
		t.Fatalf("ExistsByEmail() = %v, %v", exists, err)
	}
}
