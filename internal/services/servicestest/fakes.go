// Package servicestest provides in-memory repositories and collaborators
// for exercising the services without a database.
package servicestest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/KC-426/aeonaxy/internal/auth"
	"github.com/KC-426/aeonaxy/internal/notify"
	"github.com/KC-426/aeonaxy/internal/store"
	"github.com/KC-426/aeonaxy/types"
)

// Users is an in-memory user repository.
type Users struct {
	mu    sync.Mutex
	next  int
	users map[int]types.User
}

func NewUsers() *Users { return &Users{users: map[int]types.User{}} }

func (m *Users) GetByID(_ context.Context, id int) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return u, nil
}

func (m *Users) GetByEmail(_ context.Context, email string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *Users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *Users) Create(_ context.Context, u types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return types.User{}, store.ErrConflict
		}
	}
	m.next++
	u.ID = m.next
	m.users[u.ID] = u
	return u, nil
}

func (m *Users) UpdateProfile(_ context.Context, u types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.users[u.ID]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	current.Phone, current.Gender = u.Phone, u.Gender
	current.ImageName, current.ImageURL = u.ImageName, u.ImageURL
	m.users[u.ID] = current
	return current, nil
}

type Admins struct {
	mu     sync.Mutex
	admins []types.Admin
}

func (m *Admins) GetByID(_ context.Context, id int) (types.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.ID == id {
			return a, nil
		}
	}
	return types.Admin{}, store.ErrNotFound
}

func (m *Admins) GetByEmail(_ context.Context, email string) (types.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return types.Admin{}, store.ErrNotFound
}

func (m *Admins) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *Admins) Create(_ context.Context, a types.Admin) (types.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = len(m.admins) + 1
	m.admins = append(m.admins, a)
	return a, nil
}

// Courses is an in-memory course repository ordered by id.
type Courses struct {
	mu      sync.Mutex
	next    int
	courses map[int]types.Course
	// CreateErr, when set, is returned by Create after ExistsByName passes.
	CreateErr error
}

func NewCourses() *Courses { return &Courses{courses: map[int]types.Course{}} }

func (m *Courses) List(_ context.Context, q types.CourseQuery) ([]types.Course, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []types.Course
	for _, c := range m.courses {
		var field string
		switch q.Filter {
		case types.FilterCategory:
			field = c.Category
		case types.FilterLevel:
			field = c.Level
		case types.FilterPopularity:
			field = c.Popularity
		}
		if q.Filter == types.FilterNone || field == q.Value {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := len(matched)
	if q.Offset >= total {
		return []types.Course{}, total, nil
	}
	end := min(q.Offset+q.Limit, total)
	return matched[q.Offset:end], total, nil
}

func (m *Courses) Get(_ context.Context, id int) (types.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return types.Course{}, store.ErrNotFound
	}
	return c, nil
}

func (m *Courses) ExistsByName(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.courses {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *Courses) Create(_ context.Context, c types.Course) (types.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return types.Course{}, m.CreateErr
	}
	m.next++
	c.ID = m.next
	m.courses[c.ID] = c
	return c, nil
}

func (m *Courses) Update(_ context.Context, c types.Course) (types.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[c.ID]; !ok {
		return types.Course{}, store.ErrNotFound
	}
	m.courses[c.ID] = c
	return c, nil
}

func (m *Courses) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.courses, id)
	return nil
}

func (m *Courses) DeleteAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.courses))
	if n == 0 {
		return 0, store.ErrNotFound
	}
	m.courses = map[int]types.Course{}
	return n, nil
}

// Enrollments keeps snapshots per user in insertion order.
type Enrollments struct {
	mu   sync.Mutex
	byID map[int][]types.EnrollmentSnapshot
}

func NewEnrollments() *Enrollments {
	return &Enrollments{byID: map[int][]types.EnrollmentSnapshot{}}
}

func (m *Enrollments) ListByUser(_ context.Context, userID int) ([]types.EnrollmentSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.EnrollmentSnapshot, len(m.byID[userID]))
	copy(out, m.byID[userID])
	return out, nil
}

func (m *Enrollments) Add(_ context.Context, userID int, s types.EnrollmentSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID[userID] {
		if e.CourseID == s.CourseID {
			return store.ErrConflict
		}
	}
	m.byID[userID] = append(m.byID[userID], s)
	return nil
}

// Hasher prefixes secrets instead of running bcrypt.
type Hasher struct{}

func (Hasher) Hash(secret string) (string, error) { return "hashed:" + secret, nil }

func (Hasher) Compare(secret, digest string) bool { return digest == "hashed:"+secret }

// Tokens issues "<role>:<email>" instead of signed tokens.
type Tokens struct{}

func (Tokens) Issue(s auth.Subject) (string, error) {
	return s.Role + ":" + s.Email, nil
}

// Media keeps uploaded objects in memory.
type Media struct {
	mu       sync.Mutex
	objects  map[string][]byte
	FailPut  bool
	Removed  []string
	sequence int
}

func NewMedia() *Media { return &Media{objects: map[string][]byte{}} }

func (m *Media) Store(_ context.Context, data []byte, name, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPut {
		return "", errors.New("bucket unavailable")
	}
	m.sequence++
	ref := fmt.Sprintf("media/%d-%s", m.sequence, name)
	m.objects[ref] = data
	return ref, nil
}

func (m *Media) Remove(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, ref)
	m.Removed = append(m.Removed, ref)
	return nil
}

// Notifier records sent messages on a buffered channel.
type Notifier struct {
	Sent chan notify.Message
}

func NewNotifier() *Notifier {
	return &Notifier{Sent: make(chan notify.Message, 8)}
}

func (r *Notifier) Send(_ context.Context, msg notify.Message) error {
	select {
	case r.Sent <- msg:
	default:
	}
	return nil
}

// Wait returns the next sent message, or false after timeout.
func (r *Notifier) Wait(timeout time.Duration) (notify.Message, bool) {
	select {
	case msg := <-r.Sent:
		return msg, true
	case <-time.After(timeout):
		return notify.Message{}, false
	}
}
