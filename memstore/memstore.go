// Package memstore keeps users, categories and tasks in process memory. It
// implements the same Store interfaces as the PostgreSQL repositories, including
// the cascade and set-null rules of the schema, and backs `serve --in-memory`
// and the HTTP tests.
package memstore

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/user/taskmanager-go/categories"
	"github.com/user/taskmanager-go/tasks"
	"github.com/user/taskmanager-go/users"
)

// DB is the shared in-memory state. Transactions are serialized; a failed
// transaction restores the rows it started from. Calls made outside a
// transaction wait for the running one, so they never see its uncommitted
// rows. IDs are never reused.
type DB struct {
	txMu sync.RWMutex
	mu   sync.Mutex

	users      map[int64]users.User
	categories map[int64]categories.Category
	tasks      map[int64]tasks.Task

	nextUserID     int64
	nextCategoryID int64
	nextTaskID     int64
}

// New creates an empty DB.
func New() *DB {
	return &DB{
		users:      make(map[int64]users.User),
		categories: make(map[int64]categories.Category),
		tasks:      make(map[int64]tasks.Task),
	}
}

// Users returns the user store.
func (d *DB) Users() users.Store { return &userStore{d: d} }

// Categories returns the category store.
func (d *DB) Categories() categories.Store { return &categoryStore{d: d} }

// Tasks returns the task store.
func (d *DB) Tasks() tasks.Store { return &taskStore{d: d} }

type snapshot struct {
	users      map[int64]users.User
	categories map[int64]categories.Category
	tasks      map[int64]tasks.Task
}

func (d *DB) snapshot() snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return snapshot{
		users:      clone(d.users),
		categories: clone(d.categories),
		tasks:      clone(d.tasks),
	}
}

func (d *DB) restore(s snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users, d.categories, d.tasks = s.users, s.categories, s.tasks
}

func clone[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *DB) inTx(fn func() error) error {
	d.txMu.Lock()
	defer d.txMu.Unlock()

	before := d.snapshot()
	committed := false
	defer func() {
		if !committed {
			d.restore(before)
		}
	}()
	if err := fn(); err != nil {
		return err
	}
	committed = true
	return nil
}

// enter guards a store call. Calls inside a transaction already hold txMu.
func (d *DB) enter(inTx, write bool) (release func()) {
	switch {
	case inTx:
		return func() {}
	case write:
		d.txMu.Lock()
		return d.txMu.Unlock
	default:
		d.txMu.RLock()
		return d.txMu.RUnlock
	}
}

// DeleteUser removes a user and, like ON DELETE CASCADE, all of their tasks.
func (d *DB) DeleteUser(id int64) bool {
	d.txMu.Lock()
	defer d.txMu.Unlock()
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[id]; !ok {
		return false
	}
	delete(d.users, id)
	for tid, t := range d.tasks {
		if t.UserID == id {
			delete(d.tasks, tid)
		}
	}
	return true
}

// userStore implements users.Store.
type userStore struct {
	d  *DB
	tx bool
}

func (s *userStore) WithTx(ctx context.Context, fn func(users.Repository) error) error {
	if s.tx {
		return fn(s)
	}
	return s.d.inTx(func() error { return fn(&userStore{d: s.d, tx: true}) })
}

func (s *userStore) GetByID(_ context.Context, id int64) (*users.User, error) {
	defer s.d.enter(s.tx, false)()
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	u, ok := s.d.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return &u, nil
}

func (s *userStore) find(match func(users.User) bool) (users.User, bool) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, u := range s.d.users {
		if match(u) {
			return u, true
		}
	}
	return users.User{}, false
}

func (s *userStore) GetByUsername(_ context.Context, username string) (*users.User, error) {
	defer s.d.enter(s.tx, false)()
	u, ok := s.find(func(u users.User) bool { return u.Username == username })
	if !ok {
		return nil, users.ErrNotFound
	}
	return &u, nil
}

func (s *userStore) UsernameExists(_ context.Context, username string) (bool, error) {
	defer s.d.enter(s.tx, false)()
	_, ok := s.find(func(u users.User) bool { return u.Username == username })
	return ok, nil
}

func (s *userStore) EmailExists(_ context.Context, email string) (bool, error) {
	defer s.d.enter(s.tx, false)()
	_, ok := s.find(func(u users.User) bool { return u.Email == email })
	return ok, nil
}

func (s *userStore) Create(_ context.Context, u *users.User) error {
	defer s.d.enter(s.tx, true)()
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, existing := range s.d.users {
		if existing.Username == u.Username {
			return users.ErrDuplicateUsername
		}
		if existing.Email == u.Email {
			return users.ErrDuplicateEmail
		}
	}
	s.d.nextUserID++
	u.ID = s.d.nextUserID
	s.d.users[u.ID] = *u
	return nil
}

// categoryStore implements categories.Store.
type categoryStore struct {
	d  *DB
	tx bool
}

func (s *categoryStore) WithTx(ctx context.Context, fn func(categories.Repository) error) error {
	if s.tx {
		return fn(s)
	}
	return s.d.inTx(func() error { return fn(&categoryStore{d: s.d, tx: true}) })
}

// withCount returns c with TaskCount filled in. The caller holds mu.
func (d *DB) withCount(c categories.Category) categories.Category {
	c.TaskCount = 0
	for _, t := range d.tasks {
		if t.CategoryID != nil && *t.CategoryID == c.ID {
			c.TaskCount++
		}
	}
	return c
}

func (s *categoryStore) List(_ context.Context) ([]categories.Category, error) {
	defer s.d.enter(s.tx, false)()
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	out := make([]categories.Category, 0, len(s.d.categories))
	for _, c := range s.d.categories {
		out = append(out, s.d.withCount(c))
	}
	slices.SortFunc(out, func(a, b categories.Category) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *categoryStore) GetByID(_ context.Context, id int64) (*categories.Category, error) {
	defer s.d.enter(s.tx, false)()
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	c, ok := s.d.categories[id]
	if !ok {
		return nil, categories.ErrNotFound
	}
	c = s.d.withCount(c)
	return &c, nil
}

// nameTaken reports whether a category other than excludeID uses name. The caller holds mu.
func (d *DB) nameTaken(name string, excludeID int64) bool {
	for _, c := range d.categories {
		if c.Name == name && c.ID != excludeID {
			return true
		}
	}
	return false
}

func (s *categoryStore) NameExists(_ context.Context, name string, excludeID int64) (bool, error) {
	defer s.d.enter(s.tx, false)()
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	return s.d.nameTaken(name, excludeID), nil
}

func (s *categoryStore) Create(_ context.Context, c *categories.Category) error {
	defer s.d.enter(s.tx, true)()
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if s.d.nameTaken(c.Name, 0) {
		return categories.ErrDuplicateName
	}
	s.d.nextCategoryID++
	c.ID = s.d.nextCategoryID
	c.TaskCount = 0
	s.d.categories[c.ID] = *c
	return nil
}

func (s *categoryStore) Update(_ context.Context, c *categories.Category) error {
	defer s.d.enter(s.tx, true)()
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.categories[c.ID]; !ok {
		return categories.ErrNotFound
	}
	if s.d.nameTaken(c.Name, c.ID) {
		return categories.ErrDuplicateName
	}
	s.d.categories[c.ID] = *c
	return nil
}

func (s *categoryStore) Delete(_ context.Context, id int64) error {
	defer s.d.enter(s.tx, true)()
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.categories[id]; !ok {
		return categories.ErrNotFound
	}
	delete(s.d.categories, id)
	for tid, t := range s.d.tasks {
		if t.CategoryID != nil && *t.CategoryID == id {
			t.CategoryID = nil
			s.d.tasks[tid] = t
		}
	}
	return nil
}

// taskStore implements tasks.Store.
type taskStore struct {
	d  *DB
	tx bool
}

func (s *taskStore) WithTx(ctx context.Context, fn func(tasks.Repository) error) error {
	if s.tx {
		return fn(s)
	}
	return s.d.inTx(func() error { return fn(&taskStore{d: s.d, tx: true}) })
}

// load returns t with its category embedded. The caller holds mu.
func (d *DB) load(t tasks.Task) tasks.Task {
	t.Category = nil
	if t.CategoryID != nil {
		if c, ok := d.categories[*t.CategoryID]; ok {
			c = d.withCount(c)
			t.Category = &c
		}
	}
	return t
}

// checkRefs mirrors the foreign keys on tasks. The caller holds mu.
func (d *DB) checkRefs(t *tasks.Task) error {
	if t.CategoryID != nil {
		if _, ok := d.categories[*t.CategoryID]; !ok {
			return tasks.ErrCategoryNotFound
		}
	}
	return nil
}

func (s *taskStore) GetByID(_ context.Context, id int64) (*tasks.Task, error) {
	defer s.d.enter(s.tx, false)()
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	t, ok := s.d.tasks[id]
	if !ok {
		return nil, tasks.ErrNotFound
	}
	t = s.d.load(t)
	return &t, nil
}

func (s *taskStore) Create(_ context.Context, t *tasks.Task) error {
	defer s.d.enter(s.tx, true)()
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if err := s.d.checkRefs(t); err != nil {
		return err
	}
	s.d.nextTaskID++
	t.ID = s.d.nextTaskID
	stored := *t
	stored.Category = nil
	s.d.tasks[t.ID] = stored
	return nil
}

func (s *taskStore) Update(_ context.Context, t *tasks.Task) error {
	defer s.d.enter(s.tx, true)()
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	existing, ok := s.d.tasks[t.ID]
	if !ok {
		return tasks.ErrNotFound
	}
	if err := s.d.checkRefs(t); err != nil {
		return err
	}
	stored := *t
	stored.Category = nil
	stored.UserID = existing.UserID
	stored.CreatedAt = existing.CreatedAt
	s.d.tasks[t.ID] = stored
	return nil
}

func (s *taskStore) Delete(_ context.Context, id int64) error {
	defer s.d.enter(s.tx, true)()
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.tasks[id]; !ok {
		return tasks.ErrNotFound
	}
	delete(s.d.tasks, id)
	return nil
}

func (s *taskStore) List(_ context.Context, p tasks.ListParams) ([]tasks.Task, int64, error) {
	defer s.d.enter(s.tx, false)()
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	var matched []tasks.Task
	for _, t := range s.d.tasks {
		if matches(t, p) {
			matched = append(matched, t)
		}
	}
	field := tasks.NormalizeSortBy(p.SortBy)
	slices.SortFunc(matched, func(a, b tasks.Task) int {
		c := compareField(a, b, field)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if p.Descending {
			return -c
		}
		return c
	})

	total := int64(len(matched))
	out := []tasks.Task{}
	start := p.Offset()
	if start < 0 {
		start = 0
	}
	for i := start; i < len(matched) && len(out) < p.PerPage; i++ {
		out = append(out, s.d.load(matched[i]))
	}
	return out, total, nil
}

func matches(t tasks.Task, p tasks.ListParams) bool {
	if t.UserID != p.UserID {
		return false
	}
	if p.Status != "" && t.Status != p.Status {
		return false
	}
	if p.Priority != "" && t.Priority != p.Priority {
		return false
	}
	if p.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *p.CategoryID) {
		return false
	}
	return true
}

// compareField orders two tasks by one column. NULL sorts after every value,
// which gives PostgreSQL's NULLS LAST for ASC and NULLS FIRST for DESC.
func compareField(a, b tasks.Task, field string) int {
	switch field {
	case "id":
		return cmp.Compare(a.ID, b.ID)
	case "title":
		return cmp.Compare(a.Title, b.Title)
	case "description":
		return compareNullable(a.Description, b.Description, cmp.Compare[string])
	case "status":
		return cmp.Compare(a.Status, b.Status)
	case "priority":
		return cmp.Compare(a.Priority, b.Priority)
	case "due_date":
		return compareNullable(a.DueDate, b.DueDate, compareTime)
	case "completed_at":
		return compareNullable(a.CompletedAt, b.CompletedAt, compareTime)
	case "updated_at":
		return compareTime(a.UpdatedAt, b.UpdatedAt)
	case "user_id":
		return cmp.Compare(a.UserID, b.UserID)
	case "category_id":
		return compareNullable(a.CategoryID, b.CategoryID, cmp.Compare[int64])
	default:
		return compareTime(a.CreatedAt, b.CreatedAt)
	}
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}

func compareNullable[T any](a, b *T, compare func(T, T) int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return compare(*a, *b)
	}
}

func (s *taskStore) CountByStatus(_ context.Context, userID int64) (tasks.Counts, error) {
	defer s.d.enter(s.tx, false)()
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	var c tasks.Counts
	for _, t := range s.d.tasks {
		if t.UserID != userID {
			continue
		}
		c.Total++
		switch t.Status {
		case tasks.StatusPending:
			c.Pending++
		case tasks.StatusInProgress:
			c.InProgress++
		case tasks.StatusCompleted:
			c.Completed++
		}
	}
	return c, nil
}

func (s *taskStore) CategoryExists(_ context.Context, id int64) (bool, error) {
	defer s.d.enter(s.tx, false)()
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	_, ok := s.d.categories[id]
	return ok, nil
}
