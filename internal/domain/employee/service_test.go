package employee

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]Employee
}

func newMemStore() *memStore {
	return &memStore{rows: map[int64]Employee{}}
}

func (m *memStore) emailTaken(email string, except int64) bool {
	for id, e := range m.rows {
		if id != except && strings.EqualFold(e.Email, email) {
			return true
		}
	}
	return false
}

func (m *memStore) Create(_ context.Context, in Input) (*Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(in.Email, 0) {
		return nil, ErrEmailTaken
	}
	m.nextID++
	now := time.Now()
	e := Employee{ID: m.nextID, FirstName: in.FirstName, LastName: in.LastName, Email: in.Email,
		HireDate: in.HireDate, Position: in.Position, Salary: in.Salary, Status: in.Status, CreatedAt: now, UpdatedAt: now}
	m.rows[e.ID] = e
	return &e, nil
}

func (m *memStore) Get(_ context.Context, id int64) (*Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (m *memStore) Update(_ context.Context, id int64, in Input) (*Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.emailTaken(in.Email, id) {
		return nil, ErrEmailTaken
	}
	e.FirstName, e.LastName, e.Email = in.FirstName, in.LastName, in.Email
	e.HireDate, e.Position, e.Salary, e.Status = in.HireDate, in.Position, in.Salary, in.Status
	e.UpdatedAt = time.Now()
	m.rows[id] = e
	return &e, nil
}

func (m *memStore) SetStatus(_ context.Context, id int64, status string) (*Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	switch {
	case status != "":
		e.Status = status
	case e.Status == StatusActive:
		e.Status = StatusInactive
	default:
		e.Status = StatusActive
	}
	m.rows[id] = e
	return &e, nil
}

func (m *memStore) match(e Employee, f Filter) bool {
	if f.Search != "" {
		s := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.FirstName), s) && !strings.Contains(strings.ToLower(e.LastName), s) {
			return false
		}
	}
	if f.HireDateFrom != nil && e.HireDate.Before(*f.HireDateFrom) {
		return false
	}
	if f.HireDateTo != nil && e.HireDate.After(*f.HireDateTo) {
		return false
	}
	return f.Status == "" || e.Status == f.Status
}

func (m *memStore) List(_ context.Context, f Filter) ([]Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Employee{}
	for id := int64(1); id <= m.nextID; id++ {
		if e, ok := m.rows[id]; ok && m.match(e, f) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) Count(ctx context.Context, f Filter) (int, error) {
	list, err := m.List(ctx, f)
	return len(list), err
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func validInput() Input {
	return Input{
		FirstName: "Ada",
		LastName:  "Reyes",
		Email:     "ada@example.com",
		HireDate:  time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		Position:  "Site Engineer",
		Salary:    1000,
	}
}

func TestCreateDefaultsStatusToActive(t *testing.T) {
	svc := NewService(newMemStore())
	emp, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, StatusActive, emp.Status)
	assert.Equal(t, "Ada Reyes", emp.FullName())
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := NewService(newMemStore())
	cases := map[string]func(*Input){
		"salary":     func(in *Input) { in.Salary = -1 },
		"status":     func(in *Input) { in.Status = "Retired" },
		"first_name": func(in *Input) { in.FirstName = "  " },
		"hire_date":  func(in *Input) { in.HireDate = time.Time{} },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := svc.Create(context.Background(), in)
			require.ErrorIs(t, err, ErrValidation)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, field, vErr.Field)
		})
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc := NewService(newMemStore())
	_, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateStatusToggleAndExplicit(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()
	emp, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	toggled, err := svc.UpdateStatus(ctx, emp.ID, "")
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, toggled.Status)

	toggled, err = svc.UpdateStatus(ctx, emp.ID, "")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, toggled.Status)

	explicit, err := svc.UpdateStatus(ctx, emp.ID, StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, explicit.Status)

	_, err = svc.UpdateStatus(ctx, emp.ID, "Suspended")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateStatus(ctx, 999, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFilters(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()
	in := validInput()
	_, err := svc.Create(ctx, in)
	require.NoError(t, err)

	in.FirstName, in.LastName, in.Email = "Ben", "Adams", "ben@example.com"
	in.HireDate = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	in.Status = StatusInactive
	_, err = svc.Create(ctx, in)
	require.NoError(t, err)

	list, total, err := svc.List(ctx, Filter{Search: "ada"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	list, total, err = svc.List(ctx, Filter{HireDateFrom: &from})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Ben", list[0].FirstName)

	list, _, err = svc.List(ctx, Filter{Status: StatusActive})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ada", list[0].FirstName)

	_, _, err = svc.List(ctx, Filter{Status: "active"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()
	emp, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Position = "Foreman"
	in.Status = StatusInactive
	updated, err := svc.Update(ctx, emp.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Foreman", updated.Position)
	assert.Equal(t, StatusInactive, updated.Status)

	require.NoError(t, svc.Delete(ctx, emp.ID))
	_, err = svc.Get(ctx, emp.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, emp.ID), ErrNotFound)
}

func TestFilterClauseNumbersPlaceholders(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	where, args := filterClause(Filter{Search: "ada", HireDateFrom: &from, Status: StatusActive})
	assert.Equal(t, " WHERE (first_name ILIKE $1 OR last_name ILIKE $1) AND hire_date >= $2 AND status = $3", where)
	assert.Equal(t, []any{"%ada%", from, StatusActive}, args)

	where, args = filterClause(Filter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}
