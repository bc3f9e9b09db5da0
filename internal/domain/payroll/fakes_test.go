package payroll

import (
	"context"
	"sort"
	"sync"

	"hrpayroll/internal/domain/employee"
)

type memStore struct {
	mu             sync.Mutex
	nextID         int64
	rows           map[int64]Record
	failInsertMany error
}

func newMemStore() *memStore {
	return &memStore{rows: map[int64]Record{}}
}

func (m *memStore) clash(rec Record, except int64) bool {
	for id, r := range m.rows {
		if id != except && r.EmployeeID == rec.EmployeeID && r.Date.Equal(rec.Date) {
			return true
		}
	}
	return false
}

func (m *memStore) Insert(_ context.Context, rec Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clash(rec, 0) {
		return nil, ErrDuplicateRecord
	}
	m.nextID++
	rec.ID = m.nextID
	m.rows[rec.ID] = rec
	return &rec, nil
}

func (m *memStore) InsertMany(_ context.Context, recs []Record) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsertMany != nil {
		return nil, m.failInsertMany
	}
	for i, rec := range recs {
		if m.clash(rec, 0) {
			return nil, ErrDuplicateRecord
		}
		for _, other := range recs[:i] {
			if other.EmployeeID == rec.EmployeeID && other.Date.Equal(rec.Date) {
				return nil, ErrDuplicateRecord
			}
		}
	}
	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		m.nextID++
		rec.ID = m.nextID
		m.rows[rec.ID] = rec
		out = append(out, rec)
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, id int64, rec Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return nil, ErrRecordNotFound
	}
	if m.clash(rec, id) {
		return nil, ErrDuplicateRecord
	}
	rec.ID = id
	m.rows[id] = rec
	return &rec, nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memStore) Get(_ context.Context, id int64) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.rows[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &rec, nil
}

func (m *memStore) List(_ context.Context, f Filter) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Record{}
	for _, rec := range m.rows {
		if f.EmployeeID > 0 && rec.EmployeeID != f.EmployeeID {
			continue
		}
		if f.From != nil && rec.Date.Before(dateOf(*f.From)) {
			continue
		}
		if f.To != nil && rec.Date.After(dateOf(*f.To)) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.Before(out[j].Date)
	})
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []Record{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) Count(ctx context.Context, f Filter) (int, error) {
	f.Limit, f.Offset = 0, 0
	list, err := m.List(ctx, f)
	return len(list), err
}

func (m *memStore) FindBy(ctx context.Context, employeeID int64, rng Range) ([]Record, error) {
	return m.List(ctx, Filter{EmployeeID: employeeID, Range: rng})
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type fakeEmployees map[int64]employee.Employee

func (f fakeEmployees) Get(_ context.Context, id int64) (*employee.Employee, error) {
	emp, ok := f[id]
	if !ok {
		return nil, employee.ErrNotFound
	}
	return &emp, nil
}

func staff() fakeEmployees {
	return fakeEmployees{
		1: {ID: 1, FirstName: "Ada", LastName: "Reyes", Position: "Site Engineer", Salary: 1000, Status: employee.StatusActive},
		2: {ID: 2, FirstName: "Ben", LastName: "Cruz", Position: "Foreman", Salary: 800, Status: employee.StatusActive},
	}
}
