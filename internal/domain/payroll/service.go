package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hrpayroll/internal/domain/employee"
	"hrpayroll/internal/platform/metrics"
)

type Service struct {
	store     StoreAPI
	employees EmployeeLookup
	policy    Policy
	metrics   *metrics.Collector
	now       func() time.Time
}

func NewService(store StoreAPI, employees EmployeeLookup, policy Policy, collector *metrics.Collector) *Service {
	return &Service{store: store, employees: employees, policy: policy, metrics: collector, now: time.Now}
}

func (s *Service) normalize(in Input) (Record, error) {
	rec, err := s.policy.Normalize(in)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			s.metrics.ValidationFailed(string(vErr.Rule))
		}
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*Record, error) {
	rec, err := s.normalize(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.employees.Get(ctx, rec.EmployeeID); err != nil {
		return nil, err
	}
	rec.CreatedAt = s.now()
	return s.store.Insert(ctx, rec)
}

func (s *Service) Get(ctx context.Context, id int64) (*Record, error) {
	return s.store.Get(ctx, id)
}

// Update merges patch over the stored record and re-validates the result as
// a whole.
func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Record, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rec, err := s.normalize(patch.Apply(*existing))
	if err != nil {
		return nil, err
	}
	if rec.EmployeeID != existing.EmployeeID {
		if _, err := s.employees.Get(ctx, rec.EmployeeID); err != nil {
			return nil, err
		}
	}
	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	return s.store.Update(ctx, id, rec)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Record, int, error) {
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	records, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (s *Service) Summary(ctx context.Context, employeeID int64, rng Range) (*Summary, error) {
	_, records, err := s.employeeRecords(ctx, employeeID, rng)
	if err != nil {
		return nil, err
	}
	summary, err := Summarize(employeeID, records)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// Payslip gathers everything the document renderers need.
func (s *Service) Payslip(ctx context.Context, employeeID int64, rng Range, company Company) (*Payslip, error) {
	emp, records, err := s.employeeRecords(ctx, employeeID, rng)
	if err != nil {
		return nil, err
	}
	summary, err := Summarize(employeeID, records)
	if err != nil {
		return nil, err
	}
	return &Payslip{
		Employee:    *emp,
		Summary:     summary,
		Records:     records,
		Company:     company,
		GeneratedAt: s.now(),
	}, nil
}

func (s *Service) employeeRecords(ctx context.Context, employeeID int64, rng Range) (*employee.Employee, []Record, error) {
	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.store.FindBy(ctx, employeeID, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("find payroll for employee %d: %w", employeeID, err)
	}
	return emp, records, nil
}
