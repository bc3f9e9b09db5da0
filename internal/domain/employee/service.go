package employee

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func normalizeInput(input Input) (Input, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(input.Email)
	input.Position = strings.TrimSpace(input.Position)
	input.Status = strings.TrimSpace(input.Status)

	switch {
	case input.FirstName == "":
		return input, &ValidationError{Field: "first_name", Message: "is required"}
	case input.LastName == "":
		return input, &ValidationError{Field: "last_name", Message: "is required"}
	case input.Email == "":
		return input, &ValidationError{Field: "email", Message: "is required"}
	case input.Position == "":
		return input, &ValidationError{Field: "position", Message: "is required"}
	case input.HireDate.IsZero():
		return input, &ValidationError{Field: "hire_date", Message: "is required"}
	case input.Salary < 0:
		return input, &ValidationError{Field: "salary", Message: "must not be negative"}
	}
	if input.Status == "" {
		input.Status = StatusActive
	}
	if !ValidStatus(input.Status) {
		return input, invalidStatus(input.Status)
	}
	return input, nil
}

func invalidStatus(status string) error {
	return &ValidationError{
		Field:   "status",
		Message: fmt.Sprintf("invalid status value %q, allowed values are %s", status, strings.Join(Statuses, ", ")),
	}
}

func (s *Service) Create(ctx context.Context, input Input) (*Employee, error) {
	normalized, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}
	return s.store.Create(ctx, normalized)
}

func (s *Service) Get(ctx context.Context, id int64) (*Employee, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, input Input) (*Employee, error) {
	normalized, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, normalized)
}

// UpdateStatus sets status explicitly, or toggles it when status is empty.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*Employee, error) {
	status = strings.TrimSpace(status)
	if status != "" && !ValidStatus(status) {
		return nil, invalidStatus(status)
	}
	return s.store.SetStatus(ctx, id, status)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Employee, int, error) {
	if filter.Status != "" && !ValidStatus(filter.Status) {
		return nil, 0, invalidStatus(filter.Status)
	}
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	employees, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
