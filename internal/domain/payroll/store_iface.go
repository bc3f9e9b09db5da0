package payroll

import (
	"context"

	"hrpayroll/internal/domain/employee"
)

type StoreAPI interface {
	Insert(ctx context.Context, rec Record) (*Record, error)
	// InsertMany stores every record or none of them.
	InsertMany(ctx context.Context, recs []Record) ([]Record, error)
	Update(ctx context.Context, id int64, rec Record) (*Record, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*Record, error)
	List(ctx context.Context, filter Filter) ([]Record, error)
	Count(ctx context.Context, filter Filter) (int, error)
	FindBy(ctx context.Context, employeeID int64, rng Range) ([]Record, error)
}

type EmployeeLookup interface {
	Get(ctx context.Context, id int64) (*employee.Employee, error)
}
