package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `id, first_name, last_name, email, hire_date, position, salary, status, created_at, updated_at`

func scanEmployee(row pgx.Row) (*Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.HireDate,
		&emp.Position, &emp.Salary, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &emp, nil
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}

func (s *Store) Create(ctx context.Context, input Input) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, hire_date, position, salary, status, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7, now(), now())
    RETURNING `+employeeColumns,
		input.FirstName, input.LastName, input.Email, input.HireDate, input.Position, input.Salary, input.Status)
	return scanEmployee(row)
}

func (s *Store) Get(ctx context.Context, id int64) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE id = $1
  `, id)
	return scanEmployee(row)
}

func (s *Store) Update(ctx context.Context, id int64, input Input) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE employees
    SET first_name = $2, last_name = $3, email = $4, hire_date = $5,
        position = $6, salary = $7, status = $8, updated_at = now()
    WHERE id = $1
    RETURNING `+employeeColumns,
		id, input.FirstName, input.LastName, input.Email, input.HireDate, input.Position, input.Salary, input.Status)
	return scanEmployee(row)
}

func (s *Store) SetStatus(ctx context.Context, id int64, status string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE employees
    SET status = CASE
          WHEN $2::text <> '' THEN $2::text
          WHEN status = 'Active' THEN 'Inactive'
          ELSE 'Active'
        END,
        updated_at = now()
    WHERE id = $1
    RETURNING `+employeeColumns, id, status)
	return scanEmployee(row)
}

func filterClause(filter Filter) (string, []any) {
	var conds []string
	var args []any
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		conds = append(conds, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d)", len(args), len(args)))
	}
	if filter.HireDateFrom != nil {
		args = append(args, *filter.HireDateFrom)
		conds = append(conds, fmt.Sprintf("hire_date >= $%d", len(args)))
	}
	if filter.HireDateTo != nil {
		args = append(args, *filter.HireDateTo)
		conds = append(conds, fmt.Sprintf("hire_date <= $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Employee, error) {
	where, args := filterClause(filter)
	query := `SELECT ` + employeeColumns + ` FROM employees` + where + ` ORDER BY id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *emp)
	}
	return employees, rows.Err()
}

func (s *Store) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := filterClause(filter)
	var count int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM employees`+where, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
