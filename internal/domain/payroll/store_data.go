package payroll

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrpayroll/internal/domain/employee"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const recordColumns = `id, employee_id, time_in, time_out, date, total_hours_worked,
           overtime_hour, overtime_pay, night_differential_hour, night_differential_pay,
           deductions, allowance, subtotal, net_salary, deduction_remarks, project, created_at`

const insertRecordSQL = `
    INSERT INTO payroll (employee_id, time_in, time_out, date, total_hours_worked,
                         overtime_hour, overtime_pay, night_differential_hour, night_differential_pay,
                         deductions, allowance, subtotal, net_salary, deduction_remarks, project, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
    RETURNING ` + recordColumns

func insertArgs(rec Record) []any {
	return []any{
		rec.EmployeeID, rec.TimeIn, rec.TimeOut, rec.Date, rec.TotalHoursWorked,
		rec.OvertimeHour, rec.OvertimePay, rec.NightDifferentialHour, rec.NightDifferentialPay,
		rec.Deductions, rec.Allowance, rec.Subtotal, rec.NetSalary, rec.DeductionRemarks, rec.Project, rec.CreatedAt,
	}
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.TimeIn, &rec.TimeOut, &rec.Date, &rec.TotalHoursWorked,
		&rec.OvertimeHour, &rec.OvertimePay, &rec.NightDifferentialHour, &rec.NightDifferentialPay,
		&rec.Deductions, &rec.Allowance, &rec.Subtotal, &rec.NetSalary, &rec.DeductionRemarks, &rec.Project, &rec.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &rec, nil
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRecordNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateRecord
		case "23503":
			return employee.ErrNotFound
		}
	}
	return err
}

func (s *Store) Insert(ctx context.Context, rec Record) (*Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, insertRecordSQL, insertArgs(rec)...))
}

func (s *Store) InsertMany(ctx context.Context, recs []Record) ([]Record, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, rec := range recs {
		batch.Queue(insertRecordSQL, insertArgs(rec)...)
	}

	results := tx.SendBatch(ctx, batch)
	stored := make([]Record, 0, len(recs))
	for i := range recs {
		rec, err := scanRecord(results.QueryRow())
		if err != nil {
			_ = results.Close()
			return nil, fmt.Errorf("insert payroll %d of %d: %w", i+1, len(recs), err)
		}
		stored = append(stored, *rec)
	}
	if err := results.Close(); err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *Store) Update(ctx context.Context, id int64, rec Record) (*Record, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE payroll
    SET employee_id = $2, time_in = $3, time_out = $4, date = $5, total_hours_worked = $6,
        overtime_hour = $7, overtime_pay = $8, night_differential_hour = $9, night_differential_pay = $10,
        deductions = $11, allowance = $12, subtotal = $13, net_salary = $14,
        deduction_remarks = $15, project = $16
    WHERE id = $1
    RETURNING `+recordColumns,
		id, rec.EmployeeID, rec.TimeIn, rec.TimeOut, rec.Date, rec.TotalHoursWorked,
		rec.OvertimeHour, rec.OvertimePay, rec.NightDifferentialHour, rec.NightDifferentialPay,
		rec.Deductions, rec.Allowance, rec.Subtotal, rec.NetSalary, rec.DeductionRemarks, rec.Project)
	return scanRecord(row)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM payroll WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM payroll
    WHERE id = $1
  `, id))
}

func filterClause(filter Filter) (string, []any) {
	var conds []string
	var args []any
	if filter.EmployeeID > 0 {
		args = append(args, filter.EmployeeID)
		conds = append(conds, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, dateOf(*filter.From))
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, dateOf(*filter.To))
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Record, error) {
	where, args := filterClause(filter)
	query := `SELECT ` + recordColumns + ` FROM payroll` + where + ` ORDER BY date, employee_id, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (s *Store) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := filterClause(filter)
	var count int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM payroll`+where, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) FindBy(ctx context.Context, employeeID int64, rng Range) ([]Record, error) {
	return s.List(ctx, Filter{EmployeeID: employeeID, Range: rng})
}
