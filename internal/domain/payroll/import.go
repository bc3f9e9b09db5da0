package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"hrpayroll/internal/domain/employee"
	"hrpayroll/internal/platform/metrics"
	"hrpayroll/internal/platform/spreadsheet"
)

const TemplateSheet = "Payroll Template"

type ImportResult struct {
	Imported int      `json:"imported"`
	Records  []Record `json:"records"`
}

// Importer turns an uploaded spreadsheet into payroll records. A batch is
// committed whole or not at all; the first failing row stops processing.
type Importer struct {
	store     StoreAPI
	employees EmployeeLookup
	policy    Policy
	metrics   *metrics.Collector
	logger    *zap.Logger
	now       func() time.Time
}

func NewImporter(store StoreAPI, employees EmployeeLookup, policy Policy, collector *metrics.Collector, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		store:     store,
		employees: employees,
		policy:    policy,
		metrics:   collector,
		logger:    logger,
		now:       time.Now,
	}
}

type dupKey struct {
	employeeID int64
	date       time.Time
}

func (im *Importer) Import(ctx context.Context, r io.Reader, filename string) (*ImportResult, error) {
	result, err := im.run(ctx, r, filename)
	if err != nil {
		var impErr *ImportError
		if errors.As(err, &impErr) {
			im.metrics.ImportRejected(string(impErr.Kind))
			im.logger.Warn("payroll import rejected",
				zap.String("file", filename),
				zap.String("kind", string(impErr.Kind)),
				zap.Int("row", impErr.Row),
				zap.String("column", impErr.Column),
				zap.Error(err),
			)
		}
		return nil, err
	}
	im.metrics.ImportCommitted(result.Imported)
	im.logger.Info("payroll import committed", zap.String("file", filename), zap.Int("rows", result.Imported))
	return result, nil
}

func (im *Importer) run(ctx context.Context, r io.Reader, filename string) (*ImportResult, error) {
	rows, err := spreadsheet.ReadRows(r, filename)
	if err != nil {
		return nil, &ImportError{Kind: ImportUnreadable, Err: err}
	}

	index := map[string]int{}
	for i, h := range rows[0] {
		name := spreadsheet.NormalizeHeader(h)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &ImportError{Kind: ImportMissingColumns, Columns: missing}
	}

	known := map[int64]bool{}
	seen := map[dupKey]int{}
	records := make([]Record, 0, len(rows)-1)
	createdAt := im.now()

	for i, raw := range rows[1:] {
		rowNum := i + 1
		if blankRow(raw) {
			continue
		}
		cells := fillForward(raw, index)

		empID, err := parseEmployeeID(cells[ColEmployeeID])
		if err != nil {
			return nil, rowError(rowNum, ColEmployeeID, RuleMalformedValue, "employee_id must be a positive whole number")
		}
		if !known[empID] {
			if _, err := im.employees.Get(ctx, empID); err != nil {
				if errors.Is(err, employee.ErrNotFound) {
					return nil, &ImportError{Kind: ImportUnknownEmployee, Row: rowNum, Column: ColEmployeeID, EmployeeID: empID, Err: err}
				}
				return nil, &ImportError{Kind: ImportStorageFailure, Row: rowNum, EmployeeID: empID, Err: err}
			}
			known[empID] = true
		}

		in, err := rowInput(rowNum, empID, cells)
		if err != nil {
			return nil, err
		}

		rec, err := im.policy.Normalize(in)
		if err != nil {
			var vErr *ValidationError
			if errors.As(err, &vErr) {
				im.metrics.ValidationFailed(string(vErr.Rule))
				return nil, &ImportError{Kind: ImportRowInvalid, Row: rowNum, Column: vErr.Field, EmployeeID: empID, Err: vErr}
			}
			return nil, err
		}

		key := dupKey{employeeID: rec.EmployeeID, date: rec.Date}
		if first, dup := seen[key]; dup {
			return nil, &ImportError{
				Kind:       ImportDuplicate,
				Row:        rowNum,
				Column:     ColDate,
				EmployeeID: rec.EmployeeID,
				Err:        fmt.Errorf("%w: same employee and date as row %d", ErrDuplicateRecord, first),
			}
		}
		seen[key] = rowNum

		rec.CreatedAt = createdAt
		records = append(records, rec)
	}

	if len(records) == 0 {
		return &ImportResult{Imported: 0, Records: []Record{}}, nil
	}

	stored, err := im.store.InsertMany(ctx, records)
	if err != nil {
		if errors.Is(err, ErrDuplicateRecord) {
			return nil, &ImportError{Kind: ImportDuplicate, Err: err}
		}
		return nil, &ImportError{Kind: ImportStorageFailure, Err: err}
	}
	return &ImportResult{Imported: len(stored), Records: stored}, nil
}

func blankRow(raw []string) bool {
	for _, cell := range raw {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// fillForward maps every required column to a cell value, substituting 0 for
// blank numeric cells and "" for blank text cells.
func fillForward(raw []string, index map[string]int) map[string]string {
	cells := make(map[string]string, len(RequiredColumns))
	for _, col := range RequiredColumns {
		v := spreadsheet.CellValue(raw, index[col])
		if v == "" && numericColumns[col] {
			v = "0"
		}
		cells[col] = v
	}
	return cells
}

func rowError(row int, column string, rule Rule, message string) *ImportError {
	return &ImportError{
		Kind:   ImportRowInvalid,
		Row:    row,
		Column: column,
		Err:    &ValidationError{Rule: rule, Field: column, Message: message},
	}
}

func rowInput(row int, empID int64, cells map[string]string) (Input, error) {
	amounts := map[string]*float64{}
	for _, col := range RequiredColumns {
		if !numericColumns[col] {
			continue
		}
		f, err := parseAmount(cells[col])
		if err != nil {
			return Input{}, rowError(row, col, RuleMalformedValue, fmt.Sprintf("%s must be a number, got %q", col, cells[col]))
		}
		amounts[col] = ptr(f)
	}

	day, err := parseWorkDate(cells[ColDate])
	if err != nil {
		return Input{}, rowError(row, ColDate, RuleMalformedValue, fmt.Sprintf("date %q is not a recognised date", cells[ColDate]))
	}
	clockIn, err := parseClock(cells[ColTimeIn])
	if err != nil {
		return Input{}, rowError(row, ColTimeIn, RuleMalformedValue, fmt.Sprintf("time_in %q is not a recognised time", cells[ColTimeIn]))
	}
	clockOut, err := parseClock(cells[ColTimeOut])
	if err != nil {
		return Input{}, rowError(row, ColTimeOut, RuleMalformedValue, fmt.Sprintf("time_out %q is not a recognised time", cells[ColTimeOut]))
	}

	return Input{
		EmployeeID:            empID,
		TimeIn:                clockIn.on(day),
		TimeOut:               clockOut.on(day),
		Date:                  &day,
		TotalHoursWorked:      amounts[ColTotalHoursWorked],
		OvertimeHour:          amounts[ColOvertimeHour],
		OvertimePay:           amounts[ColOvertimePay],
		NightDifferentialHour: amounts[ColNightDifferentialHour],
		NightDifferentialPay:  amounts[ColNightDifferentialPay],
		Deductions:            amounts[ColDeductions],
		Allowance:             amounts[ColAllowance],
		Subtotal:              amounts[ColSubtotal],
		NetSalary:             amounts[ColNetSalary],
		DeductionRemarks:      cells[ColDeductionRemarks],
		Project:               cells[ColProject],
	}, nil
}

// Template returns an empty upload workbook: the required header plus one
// row of defaults.
func Template() ([]byte, error) {
	defaults := make([]any, len(RequiredColumns))
	for i, col := range RequiredColumns {
		if numericColumns[col] {
			defaults[i] = 0
		} else {
			defaults[i] = ""
		}
	}
	return spreadsheet.WriteSheet(TemplateSheet, RequiredColumns, [][]any{defaults})
}
