package payroll

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation      = errors.New("payroll validation failed")
	ErrRecordNotFound  = errors.New("payroll record not found")
	ErrNoRecordsFound  = errors.New("no payroll records found")
	ErrDuplicateRecord = errors.New("payroll record already exists for this employee on that date")
)

type Rule string

const (
	RuleEmployeeRequired      Rule = "employee_required"
	RuleMissingTimes          Rule = "missing_times"
	RuleInvalidTimeRange      Rule = "invalid_time_range"
	RuleOvertimeNotEligible   Rule = "overtime_not_eligible"
	RuleOvertimeExceedsBase   Rule = "overtime_exceeds_base"
	RuleDeductionsExceedGross Rule = "deductions_exceed_gross"
	RuleMalformedValue        Rule = "malformed_value"
)

type ValidationError struct {
	Rule    Rule
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (%s): %s", e.Rule, e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type ImportErrorKind string

const (
	ImportUnreadable      ImportErrorKind = "invalid_file"
	ImportMissingColumns  ImportErrorKind = "missing_columns"
	ImportUnknownEmployee ImportErrorKind = "unknown_employee"
	ImportRowInvalid      ImportErrorKind = "invalid_row"
	ImportDuplicate       ImportErrorKind = "duplicate_payroll"
	ImportStorageFailure  ImportErrorKind = "storage_failure"
)

// ImportError reports why a batch was rejected. Row is the 1-based data row,
// header excluded; zero when the failure is not tied to a row.
type ImportError struct {
	Kind       ImportErrorKind
	Row        int
	Column     string
	Columns    []string
	EmployeeID int64
	Err        error
}

func (e *ImportError) Error() string {
	switch e.Kind {
	case ImportMissingColumns:
		return "missing required columns: " + strings.Join(e.Columns, ", ")
	case ImportUnknownEmployee:
		return fmt.Sprintf("row %d: employee with id %d does not exist", e.Row, e.EmployeeID)
	case ImportRowInvalid:
		return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
	case ImportDuplicate:
		if e.Row > 0 {
			return fmt.Sprintf("row %d: duplicate payroll for employee %d on the same date", e.Row, e.EmployeeID)
		}
		return fmt.Sprintf("batch rejected: %v", e.Err)
	case ImportUnreadable:
		return fmt.Sprintf("unreadable file: %v", e.Err)
	default:
		return fmt.Sprintf("import failed: %v", e.Err)
	}
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
