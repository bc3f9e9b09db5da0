package payroll

import "fmt"

// Policy holds the tunable parts of payroll validation.
type Policy struct {
	ShiftHours float64
}

func DefaultPolicy() Policy {
	return Policy{ShiftHours: DefaultShiftHours}
}

func (p Policy) shift() float64 {
	if p.ShiftHours <= 0 {
		return DefaultShiftHours
	}
	return p.ShiftHours
}

// Normalize validates a candidate and derives the work date, total hours and
// net salary. The steps run in a fixed order because later rules read values
// derived by earlier ones. Absent optional amounts count as zero in the rules
// but stay nil on the returned record.
func (p Policy) Normalize(in Input) (Record, error) {
	shift := p.shift()

	if in.EmployeeID <= 0 {
		return Record{}, &ValidationError{Rule: RuleEmployeeRequired, Field: ColEmployeeID, Message: "employee reference is required"}
	}
	if in.TimeIn.IsZero() || in.TimeOut.IsZero() {
		field := ColTimeIn
		if !in.TimeIn.IsZero() {
			field = ColTimeOut
		}
		return Record{}, &ValidationError{Rule: RuleMissingTimes, Field: field, Message: "time in and time out are required"}
	}

	rec := Record{
		EmployeeID:            in.EmployeeID,
		TimeIn:                in.TimeIn,
		TimeOut:               in.TimeOut,
		OvertimeHour:          in.OvertimeHour,
		OvertimePay:           in.OvertimePay,
		NightDifferentialHour: in.NightDifferentialHour,
		NightDifferentialPay:  in.NightDifferentialPay,
		Deductions:            in.Deductions,
		Allowance:             in.Allowance,
		Subtotal:              in.Subtotal,
		NetSalary:             in.NetSalary,
		DeductionRemarks:      in.DeductionRemarks,
		Project:               in.Project,
	}

	if in.Date != nil && !in.Date.IsZero() {
		rec.Date = dateOf(*in.Date)
	} else {
		rec.Date = dateOf(in.TimeIn)
	}

	if !in.TimeIn.Before(in.TimeOut) {
		return Record{}, &ValidationError{Rule: RuleInvalidTimeRange, Field: ColTimeIn, Message: "time in must be earlier than time out"}
	}

	if in.TotalHoursWorked != nil && *in.TotalHoursWorked != 0 {
		rec.TotalHoursWorked = *in.TotalHoursWorked
	} else {
		rec.TotalHoursWorked = in.TimeOut.Sub(in.TimeIn).Seconds() / 3600
	}

	overtime := value(in.OvertimeHour)
	deductions := value(in.Deductions)

	if overtime > 0 && rec.TotalHoursWorked <= shift+hoursEpsilon {
		return Record{}, &ValidationError{
			Rule:    RuleOvertimeNotEligible,
			Field:   ColOvertimeHour,
			Message: fmt.Sprintf("overtime cannot be recorded unless total hours worked exceed %g", shift),
		}
	}
	if overtime > 0 && rec.TotalHoursWorked-overtime < shift-hoursEpsilon {
		return Record{}, &ValidationError{
			Rule:    RuleOvertimeExceedsBase,
			Field:   ColOvertimeHour,
			Message: fmt.Sprintf("overtime hours must leave at least a %g hour base shift", shift),
		}
	}

	if in.Subtotal != nil {
		if deductions > *in.Subtotal+hoursEpsilon {
			return Record{}, &ValidationError{Rule: RuleDeductionsExceedGross, Field: ColDeductions, Message: "deductions cannot exceed the gross salary"}
		}
		rec.NetSalary = ptr(*in.Subtotal - deductions)
	}

	return rec, nil
}
