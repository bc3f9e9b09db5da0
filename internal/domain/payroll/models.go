package payroll

import "time"

type Record struct {
	ID                    int64     `json:"id"`
	EmployeeID            int64     `json:"employee_id"`
	TimeIn                time.Time `json:"time_in"`
	TimeOut               time.Time `json:"time_out"`
	Date                  time.Time `json:"date"`
	TotalHoursWorked      float64   `json:"total_hours_worked"`
	OvertimeHour          *float64  `json:"overtime_hour"`
	OvertimePay           *float64  `json:"overtime_pay"`
	NightDifferentialHour *float64  `json:"night_differential_hour"`
	NightDifferentialPay  *float64  `json:"night_differential_pay"`
	Deductions            *float64  `json:"deductions"`
	Allowance             *float64  `json:"allowance"`
	Subtotal              *float64  `json:"subtotal"`
	NetSalary             *float64  `json:"net_salary"`
	DeductionRemarks      string    `json:"deduction_remarks"`
	Project               string    `json:"project"`
	CreatedAt             time.Time `json:"created_at"`
}

// Input is a candidate record before validation. Nil pointers mean the
// caller did not supply the value.
type Input struct {
	EmployeeID            int64
	TimeIn                time.Time
	TimeOut               time.Time
	Date                  *time.Time
	TotalHoursWorked      *float64
	OvertimeHour          *float64
	OvertimePay           *float64
	NightDifferentialHour *float64
	NightDifferentialPay  *float64
	Deductions            *float64
	Allowance             *float64
	Subtotal              *float64
	NetSalary             *float64
	DeductionRemarks      string
	Project               string
}

// Patch carries the fields of a partial update.
type Patch struct {
	EmployeeID            *int64
	TimeIn                *time.Time
	TimeOut               *time.Time
	Date                  *time.Time
	TotalHoursWorked      *float64
	OvertimeHour          *float64
	OvertimePay           *float64
	NightDifferentialHour *float64
	NightDifferentialPay  *float64
	Deductions            *float64
	Allowance             *float64
	Subtotal              *float64
	NetSalary             *float64
	DeductionRemarks      *string
	Project               *string
}

type Range struct {
	From *time.Time
	To   *time.Time
}

type Filter struct {
	EmployeeID int64
	Range
	Limit  int
	Offset int
}

// Input turns a stored record back into a candidate for re-validation.
func (r Record) Input() Input {
	date := r.Date
	hours := r.TotalHoursWorked
	return Input{
		EmployeeID:            r.EmployeeID,
		TimeIn:                r.TimeIn,
		TimeOut:               r.TimeOut,
		Date:                  &date,
		TotalHoursWorked:      &hours,
		OvertimeHour:          r.OvertimeHour,
		OvertimePay:           r.OvertimePay,
		NightDifferentialHour: r.NightDifferentialHour,
		NightDifferentialPay:  r.NightDifferentialPay,
		Deductions:            r.Deductions,
		Allowance:             r.Allowance,
		Subtotal:              r.Subtotal,
		NetSalary:             r.NetSalary,
		DeductionRemarks:      r.DeductionRemarks,
		Project:               r.Project,
	}
}

// Apply merges the patch over base. Moving either timestamp without an
// explicit total drops the stored total so it is derived again; moving
// time_in without an explicit date does the same for the work date.
func (p Patch) Apply(base Record) Input {
	in := base.Input()

	if p.EmployeeID != nil {
		in.EmployeeID = *p.EmployeeID
	}
	if p.TimeIn != nil {
		in.TimeIn = *p.TimeIn
		if p.Date == nil {
			in.Date = nil
		}
	}
	if p.TimeOut != nil {
		in.TimeOut = *p.TimeOut
	}
	if (p.TimeIn != nil || p.TimeOut != nil) && p.TotalHoursWorked == nil {
		in.TotalHoursWorked = nil
	}
	if p.Date != nil {
		in.Date = p.Date
	}
	if p.TotalHoursWorked != nil {
		in.TotalHoursWorked = p.TotalHoursWorked
	}
	if p.OvertimeHour != nil {
		in.OvertimeHour = p.OvertimeHour
	}
	if p.OvertimePay != nil {
		in.OvertimePay = p.OvertimePay
	}
	if p.NightDifferentialHour != nil {
		in.NightDifferentialHour = p.NightDifferentialHour
	}
	if p.NightDifferentialPay != nil {
		in.NightDifferentialPay = p.NightDifferentialPay
	}
	if p.Deductions != nil {
		in.Deductions = p.Deductions
	}
	if p.Allowance != nil {
		in.Allowance = p.Allowance
	}
	if p.Subtotal != nil {
		in.Subtotal = p.Subtotal
	}
	if p.NetSalary != nil {
		in.NetSalary = p.NetSalary
	}
	if p.DeductionRemarks != nil {
		in.DeductionRemarks = *p.DeductionRemarks
	}
	if p.Project != nil {
		in.Project = *p.Project
	}
	return in
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func ptr[T any](v T) *T {
	return &v
}
