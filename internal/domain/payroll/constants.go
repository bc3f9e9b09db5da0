package payroll

// DefaultShiftHours is the base shift length overtime is measured against.
const DefaultShiftHours = 10.0

// hoursEpsilon absorbs float noise from hour and money arithmetic.
const hoursEpsilon = 1e-9

const (
	ColEmployeeID            = "employee_id"
	ColAllowance             = "allowance"
	ColTotalHoursWorked      = "total_hours_worked"
	ColOvertimePay           = "overtime_pay"
	ColOvertimeHour          = "overtime_hour"
	ColNightDifferentialPay  = "night_differential_pay"
	ColNightDifferentialHour = "night_differential_hour"
	ColDeductions            = "deductions"
	ColDeductionRemarks      = "deduction_remarks"
	ColSubtotal              = "subtotal"
	ColNetSalary             = "net_salary"
	ColDate                  = "date"
	ColTimeIn                = "time_in"
	ColTimeOut               = "time_out"
	ColProject               = "project"
)

// RequiredColumns is the import header contract, in template order.
var RequiredColumns = []string{
	ColEmployeeID, ColAllowance, ColTotalHoursWorked, ColOvertimePay,
	ColOvertimeHour, ColNightDifferentialPay, ColNightDifferentialHour,
	ColDeductions, ColDeductionRemarks, ColSubtotal, ColNetSalary, ColDate,
	ColTimeIn, ColTimeOut, ColProject,
}

var numericColumns = map[string]bool{
	ColAllowance:             true,
	ColTotalHoursWorked:      true,
	ColOvertimePay:           true,
	ColOvertimeHour:          true,
	ColNightDifferentialPay:  true,
	ColNightDifferentialHour: true,
	ColDeductions:            true,
	ColSubtotal:              true,
	ColNetSalary:             true,
}
