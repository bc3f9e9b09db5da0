package payroll

import "time"

type Summary struct {
	EmployeeID                int64     `json:"employee_id"`
	Records                   int       `json:"records"`
	TotalHoursWorked          float64   `json:"total_hours_worked"`
	TotalOvertimePay          float64   `json:"total_overtime_pay"`
	TotalNightDifferentialPay float64   `json:"total_night_differential_pay"`
	TotalDeductions           float64   `json:"total_deductions"`
	TotalAllowance            float64   `json:"total_allowance"`
	GrossSalary               float64   `json:"gross_salary"`
	NetSalary                 float64   `json:"net_salary"`
	PeriodFrom                time.Time `json:"pay_period_from"`
	PeriodTo                  time.Time `json:"pay_period_to"`
}

// Summarize folds records into totals, treating absent amounts as zero. The
// pay period spans the earliest and latest work dates.
func Summarize(employeeID int64, records []Record) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrNoRecordsFound
	}

	sum := Summary{EmployeeID: employeeID, Records: len(records)}
	for i, rec := range records {
		sum.TotalHoursWorked += rec.TotalHoursWorked
		sum.TotalOvertimePay += value(rec.OvertimePay)
		sum.TotalNightDifferentialPay += value(rec.NightDifferentialPay)
		sum.TotalDeductions += value(rec.Deductions)
		sum.TotalAllowance += value(rec.Allowance)
		sum.GrossSalary += value(rec.Subtotal)
		sum.NetSalary += value(rec.NetSalary)

		if i == 0 || rec.Date.Before(sum.PeriodFrom) {
			sum.PeriodFrom = rec.Date
		}
		if i == 0 || rec.Date.After(sum.PeriodTo) {
			sum.PeriodTo = rec.Date
		}
	}
	return sum, nil
}
