package payroll

import (
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
)

// csvRow keeps the import column names so an export can be edited and
// uploaded again.
type csvRow struct {
	ID                    int64  `csv:"id"`
	EmployeeID            int64  `csv:"employee_id"`
	Allowance             string `csv:"allowance"`
	TotalHoursWorked      string `csv:"total_hours_worked"`
	OvertimePay           string `csv:"overtime_pay"`
	OvertimeHour          string `csv:"overtime_hour"`
	NightDifferentialPay  string `csv:"night_differential_pay"`
	NightDifferentialHour string `csv:"night_differential_hour"`
	Deductions            string `csv:"deductions"`
	DeductionRemarks      string `csv:"deduction_remarks"`
	Subtotal              string `csv:"subtotal"`
	NetSalary             string `csv:"net_salary"`
	Date                  string `csv:"date"`
	TimeIn                string `csv:"time_in"`
	TimeOut               string `csv:"time_out"`
	Project               string `csv:"project"`
}

func formatAmount(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

// WriteCSV writes records in the import layout. Absent amounts become empty
// cells.
func WriteCSV(w io.Writer, records []Record) error {
	rows := make([]csvRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, csvRow{
			ID:                    rec.ID,
			EmployeeID:            rec.EmployeeID,
			Allowance:             formatAmount(rec.Allowance),
			TotalHoursWorked:      formatAmount(&rec.TotalHoursWorked),
			OvertimePay:           formatAmount(rec.OvertimePay),
			OvertimeHour:          formatAmount(rec.OvertimeHour),
			NightDifferentialPay:  formatAmount(rec.NightDifferentialPay),
			NightDifferentialHour: formatAmount(rec.NightDifferentialHour),
			Deductions:            formatAmount(rec.Deductions),
			DeductionRemarks:      rec.DeductionRemarks,
			Subtotal:              formatAmount(rec.Subtotal),
			NetSalary:             formatAmount(rec.NetSalary),
			Date:                  rec.Date.Format("2006-01-02"),
			TimeIn:                rec.TimeIn.Format("15:04:05"),
			TimeOut:               rec.TimeOut.Format("15:04:05"),
			Project:               rec.Project,
		})
	}
	return gocsv.Marshal(&rows, w)
}
