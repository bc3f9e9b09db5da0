package payroll

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func samplePayslip(t *testing.T) Payslip {
	t.Helper()
	emp := staff()[1]
	rec, err := DefaultPolicy().Normalize(twelveHourInput())
	require.NoError(t, err)
	rec.OvertimePay = ptr(250.0)
	sum, err := Summarize(emp.ID, []Record{rec})
	require.NoError(t, err)
	return Payslip{
		Employee:    emp,
		Summary:     sum,
		Records:     []Record{rec},
		Company:     Company{Name: "Acme Fit-Out", Details: "12 Harbour Road · Cebu"},
		GeneratedAt: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestRenderPayslipPDF(t *testing.T) {
	data, err := RenderPayslipPDF(samplePayslip(t))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderPayslipExcelTotals(t *testing.T) {
	data, err := RenderPayslipExcel(samplePayslip(t))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	name, err := f.GetCellValue("Payslip", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Fit-Out", name)

	rows, err := f.GetRows("Payslip", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	totals := map[string]string{}
	for _, r := range rows {
		if len(r) >= 3 && r[0] != "" {
			totals[r[0]] = r[2]
		}
	}
	assert.Equal(t, "3800", totals["Total Net Salary"])
	assert.Equal(t, "5000", totals["Total Gross Salary"])
	assert.Equal(t, "250", totals["Total Overtime Pay"])
	assert.Equal(t, "12", totals["Total Hours Worked"])
}
