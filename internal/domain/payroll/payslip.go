package payroll

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"hrpayroll/internal/domain/employee"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv"
)

type Company struct {
	Name    string
	Details string
}

type Payslip struct {
	Employee    employee.Employee
	Summary     Summary
	Records     []Record
	Company     Company
	GeneratedAt time.Time
}

func (p Payslip) Filename(ext string) string {
	name := strings.ReplaceAll(p.Employee.FirstName+"_"+p.Employee.LastName, " ", "_")
	return fmt.Sprintf("payslip_%s_%s.%s", name, p.GeneratedAt.Format("20060102_150405"), ext)
}

func (p Payslip) period() string {
	return p.Summary.PeriodFrom.Format("2006-01-02") + " - " + p.Summary.PeriodTo.Format("2006-01-02")
}

type payslipLine struct {
	label string
	value float64
}

func (p Payslip) totals() []payslipLine {
	s := p.Summary
	return []payslipLine{
		{"Total Hours Worked", s.TotalHoursWorked},
		{"Total Overtime Pay", s.TotalOvertimePay},
		{"Total Night Differential Pay", s.TotalNightDifferentialPay},
		{"Total Allowance", s.TotalAllowance},
		{"Total Deductions", s.TotalDeductions},
		{"Total Gross Salary", s.GrossSalary},
		{"Total Net Salary", s.NetSalary},
	}
}

var payslipColumns = []string{"Date", "Time In", "Time Out", "Hours", "Overtime", "Night Diff", "Allowance", "Deductions", "Gross", "Net Salary"}

func recordCells(rec Record) []any {
	return []any{
		rec.Date.Format("2006-01-02"),
		rec.TimeIn.Format("15:04"),
		rec.TimeOut.Format("15:04"),
		rec.TotalHoursWorked,
		value(rec.OvertimePay),
		value(rec.NightDifferentialPay),
		value(rec.Allowance),
		value(rec.Deductions),
		value(rec.Subtotal),
		value(rec.NetSalary),
	}
}

// RenderPayslipPDF renders an A4 landscape payslip. Long record tables flow
// onto further pages.
func RenderPayslipPDF(p Payslip) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, tr(p.Company.Name), "", 1, "L", false, 0, "")
	if p.Company.Details != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(p.Company.Details), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Payslip", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	info := []string{
		fmt.Sprintf("Employee: %s", p.Employee.FullName()),
		fmt.Sprintf("Position: %s", p.Employee.Position),
		fmt.Sprintf("Pay Period: %s", p.period()),
		fmt.Sprintf("Date Generated: %s", p.GeneratedAt.Format("2006-01-02")),
		fmt.Sprintf("Daily Rate: %.2f", p.Employee.Salary),
	}
	for _, line := range info {
		pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	width := 277.0 / float64(len(payslipColumns))
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range payslipColumns {
		pdf.CellFormat(width, 7, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, rec := range p.Records {
		for i, cell := range recordCells(rec) {
			align, text := "R", ""
			switch v := cell.(type) {
			case string:
				align, text = "C", v
			case float64:
				text = fmt.Sprintf("%.2f", v)
			}
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(width, 6, text, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	for _, line := range p.totals() {
		pdf.CellFormat(80, 6, line.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", line.value), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payslip pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func RenderPayslipExcel(p Payslip) ([]byte, error) {
	const sheet = "Payslip"
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}

	set := func(cell string, v any, style int) error {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
		if style != 0 {
			return f.SetCellStyle(sheet, cell, cell, style)
		}
		return nil
	}

	if err := f.MergeCell(sheet, "A1", "G1"); err != nil {
		return nil, err
	}
	if err := set("A1", p.Company.Name, title); err != nil {
		return nil, err
	}
	if err := f.MergeCell(sheet, "A2", "J2"); err != nil {
		return nil, err
	}
	if err := set("A2", p.Company.Details, 0); err != nil {
		return nil, err
	}

	info := []string{
		"Employee: " + p.Employee.FullName(),
		"Position: " + p.Employee.Position,
		"Pay Period: " + p.period(),
		"Date Generated: " + p.GeneratedAt.Format("2006-01-02"),
		fmt.Sprintf("Daily Rate: %.2f", p.Employee.Salary),
	}
	row := 4
	for _, line := range info {
		if err := f.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row)); err != nil {
			return nil, err
		}
		if err := set(fmt.Sprintf("A%d", row), line, bold); err != nil {
			return nil, err
		}
		row++
	}

	row++
	header := make([]any, len(payslipColumns))
	for i, col := range payslipColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &header); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("J%d", row), bold); err != nil {
		return nil, err
	}
	for _, rec := range p.Records {
		row++
		cells := recordCells(rec)
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &cells); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("D%d", row), fmt.Sprintf("J%d", row), money); err != nil {
			return nil, err
		}
	}

	row += 2
	for _, line := range p.totals() {
		if err := set(fmt.Sprintf("A%d", row), line.label, bold); err != nil {
			return nil, err
		}
		if err := set(fmt.Sprintf("C%d", row), line.value, money); err != nil {
			return nil, err
		}
		row++
	}
	if err := f.SetColWidth(sheet, "A", "J", 14); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
