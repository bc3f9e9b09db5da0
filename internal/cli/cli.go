package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"hrpayroll/internal/domain/employee"
	"hrpayroll/internal/domain/payroll"
	"hrpayroll/internal/platform/config"
	"hrpayroll/internal/platform/db"
	"hrpayroll/internal/platform/logger"
)

type PayrollService interface {
	Summary(ctx context.Context, employeeID int64, rng payroll.Range) (*payroll.Summary, error)
	Payslip(ctx context.Context, employeeID int64, rng payroll.Range, company payroll.Company) (*payroll.Payslip, error)
}

type Importer interface {
	Import(ctx context.Context, r io.Reader, filename string) (*payroll.ImportResult, error)
}

// Backend is what the database-backed commands run against.
type Backend struct {
	Payroll  PayrollService
	Importer Importer
	Company  payroll.Company
	Migrate  func(ctx context.Context) error
	Close    func()
}

type Opener func(ctx context.Context) (*Backend, error)

// Open connects to the configured database and wires the payroll services.
func Open(ctx context.Context) (*Backend, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, flush := logger.FromConfig(cfg)

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		flush()
		return nil, fmt.Errorf("db connect: %w", err)
	}

	employees := employee.NewService(employee.NewStore(pool))
	policy := payroll.Policy{ShiftHours: cfg.StandardShiftHours}
	store := payroll.NewStore(pool)
	return &Backend{
		Payroll:  payroll.NewService(store, employees, policy, nil),
		Importer: payroll.NewImporter(store, employees, policy, nil, log.Named("import")),
		Company:  payroll.Company{Name: cfg.CompanyName, Details: cfg.CompanyDetails},
		Migrate:  func(ctx context.Context) error { return db.Migrate(ctx, pool) },
		Close: func() {
			pool.Close()
			flush()
		},
	}, nil
}

func NewRootCommand(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "payrollctl",
		Short:         "Operate the payroll database from the terminal",
		Long:          "payrollctl applies migrations, imports timesheet spreadsheets and renders payslips against the configured database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		migrateCmd(open),
		importCmd(open),
		templateCmd(),
		payslipCmd(open),
		summaryCmd(open),
	)
	return root
}

// withBackend opens the backend for the duration of one command.
func withBackend(open Opener, fn func(cmd *cobra.Command, b *Backend) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		b, err := open(cmd.Context())
		if err != nil {
			return err
		}
		if b.Close != nil {
			defer b.Close()
		}
		return fn(cmd, b)
	}
}

func migrateCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: withBackend(open, func(cmd *cobra.Command, b *Backend) error {
			if err := b.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		}),
	}
}

func importCmd(open Opener) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a payroll spreadsheet (.xlsx, .xls or .csv)",
		Args:  cobra.NoArgs,
		RunE: withBackend(open, func(cmd *cobra.Command, b *Backend) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			result, err := b.Importer.Import(cmd.Context(), f, file)
			if err != nil {
				var impErr *payroll.ImportError
				if errors.As(err, &impErr) {
					return fmt.Errorf("import rejected, nothing was saved: %w", err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d payroll records from %s\n", result.Imported, file)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "spreadsheet to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func templateCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write an empty import template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := payroll.Template()
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "template written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "payroll_template.xlsx", "output path")
	return cmd
}

type periodFlags struct {
	employeeID int64
	from       string
	to         string
}

func (p *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64VarP(&p.employeeID, "employee", "e", 0, "employee id")
	cmd.Flags().StringVar(&p.from, "from", "", "first work date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&p.to, "to", "", "last work date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("employee")
}

func (p *periodFlags) parse() (payroll.Range, error) {
	var rng payroll.Range
	if p.employeeID <= 0 {
		return rng, fmt.Errorf("--employee must be a positive id")
	}
	for _, f := range []struct {
		name string
		raw  string
		dst  **time.Time
	}{{"from", p.from, &rng.From}, {"to", p.to, &rng.To}} {
		if f.raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", f.raw)
		if err != nil {
			return rng, fmt.Errorf("--%s must be YYYY-MM-DD: %w", f.name, err)
		}
		*f.dst = &t
	}
	if rng.From != nil && rng.To != nil && rng.To.Before(*rng.From) {
		return rng, fmt.Errorf("--to must not be before --from")
	}
	return rng, nil
}

func payslipCmd(open Opener) *cobra.Command {
	var (
		period periodFlags
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "payslip",
		Short: "Render a payslip as PDF or Excel",
		Args:  cobra.NoArgs,
		RunE: withBackend(open, func(cmd *cobra.Command, b *Backend) error {
			rng, err := period.parse()
			if err != nil {
				return err
			}
			render, ext := payroll.RenderPayslipPDF, "pdf"
			switch strings.ToLower(format) {
			case "pdf":
			case "excel", "xlsx":
				render, ext = payroll.RenderPayslipExcel, "xlsx"
			default:
				return fmt.Errorf("unknown format %q, use pdf or excel", format)
			}

			slip, err := b.Payroll.Payslip(cmd.Context(), period.employeeID, rng, b.Company)
			if err != nil {
				return err
			}
			data, err := render(*slip)
			if err != nil {
				return err
			}
			if out == "" {
				out = slip.Filename(ext)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "payslip for %s written to %s\n", slip.Employee.FullName(), out)
			return nil
		}),
	}
	period.register(cmd)
	cmd.Flags().StringVar(&format, "format", "pdf", "pdf or excel")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (defaults to a generated name)")
	return cmd
}

func summaryCmd(open Opener) *cobra.Command {
	var period periodFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print payroll totals for one employee",
		Args:  cobra.NoArgs,
		RunE: withBackend(open, func(cmd *cobra.Command, b *Backend) error {
			rng, err := period.parse()
			if err != nil {
				return err
			}
			sum, err := b.Payroll.Summary(cmd.Context(), period.employeeID, rng)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), sum)
			return nil
		}),
	}
	period.register(cmd)
	return cmd
}

func printSummary(w io.Writer, sum *payroll.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Employee\t%d\n", sum.EmployeeID)
	fmt.Fprintf(tw, "Pay period\t%s to %s\n", sum.PeriodFrom.Format("2006-01-02"), sum.PeriodTo.Format("2006-01-02"))
	fmt.Fprintf(tw, "Records\t%d\n", sum.Records)
	fmt.Fprintf(tw, "Hours worked\t%.2f\n", sum.TotalHoursWorked)
	fmt.Fprintf(tw, "Overtime pay\t%.2f\n", sum.TotalOvertimePay)
	fmt.Fprintf(tw, "Night differential pay\t%.2f\n", sum.TotalNightDifferentialPay)
	fmt.Fprintf(tw, "Allowance\t%.2f\n", sum.TotalAllowance)
	fmt.Fprintf(tw, "Deductions\t%.2f\n", sum.TotalDeductions)
	fmt.Fprintf(tw, "Gross salary\t%.2f\n", sum.GrossSalary)
	fmt.Fprintf(tw, "Net salary\t%.2f\n", sum.NetSalary)
	_ = tw.Flush()
}
