package payroll

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 1, day, hour, minute, 0, 0, time.UTC)
}

func requireRule(t *testing.T, err error, rule Rule) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrValidation)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, rule, vErr.Rule)
}

func TestNormalizeTwelveHourShiftWithOvertime(t *testing.T) {
	rec, err := DefaultPolicy().Normalize(Input{
		EmployeeID:   1,
		TimeIn:       at(1, 8, 0),
		TimeOut:      at(1, 20, 0),
		OvertimeHour: ptr(2.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 12.0, rec.TotalHoursWorked)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.Equal(t, 2.0, *rec.OvertimeHour)
}

func TestNormalizeOvertimeOnExactlyBaseShift(t *testing.T) {
	_, err := DefaultPolicy().Normalize(Input{
		EmployeeID:   1,
		TimeIn:       at(1, 8, 0),
		TimeOut:      at(1, 18, 0),
		OvertimeHour: ptr(1.0),
	})
	requireRule(t, err, RuleOvertimeNotEligible)
}

func TestNormalizeOvertimeJustAboveBaseShift(t *testing.T) {
	policy := DefaultPolicy()
	in := Input{
		EmployeeID:       1,
		TimeIn:           at(1, 8, 0),
		TimeOut:          at(1, 18, 30),
		TotalHoursWorked: ptr(10.01),
		OvertimeHour:     ptr(1.0),
	}
	_, err := policy.Normalize(in)
	requireRule(t, err, RuleOvertimeExceedsBase)

	in.OvertimeHour = ptr(0.01)
	rec, err := policy.Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, 10.01, rec.TotalHoursWorked)
}

func TestNormalizeOvertimeMustLeaveBaseShift(t *testing.T) {
	_, err := DefaultPolicy().Normalize(Input{
		EmployeeID:   1,
		TimeIn:       at(1, 6, 0),
		TimeOut:      at(1, 18, 0),
		OvertimeHour: ptr(3.0),
	})
	requireRule(t, err, RuleOvertimeExceedsBase)
}

func TestNormalizeTimeRange(t *testing.T) {
	policy := DefaultPolicy()
	_, err := policy.Normalize(Input{EmployeeID: 1, TimeIn: at(1, 8, 0), TimeOut: at(1, 8, 0)})
	requireRule(t, err, RuleInvalidTimeRange)

	_, err = policy.Normalize(Input{EmployeeID: 1, TimeIn: at(1, 18, 0), TimeOut: at(1, 8, 0)})
	requireRule(t, err, RuleInvalidTimeRange)
}

func TestNormalizeRequiresEmployeeAndTimes(t *testing.T) {
	policy := DefaultPolicy()
	_, err := policy.Normalize(Input{TimeIn: at(1, 8, 0), TimeOut: at(1, 17, 0)})
	requireRule(t, err, RuleEmployeeRequired)

	_, err = policy.Normalize(Input{EmployeeID: 1, TimeIn: at(1, 8, 0)})
	requireRule(t, err, RuleMissingTimes)
}

func TestNormalizeDeductionsExceedGross(t *testing.T) {
	_, err := DefaultPolicy().Normalize(Input{
		EmployeeID: 1,
		TimeIn:     at(1, 8, 0),
		TimeOut:    at(1, 17, 0),
		Subtotal:   ptr(5000.0),
		Deductions: ptr(6000.0),
	})
	requireRule(t, err, RuleDeductionsExceedGross)
}

func TestNormalizeNetSalaryOverwritesSuppliedValue(t *testing.T) {
	rec, err := DefaultPolicy().Normalize(Input{
		EmployeeID: 1,
		TimeIn:     at(1, 8, 0),
		TimeOut:    at(1, 17, 0),
		Subtotal:   ptr(5000.0),
		Deductions: ptr(1200.0),
		NetSalary:  ptr(9999.0),
	})
	require.NoError(t, err)
	require.NotNil(t, rec.NetSalary)
	assert.Equal(t, 3800.0, *rec.NetSalary)
}

func TestNormalizeNetSalaryProperty(t *testing.T) {
	policy := DefaultPolicy()
	for _, c := range []struct{ subtotal, deductions float64 }{
		{0, 0}, {100, 0}, {100, 100}, {2500.5, 300.25}, {999.99, 0.01},
	} {
		rec, err := policy.Normalize(Input{
			EmployeeID: 1,
			TimeIn:     at(1, 8, 0),
			TimeOut:    at(1, 17, 0),
			Subtotal:   ptr(c.subtotal),
			Deductions: ptr(c.deductions),
			NetSalary:  ptr(-1.0),
		})
		require.NoError(t, err)
		assert.Equal(t, c.subtotal-c.deductions, *rec.NetSalary)
	}
}

func TestNormalizeAbsentAmountsStayAbsent(t *testing.T) {
	policy := DefaultPolicy()
	rec, err := policy.Normalize(Input{EmployeeID: 1, TimeIn: at(1, 8, 0), TimeOut: at(1, 17, 0)})
	require.NoError(t, err)
	assert.Nil(t, rec.OvertimeHour)
	assert.Nil(t, rec.Deductions)
	assert.Nil(t, rec.Subtotal)
	assert.Nil(t, rec.NetSalary)

	rec, err = policy.Normalize(Input{EmployeeID: 1, TimeIn: at(1, 8, 0), TimeOut: at(1, 17, 0), Subtotal: ptr(700.0)})
	require.NoError(t, err)
	assert.Nil(t, rec.Deductions)
	assert.Equal(t, 700.0, *rec.NetSalary)

	rec, err = policy.Normalize(Input{EmployeeID: 1, TimeIn: at(1, 8, 0), TimeOut: at(1, 17, 0), Deductions: ptr(0.0)})
	require.NoError(t, err)
	require.NotNil(t, rec.Deductions)
	assert.Equal(t, 0.0, *rec.Deductions)
}

func TestNormalizeDerivedHoursProperty(t *testing.T) {
	policy := DefaultPolicy()
	start := at(1, 0, 0)
	for minutes := 1; minutes <= 24*60; minutes += 37 {
		end := start.Add(time.Duration(minutes) * time.Minute)
		rec, err := policy.Normalize(Input{EmployeeID: 1, TimeIn: start, TimeOut: end})
		require.NoError(t, err)
		assert.Equal(t, end.Sub(start).Seconds()/3600, rec.TotalHoursWorked)
	}
}

func TestNormalizeSuppliedHoursKeptUnlessZero(t *testing.T) {
	policy := DefaultPolicy()
	rec, err := policy.Normalize(Input{EmployeeID: 1, TimeIn: at(1, 8, 0), TimeOut: at(1, 17, 0), TotalHoursWorked: ptr(8.0)})
	require.NoError(t, err)
	assert.Equal(t, 8.0, rec.TotalHoursWorked)

	rec, err = policy.Normalize(Input{EmployeeID: 1, TimeIn: at(1, 8, 0), TimeOut: at(1, 17, 0), TotalHoursWorked: ptr(0.0)})
	require.NoError(t, err)
	assert.Equal(t, 9.0, rec.TotalHoursWorked)
}

func TestNormalizeExplicitDateWins(t *testing.T) {
	workDate := time.Date(2023, 12, 31, 15, 0, 0, 0, time.UTC)
	rec, err := DefaultPolicy().Normalize(Input{EmployeeID: 1, TimeIn: at(1, 1, 0), TimeOut: at(1, 6, 0), Date: &workDate})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), rec.Date)
}

func TestNormalizeShiftLengthIsConfigurable(t *testing.T) {
	in := Input{EmployeeID: 1, TimeIn: at(1, 8, 0), TimeOut: at(1, 18, 0), OvertimeHour: ptr(2.0)}

	_, err := DefaultPolicy().Normalize(in)
	requireRule(t, err, RuleOvertimeNotEligible)

	rec, err := Policy{ShiftHours: 8}.Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, 10.0, rec.TotalHoursWorked)

	rec, err = Policy{}.Normalize(Input{EmployeeID: 1, TimeIn: at(1, 8, 0), TimeOut: at(1, 20, 0), OvertimeHour: ptr(2.0)})
	require.NoError(t, err)
	assert.Equal(t, 12.0, rec.TotalHoursWorked)
}
