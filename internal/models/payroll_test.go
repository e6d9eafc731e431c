package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSumPayroll(t *testing.T) {
	records := []PayrollRecord{
		{GrossPay: 100, Deductions: 20, NetPay: 80},
		{GrossPay: 50, Deductions: 10, NetPay: 40},
	}

	totals := SumPayroll(records)
	assert.Equal(t, 150.0, totals.GrossPay)
	assert.Equal(t, 30.0, totals.Deductions)
	assert.Equal(t, 120.0, totals.NetPay)
}

func TestSumPayrollEmpty(t *testing.T) {
	totals := SumPayroll(nil)
	assert.Zero(t, totals.GrossPay)
	assert.Zero(t, totals.Deductions)
	assert.Zero(t, totals.NetPay)
}
