package entities

import "github.com/shopspring/decimal"

// WorkcenterParameter holds the per-BOM timing of one routing workcenter
type WorkcenterParameter struct {
	BOMID       BOMID
	Workcenter  string
	CycleNumber decimal.Decimal
	HourNumber  decimal.Decimal // hours per cycle
	TimeStart   decimal.Decimal // setup hours before production
	TimeStop    decimal.Decimal // cleanup hours after production
}

// Duration returns the hours the workcenter is busy to run the given number of cycles
func (w WorkcenterParameter) Duration(cycles decimal.Decimal) decimal.Decimal {
	perCycle := w.CycleNumber
	if perCycle.LessThan(decimal.NewFromInt(1)) {
		perCycle = decimal.NewFromInt(1)
	}
	return w.TimeStart.Add(w.TimeStop).Add(w.HourNumber.Mul(perCycle).Mul(cycles))
}
