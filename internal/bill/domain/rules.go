package domain

import (
	"fmt"
	"math"
	"time"
)

// Default rate schedule applied when a bill is created without one.
// Values are VND; consumption rate is per cubic meter.
func DefaultRates() Rates {
	return Rates{
		BaseRate:         0,
		ConsumptionRate:  5000,
		ServiceFee:       50000,
		EnvironmentalFee: 10000,
	}
}

const taxRate = 0.1

// ComputeAmounts derives consumption and every money figure from the
// readings and rate schedule. Running it again on unchanged input yields
// the same result.
func ComputeAmounts(b *Bill) error {
	if b.WaterUsage.CurrentReading < b.WaterUsage.PreviousReading {
		return ErrReadingsOutOfOrder
	}

	consumption := b.WaterUsage.CurrentReading - b.WaterUsage.PreviousReading
	b.WaterUsage.Consumption = consumption

	b.Amounts.BaseAmount = b.Rates.BaseRate
	b.Amounts.ConsumptionAmount = consumption * b.Rates.ConsumptionRate
	b.Amounts.ServiceAmount = b.Rates.ServiceFee
	b.Amounts.EnvironmentalAmount = b.Rates.EnvironmentalFee
	b.Amounts.Subtotal = b.Amounts.BaseAmount +
		b.Amounts.ConsumptionAmount +
		b.Amounts.ServiceAmount +
		b.Amounts.EnvironmentalAmount
	b.Amounts.Tax = math.Round(b.Amounts.Subtotal * taxRate)
	b.Amounts.Total = b.Amounts.Subtotal + b.Amounts.Tax
	return nil
}

// GenerateNumber builds a candidate bill number. Uniqueness is enforced by
// the bills table; callers retry on a duplicate-key conflict.
func GenerateNumber(now time.Time, random int) string {
	return fmt.Sprintf("BILL%04d%02d%04d", now.Year(), int(now.Month()), random%10000)
}

// PrepareForCreate enriches a draft bill before its first persistence:
// number assignment, default status and rates, derived amounts.
func PrepareForCreate(b *Bill, now time.Time, random int) error {
	if b.BillNumber == "" {
		b.BillNumber = GenerateNumber(now, random)
	}
	if b.Status == "" {
		b.Status = StatusPending
	}
	if b.Rates == (Rates{}) {
		b.Rates = DefaultRates()
	}
	return ComputeAmounts(b)
}

// Changes is the explicit set of fields touched by an update. Amounts are
// recomputed only when the usage or the rate schedule changed.
type Changes struct {
	WaterUsage *WaterUsage
	Rates      *Rates
	DueDate    *time.Time
	MeterInfo  map[string]any
	Notes      *string
}

func (c Changes) touchesComputation() bool {
	return c.WaterUsage != nil || c.Rates != nil
}

// PrepareForUpdate applies the changed fields onto the bill and recomputes
// the derived amounts when the inputs they depend on changed.
func PrepareForUpdate(b *Bill, ch Changes) error {
	if ch.WaterUsage != nil {
		b.WaterUsage = WaterUsage{
			PreviousReading: ch.WaterUsage.PreviousReading,
			CurrentReading:  ch.WaterUsage.CurrentReading,
		}
	}
	if ch.Rates != nil {
		b.Rates = *ch.Rates
	}
	if ch.DueDate != nil {
		b.DueDate = *ch.DueDate
	}
	if ch.MeterInfo != nil {
		b.MeterInfo = ch.MeterInfo
	}
	if ch.Notes != nil {
		b.Notes = *ch.Notes
	}

	if ch.touchesComputation() {
		return ComputeAmounts(b)
	}
	return nil
}

// CanTransition is the bill status machine. Paid and cancelled are
// terminal; a paid bill is corrected with an adjusting bill, never by
// cancelling settled money.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusPaid || to == StatusOverdue || to == StatusCancelled
	case StatusOverdue:
		return to == StatusPaid || to == StatusCancelled
	default:
		return false
	}
}

// ApplyStatus transitions the bill, stamping payment info when it becomes
// paid. An already-stamped payment timestamp is preserved.
func ApplyStatus(b *Bill, to Status, payment *PaymentInfo, now time.Time) error {
	if !to.Valid() {
		return ErrInvalidStatus
	}
	if !CanTransition(b.Status, to) {
		return ErrStatusTransition
	}

	b.Status = to
	if payment != nil {
		paidAt := b.PaymentInfo.PaidAt
		b.PaymentInfo = *payment
		b.PaymentInfo.PaidAt = paidAt
	}
	if to == StatusPaid && b.PaymentInfo.PaidAt == nil {
		ts := now
		b.PaymentInfo.PaidAt = &ts
	}
	return nil
}
