package domain

import (
	"testing"
	"time"

	"github.com/introaqua/waterworks/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAmounts_DefaultRateScenario(t *testing.T) {
	bill := Bill{
		WaterUsage: WaterUsage{PreviousReading: 100, CurrentReading: 150},
		Rates:      DefaultRates(),
	}

	require.NoError(t, ComputeAmounts(&bill))

	assert.Equal(t, float64(50), bill.WaterUsage.Consumption)
	assert.Equal(t, float64(250000), bill.Amounts.ConsumptionAmount)
	assert.Equal(t, float64(310000), bill.Amounts.Subtotal)
	assert.Equal(t, float64(31000), bill.Amounts.Tax)
	assert.Equal(t, float64(341000), bill.Amounts.Total)
}

func TestComputeAmounts_RejectsReadingsOutOfOrder(t *testing.T) {
	bill := Bill{
		WaterUsage: WaterUsage{PreviousReading: 150, CurrentReading: 100},
		Rates:      DefaultRates(),
	}

	err := ComputeAmounts(&bill)
	assert.ErrorIs(t, err, ErrReadingsOutOfOrder)
	// No partial amounts on failure.
	assert.Equal(t, Amounts{}, bill.Amounts)
}

func TestComputeAmounts_Idempotent(t *testing.T) {
	bill := Bill{
		WaterUsage: WaterUsage{PreviousReading: 12.5, CurrentReading: 40},
		Rates:      Rates{BaseRate: 1000, ConsumptionRate: 7000, ServiceFee: 20000, EnvironmentalFee: 5000},
	}

	require.NoError(t, ComputeAmounts(&bill))
	first := bill.Amounts

	require.NoError(t, ComputeAmounts(&bill))
	assert.Equal(t, first, bill.Amounts)
}

func TestComputeAmounts_TotalIsTaxedSubtotal(t *testing.T) {
	bill := Bill{
		WaterUsage: WaterUsage{PreviousReading: 0, CurrentReading: 33},
		Rates:      DefaultRates(),
	}
	require.NoError(t, ComputeAmounts(&bill))

	expected := 33*bill.Rates.ConsumptionRate + bill.Rates.ServiceFee + bill.Rates.EnvironmentalFee
	assert.InDelta(t, expected*1.1, bill.Amounts.Total, 1)
}

func TestGenerateNumber_Format(t *testing.T) {
	now := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "BILL2026030042", GenerateNumber(now, 42))
	assert.Equal(t, "BILL2026039999", GenerateNumber(now, 9999))
}

func TestPrepareForCreate_Defaults(t *testing.T) {
	now := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	bill := Bill{
		WaterUsage: WaterUsage{PreviousReading: 10, CurrentReading: 20},
	}

	require.NoError(t, PrepareForCreate(&bill, now, 7))

	assert.Equal(t, "BILL2026010007", bill.BillNumber)
	assert.Equal(t, StatusPending, bill.Status)
	assert.Equal(t, DefaultRates(), bill.Rates)
	assert.Equal(t, float64(10), bill.WaterUsage.Consumption)
}

func TestPrepareForCreate_KeepsSuppliedNumber(t *testing.T) {
	bill := Bill{
		BillNumber: "BILL2025120001",
		WaterUsage: WaterUsage{PreviousReading: 1, CurrentReading: 2},
	}
	require.NoError(t, PrepareForCreate(&bill, time.Now().UTC(), 1234))
	assert.Equal(t, "BILL2025120001", bill.BillNumber)
}

func TestPrepareForUpdate_RecomputesOnlyWhenInputsChange(t *testing.T) {
	bill := Bill{
		WaterUsage: WaterUsage{PreviousReading: 100, CurrentReading: 150},
		Rates:      DefaultRates(),
	}
	require.NoError(t, ComputeAmounts(&bill))
	before := bill.Amounts

	notes := "meter replaced"
	require.NoError(t, PrepareForUpdate(&bill, Changes{Notes: &notes}))
	assert.Equal(t, before, bill.Amounts)

	usage := WaterUsage{PreviousReading: 150, CurrentReading: 180}
	require.NoError(t, PrepareForUpdate(&bill, Changes{WaterUsage: &usage}))
	assert.Equal(t, float64(30), bill.WaterUsage.Consumption)
	assert.NotEqual(t, before, bill.Amounts)
}

func TestPrepareForUpdate_RejectsBadReadings(t *testing.T) {
	bill := Bill{
		WaterUsage: WaterUsage{PreviousReading: 100, CurrentReading: 150},
		Rates:      DefaultRates(),
	}
	require.NoError(t, ComputeAmounts(&bill))

	usage := WaterUsage{PreviousReading: 200, CurrentReading: 100}
	assert.ErrorIs(t, PrepareForUpdate(&bill, Changes{WaterUsage: &usage}), ErrReadingsOutOfOrder)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusPaid))
	assert.True(t, CanTransition(StatusPending, StatusOverdue))
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusOverdue, StatusPaid))
	assert.True(t, CanTransition(StatusOverdue, StatusCancelled))

	assert.False(t, CanTransition(StatusPaid, StatusCancelled))
	assert.False(t, CanTransition(StatusPaid, StatusPending))
	assert.False(t, CanTransition(StatusCancelled, StatusPending))
	assert.False(t, CanTransition(StatusOverdue, StatusPending))
}

func TestApplyStatus_PaidStampsPaymentTimestamp(t *testing.T) {
	now := time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)
	bill := Bill{Status: StatusPending}

	require.NoError(t, ApplyStatus(&bill, StatusPaid, &PaymentInfo{Method: "bank_transfer"}, now))

	assert.Equal(t, StatusPaid, bill.Status)
	require.NotNil(t, bill.PaymentInfo.PaidAt)
	assert.Equal(t, now, *bill.PaymentInfo.PaidAt)

	// A second paid application keeps the original stamp.
	later := now.Add(time.Hour)
	require.NoError(t, ApplyStatus(&bill, StatusPaid, nil, later))
	assert.Equal(t, now, *bill.PaymentInfo.PaidAt)
}

func TestApplyStatus_RejectsIllegalTransition(t *testing.T) {
	bill := Bill{Status: StatusPaid}
	assert.ErrorIs(t, ApplyStatus(&bill, StatusCancelled, nil, time.Now().UTC()), ErrStatusTransition)
	assert.Equal(t, StatusPaid, bill.Status)
}

func TestIsOverdue(t *testing.T) {
	due := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	bill := Bill{Status: StatusPending, DueDate: due}

	clk := clock.NewFakeClock(due.Add(-time.Hour))
	assert.False(t, bill.IsOverdue(clk.Now()))

	clk.Advance(2 * time.Hour)
	assert.True(t, bill.IsOverdue(clk.Now()))

	bill.Status = StatusPaid
	assert.False(t, bill.IsOverdue(clk.Now()))
}
