package pricing

import (
	"errors"
	"testing"
	"time"

	"peerrent-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

func TestDurationUnits(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		unit  domain.UnitType
		want  int64
	}{
		{"exact two days", day(1), day(3), domain.UnitTypeDay, 2},
		{"partial day rounds up", day(1), day(2).Add(6 * time.Hour), domain.UnitTypeDay, 2},
		{"one hour", day(1), day(1).Add(time.Hour), domain.UnitTypeHour, 1},
		{"ninety minutes bills two hours", day(1), day(1).Add(90 * time.Minute), domain.UnitTypeHour, 2},
		{"eight days bills two weeks", day(1), day(9), domain.UnitTypeWeek, 2},
		{"exactly one week", day(1), day(8), domain.UnitTypeWeek, 1},
		{"month is thirty days", day(1), day(1).AddDate(0, 0, 30), domain.UnitTypeMonth, 1},
		{"thirty one days bills two months", day(1), day(1).AddDate(0, 0, 31), domain.UnitTypeMonth, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DurationUnits(tt.start, tt.end, tt.unit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDurationUnits_InvalidRange(t *testing.T) {
	_, err := DurationUnits(day(3), day(1), domain.UnitTypeDay)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = DurationUnits(day(1), day(1), domain.UnitTypeDay)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestCompute_PercentDeposit(t *testing.T) {
	listing := &domain.Listing{
		BasePriceCents: 5000,
		UnitType:       domain.UnitTypeDay,
		DepositType:    domain.DepositTypePercent,
		DepositValue:   20,
	}

	q, err := Compute(listing, 1, day(1), day(3), domain.PaymentOptionFull, DefaultCommissionPercent)
	require.NoError(t, err)
	assert.Equal(t, int64(2), q.DurationUnits)
	assert.Equal(t, int64(10000), q.SubtotalCents)
	assert.Equal(t, int64(2000), q.DepositCents)
	assert.Equal(t, int64(1000), q.CommissionCents)
	assert.Equal(t, int64(10000), q.TotalDueNowCents)
}

func TestCompute_DepositOption(t *testing.T) {
	listing := &domain.Listing{
		BasePriceCents: 5000,
		UnitType:       domain.UnitTypeDay,
		DepositType:    domain.DepositTypePercent,
		DepositValue:   20,
	}

	q, err := Compute(listing, 1, day(1), day(3), domain.PaymentOptionDeposit, DefaultCommissionPercent)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), q.TotalDueNowCents)
}

func TestCompute_FlatDepositScalesWithQty(t *testing.T) {
	listing := &domain.Listing{
		BasePriceCents: 1500,
		UnitType:       domain.UnitTypeDay,
		DepositType:    domain.DepositTypeFlat,
		DepositValue:   2500,
	}

	q, err := Compute(listing, 3, day(1), day(2), domain.PaymentOptionFull, DefaultCommissionPercent)
	require.NoError(t, err)
	assert.Equal(t, int64(4500), q.SubtotalCents)
	assert.Equal(t, int64(7500), q.DepositCents)
}

func TestCompute_RoundsHalfUp(t *testing.T) {
	// 15% of 1630 = 244.5, rounds to 245.
	listing := &domain.Listing{
		BasePriceCents: 1630,
		UnitType:       domain.UnitTypeDay,
		DepositType:    domain.DepositTypePercent,
		DepositValue:   15,
	}

	q, err := Compute(listing, 1, day(1), day(2), domain.PaymentOptionFull, DefaultCommissionPercent)
	require.NoError(t, err)
	assert.Equal(t, int64(245), q.DepositCents)
}

func TestCompute_Deterministic(t *testing.T) {
	listing := &domain.Listing{
		BasePriceCents: 777,
		UnitType:       domain.UnitTypeHour,
		DepositType:    domain.DepositTypePercent,
		DepositValue:   33,
	}

	first, err := Compute(listing, 2, day(1), day(1).Add(5*time.Hour), domain.PaymentOptionDeposit, 12)
	require.NoError(t, err)
	second, err := Compute(listing, 2, day(1), day(1).Add(5*time.Hour), domain.PaymentOptionDeposit, 12)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompute_InvalidInputs(t *testing.T) {
	listing := &domain.Listing{
		BasePriceCents: 1000,
		UnitType:       domain.UnitTypeDay,
		DepositType:    domain.DepositTypePercent,
		DepositValue:   10,
	}

	_, err := Compute(listing, 0, day(1), day(2), domain.PaymentOptionFull, 10)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	bad := &domain.Listing{BasePriceCents: 1000, UnitType: domain.UnitTypeDay, DepositType: "weird"}
	_, err = Compute(bad, 1, day(1), day(2), domain.PaymentOptionFull, 10)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}
