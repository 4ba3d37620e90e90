package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validListing() *Listing {
	return &Listing{
		Name:           "Cordless drill",
		TotalQuantity:  3,
		BasePriceCents: 1500,
		UnitType:       UnitTypeDay,
		DepositType:    DepositTypePercent,
		DepositValue:   20,
	}
}

func TestListingValidate(t *testing.T) {
	assert.NoError(t, validListing().Validate())

	tests := []struct {
		name   string
		mutate func(*Listing)
	}{
		{"missing name", func(l *Listing) { l.Name = "" }},
		{"zero quantity", func(l *Listing) { l.TotalQuantity = 0 }},
		{"negative price", func(l *Listing) { l.BasePriceCents = -1 }},
		{"bad unit type", func(l *Listing) { l.UnitType = "fortnight" }},
		{"bad deposit type", func(l *Listing) { l.DepositType = "iou" }},
		{"negative deposit", func(l *Listing) { l.DepositValue = -5 }},
		{"percent over 100", func(l *Listing) { l.DepositValue = 150 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validListing()
			tt.mutate(l)
			assert.True(t, errors.Is(l.Validate(), ErrInvalidArgument))
		})
	}
}
