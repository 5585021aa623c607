package pricing

import (
	"math"
	"testing"

	"jewel-pricing/internal/errors"
)

func TestApplyBusinessMultiplierFloor(t *testing.T) {
	settings := &AdminSettings{Pricing: &PricingSettings{
		AdministrativeFee: Float64(0.10),
		BusinessFee:       Float64(0.15),
		ConsumablesFee:    Float64(0.05),
	}}

	s, err := settings.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "raw", s.RawBusinessMultiplier(), "1.30")

	retail, err := ApplyBusinessMultiplier(100, settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "retail", retail, "200.00")
}

func TestBusinessMultiplierFloorProperty(t *testing.T) {
	fees := []float64{0, 0.05, 0.1, 0.2, 0.3}
	for _, admin := range fees {
		for _, business := range fees {
			for _, consumables := range fees {
				settings := &AdminSettings{Pricing: &PricingSettings{
					AdministrativeFee: Float64(admin),
					BusinessFee:       Float64(business),
					ConsumablesFee:    Float64(consumables),
				}}
				m, err := GetBusinessMultiplier(settings)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				assertDecimal(t, "multiplier", m, "2")
			}
		}
	}
}

func TestBusinessMultiplierAboveFloor(t *testing.T) {
	settings := &AdminSettings{Pricing: &PricingSettings{
		AdministrativeFee: Float64(0.4),
		BusinessFee:       Float64(0.5),
		ConsumablesFee:    Float64(0.35),
	}}
	m, err := GetBusinessMultiplier(settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "multiplier", m, "2.25")

	retail, err := ApplyBusinessMultiplier(40, settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "retail", retail, "90")
}

func TestBusinessMultiplierConfiguredFloor(t *testing.T) {
	m, err := GetBusinessMultiplier(&AdminSettings{Pricing: &PricingSettings{
		MinimumBusinessMultiplier: Float64(2.5),
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "multiplier", m, "2.5")
}

func TestApplyBusinessMultiplierValidation(t *testing.T) {
	retail, err := ApplyBusinessMultiplier(0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "zero base", retail, "0")

	_, err = ApplyBusinessMultiplier(-5, nil)
	assertErrorType(t, err, errors.TypeOutOfRange)

	_, err = ApplyBusinessMultiplier(math.Inf(1), nil)
	assertErrorType(t, err, errors.TypeInvalidType)
}
