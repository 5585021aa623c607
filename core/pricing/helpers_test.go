package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"jewel-pricing/internal/errors"
)

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(WithClock(func() time.Time { return fixedTime }))
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	w := decimal.RequireFromString(want)
	if !got.Equal(w) {
		t.Fatalf("%s = %s, want %s", name, got.String(), want)
	}
}

func assertErrorType(t *testing.T, err error, want errors.Type) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil error", want)
	}
	if !errors.IsType(err, want) {
		t.Fatalf("expected %s, got %v", want, err)
	}
}

func qty(v float64) *float64 {
	return &v
}
