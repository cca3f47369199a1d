package service

import (
	"context"
	"errors"
	"testing"

	"github.com/eventlane/eventlane/internal/tax/domain"
	"go.uber.org/zap"
)

func newTestService() domain.Service {
	return New(Params{Log: zap.NewNop()})
}

func TestResolveKnownPostalCode(t *testing.T) {
	s := newTestService()

	j, err := s.Resolve(context.Background(), "90210")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if j.Code != "US-CA-LAX" {
		t.Fatalf("expected US-CA-LAX, got %s", j.Code)
	}
	if j.Rate != 8.5 {
		t.Fatalf("expected rate 8.5, got %v", j.Rate)
	}
}

func TestResolveZeroRateIsNotUnknown(t *testing.T) {
	s := newTestService()

	j, err := s.Resolve(context.Background(), "97201")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if j.Rate != 0 {
		t.Fatalf("expected zero rate, got %v", j.Rate)
	}
}

func TestResolveUnknownPostalCode(t *testing.T) {
	s := newTestService()

	_, err := s.Resolve(context.Background(), "00001")
	if !errors.Is(err, domain.ErrUnknownPostalCode) {
		t.Fatalf("expected ErrUnknownPostalCode, got %v", err)
	}
}

func TestResolveMalformedPostalCode(t *testing.T) {
	s := newTestService()

	for _, code := range []string{"", "9021", "902100", "9021A", "90210-12", "90210_1234"} {
		if _, err := s.Resolve(context.Background(), code); !errors.Is(err, domain.ErrInvalidPostalCode) {
			t.Fatalf("code %q: expected ErrInvalidPostalCode, got %v", code, err)
		}
	}
}

func TestResolveZipPlusFour(t *testing.T) {
	s := newTestService()

	j, err := s.Resolve(context.Background(), "90210-1234")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if j.Rate != 8.5 {
		t.Fatalf("expected rate 8.5, got %v", j.Rate)
	}
}

func TestTaxAmountRoundsHalfUp(t *testing.T) {
	cases := []struct {
		subtotal int64
		rate     float64
		want     int64
	}{
		{10000, 8.5, 850},
		{100, 8.5, 9},   // 8.5 rounds up
		{99, 8.5, 8},    // 8.415 rounds down
		{1, 8.5, 0},     // 0.085 rounds down
		{10000, 0, 0},   // zero-rate jurisdiction
		{0, 8.5, 0},     // empty subtotal
		{-500, 8.5, 0},  // never negative
		{10000, 7.0, 700},
	}
	for _, c := range cases {
		if got := TaxAmount(c.subtotal, c.rate); got != c.want {
			t.Fatalf("TaxAmount(%d, %v) = %d, want %d", c.subtotal, c.rate, got, c.want)
		}
	}
}

func TestComputeBreakdownGroupsByPostalCode(t *testing.T) {
	s := newTestService()

	lines, total, err := s.ComputeBreakdown(context.Background(), []domain.Group{
		{PostalCode: "97201", Subtotal: 5000},
		{PostalCode: "46250", Subtotal: 10000},
		{PostalCode: "46250", Subtotal: 4000},
	})
	if err != nil {
		t.Fatalf("ComputeBreakdown returned error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	// sorted by postal code
	if lines[0].PostalCode != "46250" || lines[1].PostalCode != "97201" {
		t.Fatalf("unexpected line order: %+v", lines)
	}
	if lines[0].TaxableAmount != 14000 {
		t.Fatalf("expected merged subtotal 14000, got %d", lines[0].TaxableAmount)
	}
	if lines[0].TaxAmount != 980 {
		t.Fatalf("expected 7%% of 14000 = 980, got %d", lines[0].TaxAmount)
	}
	if lines[1].TaxAmount != 0 {
		t.Fatalf("expected zero tax for Oregon, got %d", lines[1].TaxAmount)
	}
	if total != 980 {
		t.Fatalf("expected total 980, got %d", total)
	}
}

func TestComputeBreakdownUnknownPostalFailsClosed(t *testing.T) {
	s := newTestService()

	_, _, err := s.ComputeBreakdown(context.Background(), []domain.Group{
		{PostalCode: "90210", Subtotal: 5000},
		{PostalCode: "00001", Subtotal: 5000},
	})
	if !errors.Is(err, domain.ErrUnknownPostalCode) {
		t.Fatalf("expected ErrUnknownPostalCode, got %v", err)
	}
}
