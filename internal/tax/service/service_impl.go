package service

import (
	"context"
	"math"
	"sort"

	"github.com/eventlane/eventlane/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Jurisdictions are keyed by the first three postal digits. Rates are
// percentages. Zero-rate entries are real jurisdictions without sales tax;
// prefixes absent from the table are unknown, not tax-free.
var jurisdictions = map[string]domain.Jurisdiction{
	"100": {Code: "US-NY-NYC", Name: "New York City, NY", Rate: 8.875},
	"191": {Code: "US-PA-PHL", Name: "Philadelphia, PA", Rate: 8.0},
	"197": {Code: "US-DE", Name: "Delaware", Rate: 0},
	"306": {Code: "US-GA", Name: "Georgia", Rate: 7.0},
	"331": {Code: "US-FL-MIA", Name: "Miami-Dade, FL", Rate: 7.0},
	"462": {Code: "US-IN", Name: "Indiana", Rate: 7.0},
	"606": {Code: "US-IL-CHI", Name: "Chicago, IL", Rate: 10.25},
	"752": {Code: "US-TX-DAL", Name: "Dallas, TX", Rate: 8.25},
	"802": {Code: "US-CO-DEN", Name: "Denver, CO", Rate: 8.81},
	"902": {Code: "US-CA-LAX", Name: "Los Angeles County, CA", Rate: 8.5},
	"941": {Code: "US-CA-SF", Name: "San Francisco, CA", Rate: 8.625},
	"972": {Code: "US-OR", Name: "Oregon", Rate: 0},
	"980": {Code: "US-WA-SEA", Name: "Seattle, WA", Rate: 10.35},
	"995": {Code: "US-AK", Name: "Alaska", Rate: 0},
}

type Params struct {
	fx.In

	Log *zap.Logger
}

type Service struct {
	log *zap.Logger
}

func New(p Params) domain.Service {
	return &Service{log: p.Log.Named("tax.service")}
}

func (s *Service) Resolve(_ context.Context, postalCode string) (*domain.Jurisdiction, error) {
	prefix, err := postalPrefix(postalCode)
	if err != nil {
		return nil, err
	}
	j, ok := jurisdictions[prefix]
	if !ok {
		return nil, domain.ErrUnknownPostalCode
	}
	return &j, nil
}

func (s *Service) ComputeBreakdown(ctx context.Context, groups []domain.Group) ([]domain.Line, int64, error) {
	merged := make(map[string]int64, len(groups))
	for _, g := range groups {
		merged[g.PostalCode] += g.Subtotal
	}

	codes := make([]string, 0, len(merged))
	for code := range merged {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	lines := make([]domain.Line, 0, len(codes))
	var total int64
	for _, code := range codes {
		j, err := s.Resolve(ctx, code)
		if err != nil {
			return nil, 0, err
		}
		subtotal := merged[code]
		tax := TaxAmount(subtotal, j.Rate)
		lines = append(lines, domain.Line{
			PostalCode:    code,
			Jurisdiction:  j.Code,
			Rate:          j.Rate,
			TaxableAmount: subtotal,
			TaxAmount:     tax,
		})
		total += tax
	}
	return lines, total, nil
}

// TaxAmount applies a percentage rate to a minor-unit subtotal, rounding
// half up. Rounding happens only here to keep stored values integer-safe.
func TaxAmount(subtotal int64, rate float64) int64 {
	if subtotal <= 0 || rate <= 0 {
		return 0
	}
	return int64(math.Floor(float64(subtotal)*rate/100 + 0.5))
}

// postalPrefix validates a 5-digit (or ZIP+4) US postal code and returns its
// first three digits.
func postalPrefix(code string) (string, error) {
	if len(code) != 5 && len(code) != 10 {
		return "", domain.ErrInvalidPostalCode
	}
	for i := 0; i < 5; i++ {
		if code[i] < '0' || code[i] > '9' {
			return "", domain.ErrInvalidPostalCode
		}
	}
	if len(code) == 10 {
		if code[5] != '-' {
			return "", domain.ErrInvalidPostalCode
		}
		for i := 6; i < 10; i++ {
			if code[i] < '0' || code[i] > '9' {
				return "", domain.ErrInvalidPostalCode
			}
		}
	}
	return code[:3], nil
}
