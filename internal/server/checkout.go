package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	checkoutdomain "github.com/eventlane/eventlane/internal/checkout/domain"
	taxdomain "github.com/eventlane/eventlane/internal/tax/domain"
)

type clientTaxLine struct {
	PostalCode    string  `json:"postalCode"`
	Jurisdiction  string  `json:"jurisdiction"`
	Rate          float64 `json:"rate"`
	TaxableAmount int64   `json:"taxableAmount"`
	TaxAmount     int64   `json:"taxAmount"`
}

type createCheckoutRequest struct {
	TaxBreakdown   []clientTaxLine `json:"taxBreakdown"`
	TotalTaxAmount *int64          `json:"totalTaxAmount"`
}

func (s *Server) CreateCheckoutSession(c *gin.Context) {
	customerID, ok := customerIDFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	// The body is optional; an empty body means server-side tax computation.
	var req createCheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	breakdown := make([]taxdomain.Line, 0, len(req.TaxBreakdown))
	for _, line := range req.TaxBreakdown {
		if strings.TrimSpace(line.PostalCode) == "" || line.Rate < 0 || line.TaxAmount < 0 {
			AbortWithError(c, newValidationError("taxBreakdown", "invalid_tax_breakdown", "invalid tax breakdown line"))
			return
		}
		breakdown = append(breakdown, taxdomain.Line{
			PostalCode:    line.PostalCode,
			Jurisdiction:  line.Jurisdiction,
			Rate:          line.Rate,
			TaxableAmount: line.TaxableAmount,
			TaxAmount:     line.TaxAmount,
		})
	}

	resp, err := s.checkoutSvc.CreateSession(c.Request.Context(), checkoutdomain.CreateSessionRequest{
		CustomerID:         customerID,
		ClientTaxBreakdown: breakdown,
		ClientTaxTotal:     req.TotalTaxAmount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"redirectUrl": resp.CheckoutURL,
		"sessionId":   resp.Session.ID.String(),
	})
}
