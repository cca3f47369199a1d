package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	taxservice "github.com/eventlane/eventlane/internal/tax/service"
)

func (s *Server) CalculateTax(c *gin.Context) {
	postalCode := strings.TrimSpace(c.Query("postalCode"))
	if postalCode == "" {
		AbortWithError(c, newValidationError("postalCode", "required", "postalCode is required"))
		return
	}

	subtotal, err := strconv.ParseInt(strings.TrimSpace(c.Query("subtotal")), 10, 64)
	if err != nil || subtotal < 0 {
		AbortWithError(c, newValidationError("subtotal", "invalid_subtotal", "subtotal must be a non-negative integer of minor units"))
		return
	}

	jurisdiction, err := s.taxSvc.Resolve(c.Request.Context(), postalCode)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	taxAmount := taxservice.TaxAmount(subtotal, jurisdiction.Rate)
	c.JSON(http.StatusOK, gin.H{
		"jurisdiction": jurisdiction.Code,
		"rate":         jurisdiction.Rate,
		"taxAmount":    taxAmount,
		"total":        subtotal + taxAmount,
	})
}
