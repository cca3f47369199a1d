package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	customerdomain "github.com/eventlane/eventlane/internal/customer/domain"
	listingdomain "github.com/eventlane/eventlane/internal/listing/domain"
)

type addCartLineRequest struct {
	ListingID   string `json:"listing_id"`
	PricingKind string `json:"pricing_kind"`
	OptionID    string `json:"option_id"`
	EventDate   string `json:"event_date"`
	EventTime   string `json:"event_time"`
	Attendees   int    `json:"attendees"`
}

func (s *Server) AddCartLine(c *gin.Context) {
	customerID, ok := customerIDFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req addCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	listingID, err := snowflake.ParseString(strings.TrimSpace(req.ListingID))
	if err != nil {
		AbortWithError(c, newValidationError("listing_id", "invalid_listing_id", "invalid listing_id"))
		return
	}

	var optionID *snowflake.ID
	if trimmed := strings.TrimSpace(req.OptionID); trimmed != "" {
		parsed, err := snowflake.ParseString(trimmed)
		if err != nil {
			AbortWithError(c, newValidationError("option_id", "invalid_option_id", "invalid option_id"))
			return
		}
		optionID = &parsed
	}

	eventDate := strings.TrimSpace(req.EventDate)
	if eventDate == "" {
		AbortWithError(c, newValidationError("event_date", "required", "event_date is required"))
		return
	}

	line, err := s.customerSvc.AddLine(c.Request.Context(), customerdomain.AddLineRequest{
		CustomerID:  customerID,
		ListingID:   listingID,
		PricingKind: listingdomain.PricingKind(strings.TrimSpace(req.PricingKind)),
		OptionID:    optionID,
		EventDate:   eventDate,
		EventTime:   strings.TrimSpace(req.EventTime),
		Attendees:   req.Attendees,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": line})
}

func (s *Server) ListCartLines(c *gin.Context) {
	customerID, ok := customerIDFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	lines, err := s.customerSvc.ListLines(c.Request.Context(), customerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var subtotal int64
	for _, line := range lines {
		subtotal += line.PriceAmount
	}
	c.JSON(http.StatusOK, gin.H{"data": lines, "subtotal": subtotal})
}

func (s *Server) RemoveCartLine(c *gin.Context) {
	customerID, ok := customerIDFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	lineID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid cart line id"))
		return
	}

	if err := s.customerSvc.RemoveLine(c.Request.Context(), customerID, lineID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
