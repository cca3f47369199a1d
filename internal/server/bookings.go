package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	bookingdomain "github.com/eventlane/eventlane/internal/booking/domain"
	"github.com/eventlane/eventlane/pkg/db/pagination"
)

func (s *Server) ListBookings(c *gin.Context) {
	customerID, ok := customerIDFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var query pagination.Pagination
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	bookings, pageInfo, err := s.bookingSvc.ListForCustomer(c.Request.Context(), bookingdomain.ListRequest{
		CustomerID: customerID,
		Pagination: query,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bookings, "page_info": pageInfo})
}

func (s *Server) GetBookingByID(c *gin.Context) {
	customerID, ok := customerIDFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid booking id"))
		return
	}

	booking, err := s.bookingSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if booking.CustomerID != customerID {
		AbortWithError(c, bookingdomain.ErrBookingNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": booking})
}

type updateBookingStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateBookingStatus(c *gin.Context) {
	customerID, ok := customerIDFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid booking id"))
		return
	}

	var req updateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	booking, err := s.bookingSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if booking.CustomerID != customerID {
		AbortWithError(c, bookingdomain.ErrBookingNotFound)
		return
	}

	updated, err := s.bookingSvc.UpdateStatus(c.Request.Context(), id, bookingdomain.Status(strings.TrimSpace(req.Status)))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": updated})
}
