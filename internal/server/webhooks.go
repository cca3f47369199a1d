package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlePaymentWebhook hands the raw, unparsed body to the webhook service.
// The signature covers the exact bytes on the wire, so nothing may touch the
// payload before verification.
func (s *Server) HandlePaymentWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.webhookSvc.HandleWebhook(c.Request.Context(), payload, c.Request.Header); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
