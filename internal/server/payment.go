package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/introaqua/waterworks/internal/payment/domain"
)

type createPaymentQRRequest struct {
	Items    []paymentdomain.Item   `json:"items"`
	Total    float64                `json:"total"`
	Shipping paymentdomain.Shipping `json:"shipping"`
}

func (s *Server) CreatePaymentQR(c *gin.Context) {
	user := currentUser(c)

	var req createPaymentQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.paymentSvc.CreateQR(c.Request.Context(), paymentdomain.CreateQRRequest{
		UserID:   user.ID,
		Items:    req.Items,
		Total:    req.Total,
		Shipping: req.Shipping,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

func (s *Server) CheckPaymentStatus(c *gin.Context) {
	user := currentUser(c)

	result, err := s.paymentSvc.CheckStatus(c.Request.Context(), user.ID, strings.TrimSpace(c.Param("orderId")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
