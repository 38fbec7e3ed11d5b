package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	pricingdomain "github.com/introaqua/waterworks/internal/pricing/domain"
)

func (s *Server) ListPricing(c *gin.Context) {
	tiers, err := s.pricingSvc.PublicList(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tiers})
}

func (s *Server) ListPricingAdmin(c *gin.Context) {
	tiers, err := s.pricingSvc.ListAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tiers})
}

type createPricingTierRequest struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Badge       string   `json:"badge"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Unit        string   `json:"unit"`
	Includes    []string `json:"includes"`
	IsActive    *bool    `json:"is_active"`
}

func (s *Server) CreatePricingTier(c *gin.Context) {
	var req createPricingTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tier, err := s.pricingSvc.Create(c.Request.Context(), pricingdomain.CreateTierRequest{
		Code:        strings.TrimSpace(req.Code),
		Name:        strings.TrimSpace(req.Name),
		Badge:       strings.TrimSpace(req.Badge),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Unit:        strings.TrimSpace(req.Unit),
		Includes:    req.Includes,
		IsActive:    req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": tier})
}

type updatePricingTierRequest struct {
	Name        *string  `json:"name"`
	Badge       *string  `json:"badge"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Unit        *string  `json:"unit"`
	Includes    []string `json:"includes"`
	IsActive    *bool    `json:"is_active"`
}

func (s *Server) UpdatePricingTier(c *gin.Context) {
	var req updatePricingTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tier, err := s.pricingSvc.Update(c.Request.Context(), pricingdomain.UpdateTierRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		Name:        req.Name,
		Badge:       req.Badge,
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
		Includes:    req.Includes,
		IsActive:    req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tier})
}
