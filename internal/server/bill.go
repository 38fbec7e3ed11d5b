package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	authdomain "github.com/introaqua/waterworks/internal/auth/domain"
	billdomain "github.com/introaqua/waterworks/internal/bill/domain"
	"github.com/introaqua/waterworks/pkg/db/pagination"
)

type createBillRequest struct {
	CustomerCode string            `json:"customer_code"`
	PeriodFrom   time.Time         `json:"period_from"`
	PeriodTo     time.Time         `json:"period_to"`
	WaterUsage   struct {
		PreviousReading float64 `json:"previous_reading"`
		CurrentReading  float64 `json:"current_reading"`
	} `json:"water_usage"`
	Rates     *billdomain.Rates `json:"rates"`
	DueDate   time.Time         `json:"due_date"`
	MeterInfo map[string]any    `json:"meter_info"`
	Notes     string            `json:"notes"`
}

func (s *Server) CreateBill(c *gin.Context) {
	user := currentUser(c)

	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	code := strings.TrimSpace(req.CustomerCode)
	customer, err := s.authsvc.CustomerLookup(c.Request.Context(), code, "")
	if err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			AbortWithError(c, billdomain.ErrInvalidCustomer)
			return
		}
		AbortWithError(c, err)
		return
	}

	bill, err := s.billSvc.Create(c.Request.Context(), billdomain.CreateBillRequest{
		CustomerCode: customer.CustomerCodeValue(),
		CustomerInfo: &billdomain.CustomerInfo{
			FullName: customer.FullName,
			Phone:    customer.Phone,
			Email:    customer.Email,
			Address:  customer.Address,
		},
		PeriodFrom: req.PeriodFrom,
		PeriodTo:   req.PeriodTo,
		WaterUsage: billdomain.WaterUsage{
			PreviousReading: req.WaterUsage.PreviousReading,
			CurrentReading:  req.WaterUsage.CurrentReading,
		},
		Rates:     req.Rates,
		DueDate:   req.DueDate,
		MeterInfo: req.MeterInfo,
		Notes:     strings.TrimSpace(req.Notes),
		CreatedBy: user.ID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": bill})
}

func (s *Server) ListBills(c *gin.Context) {
	user := currentUser(c)

	var query struct {
		pagination.Pagination
		Status string `form:"status"`
		Year   int    `form:"year"`
		Search string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := billdomain.ListBillsRequest{
		Page:   query.Pagination,
		Status: strings.TrimSpace(query.Status),
		Year:   query.Year,
		Search: strings.TrimSpace(query.Search),
	}
	// Customers only ever see their own bills.
	if !isStaff(user) {
		req.CustomerCode = user.CustomerCodeValue()
		req.Search = ""
	}

	resp, err := s.billSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCustomerBills(c *gin.Context) {
	user := currentUser(c)
	code := strings.TrimSpace(c.Param("customerCode"))

	if !isStaff(user) && user.CustomerCodeValue() != code {
		AbortWithError(c, ErrForbidden)
		return
	}

	var query struct {
		pagination.Pagination
		Status string `form:"status"`
		Year   int    `form:"year"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billSvc.List(c.Request.Context(), billdomain.ListBillsRequest{
		Page:         query.Pagination,
		CustomerCode: code,
		Status:       strings.TrimSpace(query.Status),
		Year:         query.Year,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBill(c *gin.Context) {
	user := currentUser(c)

	bill, err := s.billSvc.GetByID(c.Request.Context(), billdomain.GetBillRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if !isStaff(user) && bill.CustomerCode != user.CustomerCodeValue() {
		AbortWithError(c, ErrForbidden)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bill})
}

type updateBillRequest struct {
	WaterUsage *struct {
		PreviousReading float64 `json:"previous_reading"`
		CurrentReading  float64 `json:"current_reading"`
	} `json:"water_usage"`
	Rates     *billdomain.Rates `json:"rates"`
	DueDate   *time.Time        `json:"due_date"`
	MeterInfo map[string]any    `json:"meter_info"`
	Notes     *string           `json:"notes"`
}

func (s *Server) UpdateBill(c *gin.Context) {
	var req updateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	changes := billdomain.Changes{
		Rates:     req.Rates,
		DueDate:   req.DueDate,
		MeterInfo: req.MeterInfo,
		Notes:     req.Notes,
	}
	if req.WaterUsage != nil {
		changes.WaterUsage = &billdomain.WaterUsage{
			PreviousReading: req.WaterUsage.PreviousReading,
			CurrentReading:  req.WaterUsage.CurrentReading,
		}
	}

	bill, err := s.billSvc.Update(c.Request.Context(), billdomain.UpdateBillRequest{
		ID:      strings.TrimSpace(c.Param("id")),
		Changes: changes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bill})
}

type updateBillStatusRequest struct {
	Status      string `json:"status"`
	PaymentInfo *struct {
		Method        string `json:"method"`
		TransactionID string `json:"transaction_id"`
	} `json:"payment_info"`
}

func (s *Server) UpdateBillStatus(c *gin.Context) {
	var req updateBillStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := billdomain.UpdateBillStatusRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Status: billdomain.Status(strings.TrimSpace(req.Status)),
	}
	if req.PaymentInfo != nil {
		update.PaymentInfo = &billdomain.PaymentInfo{
			Method:        strings.TrimSpace(req.PaymentInfo.Method),
			TransactionID: strings.TrimSpace(req.PaymentInfo.TransactionID),
		}
	}

	bill, err := s.billSvc.UpdateStatus(c.Request.Context(), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bill})
}

func (s *Server) BillStats(c *gin.Context) {
	stats, err := s.billSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// LookupBill is the unauthenticated kiosk flow: a phone number or
// customer code resolves to the customer and their latest bill.
func (s *Server) LookupBill(c *gin.Context) {
	identifier := strings.TrimSpace(c.Query("identifier"))
	if identifier == "" {
		AbortWithError(c, newValidationError("identifier", "invalid_identifier", "identifier is required"))
		return
	}

	customer, err := s.lookupCustomer(c, identifier)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	latest, err := s.billSvc.LatestByCustomer(c.Request.Context(), customer.CustomerCodeValue())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payload := gin.H{
		"customer": gin.H{
			"id":            customer.ID,
			"full_name":     customer.FullName,
			"phone":         customer.Phone,
			"customer_code": customer.CustomerCodeValue(),
		},
		"bill": nil,
	}
	if latest != nil {
		payload["bill"] = gin.H{
			"id":          latest.ID,
			"bill_number": latest.BillNumber,
			"status":      latest.Status,
			"total":       latest.Amounts.Total,
			"due_date":    latest.DueDate,
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": payload})
}

// lookupCustomer tries the identifier as a phone number first when it
// looks like one, then as a customer code.
func (s *Server) lookupCustomer(c *gin.Context, identifier string) (*authdomain.User, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, identifier)

	if len(digits) >= 9 {
		customer, err := s.authsvc.CustomerLookup(c.Request.Context(), "", digits)
		if err == nil {
			return customer, nil
		}
		if !errors.Is(err, authdomain.ErrUserNotFound) {
			return nil, err
		}
	}

	return s.authsvc.CustomerLookup(c.Request.Context(), identifier, "")
}
