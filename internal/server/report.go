package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/introaqua/waterworks/internal/report/domain"
	"github.com/introaqua/waterworks/pkg/db/pagination"
)

type createReportRequest struct {
	ReportType  string                    `json:"report_type"`
	Priority    string                    `json:"priority"`
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Location    reportdomain.Location     `json:"location"`
	Attachments []reportdomain.Attachment `json:"attachments"`
	IsPublic    bool                      `json:"is_public"`
}

func (s *Server) CreateReport(c *gin.Context) {
	user := currentUser(c)

	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	priority := reportdomain.Priority(strings.TrimSpace(req.Priority))
	if priority == "" {
		priority = reportdomain.PriorityMedium
	}

	report, err := s.reportSvc.Create(c.Request.Context(), reportdomain.CreateReportRequest{
		CustomerCode: user.CustomerCodeValue(),
		CustomerInfo: reportdomain.CustomerInfo{
			FullName: user.FullName,
			Phone:    user.Phone,
			Email:    user.Email,
			Address:  addressLine(user.Address),
		},
		ReportType:  reportdomain.Type(strings.TrimSpace(req.ReportType)),
		Priority:    priority,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Location:    req.Location,
		Attachments: req.Attachments,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": report})
}

func (s *Server) ListReports(c *gin.Context) {
	user := currentUser(c)

	var query struct {
		pagination.Pagination
		Status   string `form:"status"`
		Type     string `form:"type"`
		Priority string `form:"priority"`
		Search   string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := reportdomain.ListReportsRequest{
		Page:     query.Pagination,
		Status:   strings.TrimSpace(query.Status),
		Type:     strings.TrimSpace(query.Type),
		Priority: strings.TrimSpace(query.Priority),
		Search:   strings.TrimSpace(query.Search),
	}
	if !isStaff(user) {
		req.CustomerCode = user.CustomerCodeValue()
	}

	resp, err := s.reportSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetReport(c *gin.Context) {
	user := currentUser(c)

	req := reportdomain.GetReportRequest{
		ID: strings.TrimSpace(c.Param("id")),
	}
	if !isStaff(user) {
		req.CustomerCode = user.CustomerCodeValue()
	}

	report, err := s.reportSvc.GetByID(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

type updateReportStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (s *Server) UpdateReportStatus(c *gin.Context) {
	user := currentUser(c)

	var req updateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	report, err := s.reportSvc.UpdateStatus(c.Request.Context(), reportdomain.UpdateReportStatusRequest{
		ID:        strings.TrimSpace(c.Param("id")),
		Status:    reportdomain.Status(strings.TrimSpace(req.Status)),
		Note:      strings.TrimSpace(req.Note),
		UpdatedBy: user.ID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

type assignReportRequest struct {
	AssignedTo string `json:"assigned_to"`
}

func (s *Server) AssignReport(c *gin.Context) {
	var req assignReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	report, err := s.reportSvc.Assign(c.Request.Context(), reportdomain.AssignReportRequest{
		ID:         strings.TrimSpace(c.Param("id")),
		AssignedTo: strings.TrimSpace(req.AssignedTo),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

type resolveReportRequest struct {
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
	Materials   []string `json:"materials"`
	Cost        float64  `json:"cost"`
}

func (s *Server) ResolveReport(c *gin.Context) {
	user := currentUser(c)

	var req resolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	report, err := s.reportSvc.Resolve(c.Request.Context(), reportdomain.ResolveReportRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		Description: strings.TrimSpace(req.Description),
		Actions:     req.Actions,
		Materials:   req.Materials,
		Cost:        req.Cost,
		ResolvedBy:  user.ID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) ReportStats(c *gin.Context) {
	stats, err := s.reportSvc.Stats(c.Request.Context(), time.Now())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// addressLine flattens the stored address document into a single
// display line for the snapshot frozen onto a report.
func addressLine(addr map[string]any) string {
	if len(addr) == 0 {
		return ""
	}
	parts := make([]string, 0, 4)
	for _, key := range []string{"street", "ward", "district", "city"} {
		if v, ok := addr[key].(string); ok && strings.TrimSpace(v) != "" {
			parts = append(parts, strings.TrimSpace(v))
		}
	}
	return strings.Join(parts, ", ")
}
