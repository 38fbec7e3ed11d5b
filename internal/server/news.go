package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	newsdomain "github.com/introaqua/waterworks/internal/news/domain"
	"github.com/introaqua/waterworks/pkg/db/pagination"
)

type createNewsRequest struct {
	Title          string                  `json:"title"`
	Slug           string                  `json:"slug"`
	Summary        string                  `json:"summary"`
	Content        string                  `json:"content"`
	Category       string                  `json:"category"`
	Tags           []string                `json:"tags"`
	FeaturedImage  *newsdomain.Image       `json:"featured_image"`
	Images         []newsdomain.Image      `json:"images"`
	Attachments    []newsdomain.Attachment `json:"attachments"`
	Status         string                  `json:"status"`
	IsFeatured     bool                    `json:"is_featured"`
	IsPinned       bool                    `json:"is_pinned"`
	ExpiresAt      *time.Time              `json:"expires_at"`
	TargetAudience string                  `json:"target_audience"`
	Priority       string                  `json:"priority"`
}

func (s *Server) CreateNews(c *gin.Context) {
	user := currentUser(c)

	var req createNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	article, err := s.newsSvc.Create(c.Request.Context(), newsdomain.CreateArticleRequest{
		Title:          strings.TrimSpace(req.Title),
		Slug:           strings.TrimSpace(req.Slug),
		Summary:        strings.TrimSpace(req.Summary),
		Content:        req.Content,
		AuthorID:       user.ID,
		Category:       newsdomain.Category(strings.TrimSpace(req.Category)),
		Tags:           req.Tags,
		FeaturedImage:  req.FeaturedImage,
		Images:         req.Images,
		Attachments:    req.Attachments,
		Status:         newsdomain.Status(strings.TrimSpace(req.Status)),
		IsFeatured:     req.IsFeatured,
		IsPinned:       req.IsPinned,
		ExpiresAt:      req.ExpiresAt,
		TargetAudience: newsdomain.TargetAudience(strings.TrimSpace(req.TargetAudience)),
		Priority:       newsdomain.Priority(strings.TrimSpace(req.Priority)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": article})
}

func (s *Server) ListNews(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Category string `form:"category"`
		Featured bool   `form:"featured"`
		Search   string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.newsSvc.List(c.Request.Context(), newsdomain.ListArticlesRequest{
		Page:          query.Pagination,
		Category:      strings.TrimSpace(query.Category),
		Featured:      query.Featured,
		Search:        strings.TrimSpace(query.Search),
		PublishedOnly: true,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListNewsAdmin(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Category string `form:"category"`
		Status   string `form:"status"`
		Search   string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.newsSvc.List(c.Request.Context(), newsdomain.ListArticlesRequest{
		Page:     query.Pagination,
		Category: strings.TrimSpace(query.Category),
		Status:   strings.TrimSpace(query.Status),
		Search:   strings.TrimSpace(query.Search),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetNewsBySlug(c *gin.Context) {
	article, err := s.newsSvc.GetBySlug(c.Request.Context(), strings.TrimSpace(c.Param("slug")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": article})
}

type updateNewsRequest struct {
	Title          *string                 `json:"title"`
	Summary        *string                 `json:"summary"`
	Content        *string                 `json:"content"`
	Category       *string                 `json:"category"`
	Tags           []string                `json:"tags"`
	FeaturedImage  *newsdomain.Image       `json:"featured_image"`
	Images         []newsdomain.Image      `json:"images"`
	Attachments    []newsdomain.Attachment `json:"attachments"`
	Status         *string                 `json:"status"`
	IsFeatured     *bool                   `json:"is_featured"`
	IsPinned       *bool                   `json:"is_pinned"`
	ExpiresAt      *time.Time              `json:"expires_at"`
	TargetAudience *string                 `json:"target_audience"`
	Priority       *string                 `json:"priority"`
}

func (s *Server) UpdateNews(c *gin.Context) {
	var req updateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	changes := newsdomain.Changes{
		Title:         req.Title,
		Summary:       req.Summary,
		Content:       req.Content,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
		Images:        req.Images,
		Attachments:   req.Attachments,
		IsFeatured:    req.IsFeatured,
		IsPinned:      req.IsPinned,
		ExpiresAt:     req.ExpiresAt,
	}
	if req.Category != nil {
		category := newsdomain.Category(strings.TrimSpace(*req.Category))
		changes.Category = &category
	}
	if req.Status != nil {
		status := newsdomain.Status(strings.TrimSpace(*req.Status))
		changes.Status = &status
	}
	if req.TargetAudience != nil {
		audience := newsdomain.TargetAudience(strings.TrimSpace(*req.TargetAudience))
		changes.TargetAudience = &audience
	}
	if req.Priority != nil {
		priority := newsdomain.Priority(strings.TrimSpace(*req.Priority))
		changes.Priority = &priority
	}

	article, err := s.newsSvc.Update(c.Request.Context(), newsdomain.UpdateArticleRequest{
		ID:      strings.TrimSpace(c.Param("id")),
		Changes: changes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": article})
}

func (s *Server) DeleteNews(c *gin.Context) {
	if err := s.newsSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) LikeNews(c *gin.Context) {
	likes, err := s.newsSvc.Like(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"like_count": likes}})
}

func (s *Server) ShareNews(c *gin.Context) {
	shares, err := s.newsSvc.Share(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"share_count": shares}})
}
