package server

import (
	"github.com/gin-gonic/gin"
	authdomain "github.com/introaqua/waterworks/internal/auth/domain"
)

const contextUserKey = "current_user"

// AuthRequired resolves the session cookie into a user and stores it on
// the request context. Requests without a valid session are rejected.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, _, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// StaffRequired allows admin and staff accounts through.
func (s *Server) StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !user.Role.CanHandleReports() {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// AdminRequired allows admin accounts only.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if user.Role != authdomain.RoleAdmin {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *authdomain.User {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*authdomain.User)
	if !ok {
		return nil
	}
	return user
}

func isStaff(u *authdomain.User) bool {
	return u != nil && u.Role.CanHandleReports()
}
