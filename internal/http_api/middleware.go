package http_api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/onehunt/onehuntbot/internal/models"
)

const contextUserID = "userID"

// respond writes the standard success envelope.
func respond(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// fail writes the standard failure envelope.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// failErr maps service errors to HTTP statuses.
func (s *HTTPServer) failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrAlreadyClaimed),
		errors.Is(err, models.ErrInsufficientBalance),
		errors.Is(err, models.ErrBelowMinimum),
		errors.Is(err, models.ErrMissingAddress),
		errors.Is(err, models.ErrNotPending),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrAlreadyReferred),
		errors.Is(err, models.ErrSelfReferral),
		errors.Is(err, models.ErrTaskAlreadyCompleted),
		errors.Is(err, models.ErrTaskUnavailable):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		s.logger.Errorw("Request failed", "path", c.FullPath(), "error", err)
		fail(c, http.StatusInternalServerError, err.Error())
	}
}

// bearerToken extracts the bearer token from the Authorization header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// authRequired verifies the bearer token and stores the caller's user ID.
func (s *HTTPServer) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			fail(c, http.StatusUnauthorized, "No token provided")
			c.Abort()
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			s.logger.Debugw("Token verification failed", "error", err)
			fail(c, http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		c.Set(contextUserID, claims.UserID)
		c.Next()
	}
}

// adminRequired checks the account behind the token, not the token itself,
// so revoking the flag takes effect immediately.
func (s *HTTPServer) adminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.hunt.GetUser(s.userID(c))
		if err != nil {
			fail(c, http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}
		if !user.IsAdmin {
			fail(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// userID returns the authenticated caller's user ID.
func (s *HTTPServer) userID(c *gin.Context) uint {
	return c.GetUint(contextUserID)
}
