package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smsagro/books_backend/utils"
)

const (
	HeaderOrganizationId = "X-Organization-Id"
	HeaderUserName       = "X-User-Name"
	HeaderCorrelationId  = "x-correlation-id"
)

// CorrelationMiddleware attaches the caller's correlation id, or a new one, to the request context.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(HeaderCorrelationId)
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Header(HeaderCorrelationId, cid)
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	}
}

// OrganizationMiddleware requires a valid X-Organization-Id header and scopes
// the request context (and so every tenant-guarded query) to it.
func OrganizationMiddleware() gin.HandlerFunc {
	return organizationMiddleware(true)
}

// OptionalOrganizationMiddleware scopes the request when an organization id is sent.
// Operations that need one fail later with utils.ErrorOrganizationRequired.
func OptionalOrganizationMiddleware() gin.HandlerFunc {
	return organizationMiddleware(false)
}

func organizationMiddleware(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderOrganizationId)
		if raw == "" {
			raw = c.Query("organization_id")
		}
		if raw == "" && !required {
			c.Next()
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "organization id is required"})
			return
		}
		ctx := utils.SetOrganizationIdInContext(c.Request.Context(), id.String())
		if name := c.GetHeader(HeaderUserName); name != "" {
			ctx = utils.SetUserNameInContext(ctx, name)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
