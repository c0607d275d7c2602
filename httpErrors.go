package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smsagro/books_backend/graph"
)

// errorStatus maps the error codes GraphQL clients see onto HTTP status codes.
func errorStatus(err error) int {
	switch graph.ErrorCode(err) {
	case graph.CodeNotFound:
		return http.StatusNotFound
	case graph.CodeConflict:
		return http.StatusConflict
	case graph.CodeMissingAccount:
		return http.StatusUnprocessableEntity
	case graph.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

func respondError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	for k, v := range graph.ErrorExtensions(c.Request.Context(), err) {
		body[k] = v
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(errorStatus(err), body)
}
