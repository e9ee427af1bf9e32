package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/filedraft/internal/service"
	"github.com/filedraft/internal/versioning"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func parseIntQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", key)
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return value, nil
}

// respondWorkflowError maps the workflow error taxonomy onto HTTP statuses:
// missing records to 404, precondition and workflow conflicts to 409,
// rejected publish validation to 422, everything else to 500.
func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFileNotFound),
		errors.Is(err, service.ErrFolderNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, versioning.ErrNotPublishable):
		respondError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, versioning.ErrStateConflict),
		errors.Is(err, service.ErrLiveImmutable),
		errors.Is(err, service.ErrWorkflowRequired),
		errors.Is(err, service.ErrNoDraft):
		respondError(c, http.StatusConflict, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}
