package handler

import (
	"fmt"
	"strconv"

	"github.com/ctfpad/backend/src/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parseUintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, domain.NewError(domain.ErrorCodeParameterInvalid,
			fmt.Errorf("invalid %s %q: %w", name, raw, err),
			domain.WithMsg(fmt.Sprintf("invalid %s", name)))
	}
	return uint(value), nil
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewError(domain.ErrorCodeParameterInvalid,
			fmt.Errorf("invalid %s %q: %w", name, raw, err),
			domain.WithMsg(fmt.Sprintf("invalid %s", name)))
	}
	return id, nil
}
