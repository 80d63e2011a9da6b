package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rosverk/rosreg/pkg/errors"
)

// intQuery parses an integer query parameter, returning fallback when
// the parameter is absent.
func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.ErrInvalidRequest.WithMessagef("query parameter %q must be an integer", name)
	}
	return value, nil
}

// pageParams reads the standard page/page_size pair. Out-of-range values
// are normalized by the application services.
func pageParams(c *gin.Context) (int, int, error) {
	page, err := intQuery(c, "page", 0)
	if err != nil {
		return 0, 0, err
	}
	pageSize, err := intQuery(c, "page_size", 0)
	if err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}
