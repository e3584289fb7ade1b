package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// listQuery holds the common pagination and ordering query parameters
type listQuery struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// bindListQuery extracts pagination and ordering parameters from the query string
func bindListQuery(c *gin.Context) listQuery {
	q := listQuery{
		OrderBy:  c.Query("order_by"),
		OrderDir: c.Query("order_dir"),
		Search:   c.Query("search"),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		q.Page = page
	}
	if pageSize, err := strconv.Atoi(c.Query("page_size")); err == nil {
		q.PageSize = pageSize
	}
	return q
}

// pathUUID parses a UUID path parameter
func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s format", name)
	}
	return id, nil
}

// queryUUIDPtr parses an optional UUID query parameter
func queryUUIDPtr(c *gin.Context, name string) (*uuid.UUID, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format", name)
	}
	return &id, nil
}

// queryTimePtr parses an optional RFC3339 or date-only query parameter
func queryTimePtr(c *gin.Context, name string) (*time.Time, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t, err = time.Parse("2006-01-02", value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s format, expected RFC3339 or YYYY-MM-DD", name)
		}
	}
	return &t, nil
}

// queryBoolPtr parses an optional boolean query parameter
func queryBoolPtr(c *gin.Context, name string) (*bool, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format, expected true or false", name)
	}
	return &b, nil
}

// queryBool parses a boolean query parameter, false when absent or malformed
func queryBool(c *gin.Context, name string) bool {
	b, _ := strconv.ParseBool(c.Query(name))
	return b
}
