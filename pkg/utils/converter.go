// This file contains small conversion and defaulting helpers shared across layers.
package utils

import (
	"time"

	"github.com/rosverk/rosreg/pkg/constants"
)

// ================================================================================
// Pointer Helpers
// ================================================================================

// StringPtr returns a pointer to the string value
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to the int value
func IntPtr(i int) *int {
	return &i
}

// BoolPtr returns a pointer to the bool value
func BoolPtr(b bool) *bool {
	return &b
}

// TimePtr returns a pointer to the time.Time value
func TimePtr(t time.Time) *time.Time {
	return &t
}

// StringValue returns the string value or the default if nil
func StringValue(s *string, defaultValue string) string {
	if s == nil {
		return defaultValue
	}
	return *s
}

// IntValue returns the int value or the default if nil
func IntValue(i *int, defaultValue int) int {
	if i == nil {
		return defaultValue
	}
	return *i
}

// TimeValue returns the time value or the default if nil
func TimeValue(t *time.Time, defaultValue time.Time) time.Time {
	if t == nil {
		return defaultValue
	}
	return *t
}

// ================================================================================
// Pagination
// ================================================================================

// NormalizePagination clamps page/pageSize to sane bounds and returns the
// gorm-style limit and offset.
func NormalizePagination(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return pageSize, (page - 1) * pageSize
}
