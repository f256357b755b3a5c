package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(STATUS_PENDING))
	assert.True(t, IsValidStatus(STATUS_APPROVED))
	assert.True(t, IsValidStatus(STATUS_REJECTED))
	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("draft"))
}

func TestIsAssignableCategory(t *testing.T) {
	assert.True(t, IsAssignableCategory("filsafat-sains"))
	assert.True(t, IsAssignableCategory("pendidikan"))
	assert.False(t, IsAssignableCategory(CATEGORY_ALL), "the filter pseudo-category is never assignable")
	assert.False(t, IsAssignableCategory("unknown"))
	assert.False(t, IsAssignableCategory(""))
}
