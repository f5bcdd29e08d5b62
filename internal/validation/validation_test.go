package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"a@b.com", true},
		{"first.last+tag@sub.example.io", true},
		{"", false},
		{"no-at-sign", false},
		{"missing@tld", false},
		{"@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		slug  string
		valid bool
	}{
		{"hello-world", true},
		{"a", true},
		{"post-2024-retrospective", true},
		{"", false},
		{"Hello-World", false},
		{"double--hyphen", false},
		{"-leading", false},
		{"trailing-", false},
		{"spaces not allowed", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			err := ValidateSlug(tt.slug)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("nexa"))
	assert.NoError(t, ValidateUsername("user_42"))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername("has spaces"))
}
