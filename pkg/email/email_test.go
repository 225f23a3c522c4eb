package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveNameFromEmail(t *testing.T) {
	cases := []struct {
		email string
		name  string
	}{
		{"alice.smith@example.com", "Alice"},
		{"bob_jones@example.com", "Bob"},
		{"carol-anne-white@example.com", "Carol"},
		{"dave@example.com", "Dave"},
		{"no-at-sign", "No"},
		{"@example.com", "User"},
		{"", "User"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.name, DeriveNameFromEmail(tc.email), "email %q", tc.email)
	}
}
