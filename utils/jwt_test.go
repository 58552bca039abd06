package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("cust-1", "customer", time.Hour)
	require.NoError(t, err)

	subject, role, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", subject)
	assert.Equal(t, "customer", role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, _, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("cust-1", "customer", -time.Minute)
	require.NoError(t, err)

	_, _, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestGenerateBookingPIN(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		pin, err := GenerateBookingPIN()
		require.NoError(t, err)
		require.Len(t, pin, 5)
		for _, ch := range pin {
			assert.True(t, ch >= '0' && ch <= '9')
		}
		seen[pin] = true
	}
	// 50 draws from 100000 values collide rarely; all-same would be a bug.
	assert.Greater(t, len(seen), 1)
}
