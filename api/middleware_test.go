package api

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWSTicketRoundTrip(t *testing.T) {
	secret := "test-secret"
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(WSTicketTTL)),
	}
	ticket, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	personID, err := VerifyWSTicket(ticket, secret)
	require.NoError(t, err)
	assert.Equal(t, "alice", personID)
}

func TestWSTicketWrongSecret(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(WSTicketTTL)),
	}
	ticket, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret-a"))
	require.NoError(t, err)

	_, err = VerifyWSTicket(ticket, "secret-b")
	assert.Error(t, err)
}

func TestWSTicketExpired(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	ticket, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = VerifyWSTicket(ticket, "secret")
	assert.Error(t, err)
}

func TestWSTicketMissingSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(WSTicketTTL)),
	}
	ticket, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = VerifyWSTicket(ticket, "secret")
	assert.Error(t, err)
}

func TestWSTicketGarbage(t *testing.T) {
	_, err := VerifyWSTicket("not-a-ticket", "secret")
	assert.Error(t, err)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/api/v1/meetings/{id}", normalizePath("/api/v1/meetings/5fc51f58c72ff10004dca382"))
	assert.Equal(t, "/api/v1/invites/{id}/accept", normalizePath("/api/v1/invites/5fc51f58c72ff10004dca382/accept"))
	assert.Equal(t, "/api/v1/people", normalizePath("/api/v1/people"))
}
