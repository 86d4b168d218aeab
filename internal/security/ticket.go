package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Websocket handshakes can't always rely on cookies, so realtime clients
// first fetch a short-lived signed ticket over the authenticated HTTP
// session and present it as a query parameter when connecting.

// TicketTTL is how long a realtime ticket stays valid. Tickets are minted
// immediately before connecting, so this only needs to cover the handshake.
const TicketTTL = 60 * time.Second

var ErrInvalidTicket = errors.New("invalid realtime ticket")

type ticketClaims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// MintTicket issues a signed connection ticket for the given user
func MintTicket(secret string, userID int64) (string, error) {
	now := time.Now()
	claims := ticketClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TicketTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyTicket validates a connection ticket and returns the user ID it
// was minted for.
func VerifyTicket(secret, ticket string) (int64, error) {
	claims := &ticketClaims{}
	token, err := jwt.ParseWithClaims(ticket, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidTicket
	}
	if claims.UserID == 0 {
		return 0, ErrInvalidTicket
	}
	return claims.UserID, nil
}
