package router

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kickai/kickai/internal/kerrors"
)

// inviteClaims binds a pre-created, unregistered player record to the
// Telegram id that will complete its registration via contact share
// (SPEC_FULL.md §9 item 2, grounded on the teacher's internal/auth.Claims
// shape).
type inviteClaims struct {
	TeamID   string `json:"team_id"`
	PlayerID string `json:"player_id"`
	jwt.RegisteredClaims
}

// InviteSigner issues and verifies the `jwt` deep-link parameter carried by
// a team's `/start` invite links.
type InviteSigner struct {
	secret []byte
	expiry time.Duration
}

// NewInviteSigner builds an InviteSigner from the configured
// invite_secret_key. expiry <= 0 means invite tokens never expire.
func NewInviteSigner(secret string, expiry time.Duration) *InviteSigner {
	return &InviteSigner{secret: []byte(secret), expiry: expiry}
}

// Sign issues a token binding playerID (not yet registered) to teamID.
func (s *InviteSigner) Sign(teamID, playerID string) (string, error) {
	if len(s.secret) == 0 {
		return "", kerrors.Programming("invite signer has no secret configured", nil)
	}
	if strings.TrimSpace(teamID) == "" || strings.TrimSpace(playerID) == "" {
		return "", kerrors.Validation("team_id and player_id are required to sign an invite", nil)
	}

	claims := inviteClaims{
		TeamID:   teamID,
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if s.expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(s.expiry))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates token, returning the team and player id it
// was issued for. Callers use the result to confirm a contact share's
// Telegram id is completing the invite it was minted for, not forging one.
func (s *InviteSigner) Verify(token string) (teamID, playerID string, err error) {
	if len(s.secret) == 0 {
		return "", "", kerrors.Programming("invite signer has no secret configured", nil)
	}

	parsed, err := jwt.ParseWithClaims(token, &inviteClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", "", kerrors.Validation("invite token is invalid or expired", err)
	}

	claims, ok := parsed.Claims.(*inviteClaims)
	if !ok || !parsed.Valid || claims.TeamID == "" || claims.PlayerID == "" {
		return "", "", kerrors.Validation("invite token is invalid or expired", nil)
	}
	return claims.TeamID, claims.PlayerID, nil
}
