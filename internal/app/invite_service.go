package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

// DefaultInviteTTL bounds how long a private table invite stays valid.
const DefaultInviteTTL = 24 * time.Hour

const inviteIssuer = "cribbage"

var ErrInvalidInvite = errors.New("invalid invite")

// InviteService signs and checks private table invites.
type InviteService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// InviteClaims is what a verified invite grants.
type InviteClaims struct {
	TableID   string
	MatchID   string
	InviterID string
	TokenID   string
	ExpiresAt time.Time
}

func NewInviteService(secret string, ttl time.Duration) *InviteService {
	if ttl <= 0 {
		ttl = DefaultInviteTTL
	}
	return &InviteService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns an HS256 token admitting its holder to the private table.
func (s *InviteService) Issue(tableID, matchID, inviterID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("invite service is nil")
	}
	if len(s.secret) == 0 {
		return "", fmt.Errorf("invite secret is not configured")
	}
	if tableID == "" || matchID == "" {
		return "", fmt.Errorf("table and match ids are required")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss": inviteIssuer,
		"sub": inviterID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
		"jti": uuid.NewString(),
		"tid": tableID,
		"mid": matchID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the token signature, expiry and that it was issued for matchID.
func (s *InviteService) Verify(tokenString, matchID string) (InviteClaims, error) {
	if s == nil || len(s.secret) == 0 {
		return InviteClaims{}, fmt.Errorf("%w: invite service not configured", ErrInvalidInvite)
	}
	if tokenString == "" {
		return InviteClaims{}, fmt.Errorf("%w: missing token", ErrInvalidInvite)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return InviteClaims{}, fmt.Errorf("%w: %v", ErrInvalidInvite, err)
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return InviteClaims{}, fmt.Errorf("%w: bad claims", ErrInvalidInvite)
	}

	claims := InviteClaims{
		TableID:   stringClaim(mc, "tid"),
		MatchID:   stringClaim(mc, "mid"),
		InviterID: stringClaim(mc, "sub"),
		TokenID:   stringClaim(mc, "jti"),
	}
	if exp, ok := mc["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if stringClaim(mc, "iss") != inviteIssuer {
		return InviteClaims{}, fmt.Errorf("%w: wrong issuer", ErrInvalidInvite)
	}
	if claims.MatchID != matchID {
		return InviteClaims{}, fmt.Errorf("%w: issued for another table", ErrInvalidInvite)
	}
	return claims, nil
}

func stringClaim(claims jwt.MapClaims, name string) string {
	v, _ := claims[name].(string)
	return v
}
