package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scope values distinguish the two token kinds. Both are signed with the
// same secret, the scope claim and the endpoint accepting the token are
// the only things telling them apart.
const (
	ScopeAccess  = "access_token"
	ScopeRefresh = "refresh_token"
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
)

type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies access/refresh tokens with a single
// process-wide secret and algorithm. Read-only after construction.
type Issuer struct {
	secret     []byte
	method     jwt.SigningMethod
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewIssuer(secret []byte, algorithm string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	switch algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if len(secret) == 0 {
		return nil, errors.New("empty signing secret")
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Issuer{
		secret:     secret,
		method:     jwt.GetSigningMethod(algorithm),
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}, nil
}

func (i *Issuer) Access(subject string) (string, error) {
	return i.sign(subject, ScopeAccess, i.AccessTTL)
}

func (i *Issuer) Refresh(subject string) (string, error) {
	return i.sign(subject, ScopeRefresh, i.RefreshTTL)
}

func (i *Issuer) sign(subject, scope string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
}

// Parse validates signature and expiry and returns the claims. It does
// not check scope, callers assert the scope they expect.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != i.method.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if !tkn.Valid || claims.Subject == "" || claims.Scope == "" || claims.ExpiresAt == nil {
		return nil, ErrTokenMalformed
	}
	return &claims, nil
}
