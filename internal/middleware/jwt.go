package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"cemetery_api/internal/apperrors"
	"cemetery_api/internal/policy"
	"cemetery_api/internal/store"
)

const principalKey = "principal"

// TokenSigner issues and checks token keys. A key is an HS256 JWT naming
// the account; whether it is still valid is decided by the token table.
type TokenSigner struct {
	secret []byte
}

func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret)}
}

func (s *TokenSigner) Issue(accountID uint) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  strconv.FormatUint(uint64(accountID), 10),
		ID:       uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenSigner) Verify(key string) error {
	token, err := jwt.Parse(key, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}

// Authenticate resolves the Authorization header into a policy.Principal.
// Requests without the header continue anonymously; a header that does not
// resolve to an active account is rejected.
func Authenticate(signer *TokenSigner, tokens store.TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(principalKey, policy.Principal{})
			c.Next()
			return
		}

		key, ok := tokenFromHeader(header)
		if !ok {
			AbortStatus(c, http.StatusUnauthorized, "Invalid token header.")
			return
		}
		if err := signer.Verify(key); err != nil {
			AbortStatus(c, http.StatusUnauthorized, "Invalid token.")
			return
		}

		tok, err := tokens.Lookup(c.Request.Context(), key)
		if errors.Is(err, apperrors.ErrNotFound) {
			AbortStatus(c, http.StatusUnauthorized, "Invalid token.")
			return
		}
		if err != nil {
			Abort(c, err)
			return
		}
		if !tok.Account.IsActive {
			AbortStatus(c, http.StatusUnauthorized, "User inactive or deleted.")
			return
		}

		c.Set(principalKey, policy.Principal{
			AccountID: tok.Account.ID,
			Username:  tok.Account.Username,
			IsStaff:   tok.Account.IsStaff,
		})
		c.Next()
	}
}

// tokenFromHeader accepts "Bearer <key>" and "Token <key>".
func tokenFromHeader(h string) (string, bool) {
	scheme, key, found := strings.Cut(strings.TrimSpace(h), " ")
	if !found {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.Contains(key, " ") {
		return "", false
	}
	switch strings.ToLower(scheme) {
	case "bearer", "token":
		return key, true
	}
	return "", false
}

// CurrentPrincipal returns the caller set by Authenticate, or the anonymous
// principal.
func CurrentPrincipal(c *gin.Context) policy.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(policy.Principal); ok {
			return p
		}
	}
	return policy.Principal{}
}
