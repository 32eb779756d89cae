package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hrmportal/internal/perm"
)

// SnapshotClaims is the advisory identity snapshot issued to the SPA at
// login. It lets the page paint the user's name and menu immediately
// after a reload, before the identity probe completes. It is never
// consulted for authorization: the route guard always revalidates
// against the upstream.
type SnapshotClaims struct {
	UserID      string   `json:"uid"`
	Name        string   `json:"name"`
	Permissions []string `json:"perms"`
	jwt.RegisteredClaims
}

// SignSnapshot issues the snapshot token for a session. Permissions are
// embedded in normalized form so the SPA never re-implements
// normalization.
func SignSnapshot(secret string, sess Session, ttl time.Duration) (string, error) {
	if !sess.Authenticated() {
		return "", errors.New("cannot snapshot an unauthenticated session")
	}
	claims := SnapshotClaims{
		UserID:      sess.Identity.ID,
		Name:        sess.Identity.Name,
		Permissions: perm.Normalize(sess.Identity.Permissions).Names(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseSnapshot(secret, tokenString string) (*SnapshotClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SnapshotClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SnapshotClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid snapshot token")
	}
	return claims, nil
}
