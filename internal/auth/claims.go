package auth

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the claims carried by an access token. The subject is the
// numeric user ID.
type AccessClaims struct {
	jwt.RegisteredClaims
}

// UserID parses the subject as a user ID.
func (c *AccessClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid subject %q", c.Subject)
	}
	return id, nil
}
