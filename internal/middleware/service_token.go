package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
	"github.com/noah-isme/admissions-crm-api/pkg/response"
)

const (
	// ServiceTokenHeader carries the raw bot token.
	ServiceTokenHeader = "X-SERVICE-TOKEN"
	// ContextServiceKey holds the name of the authenticated service.
	ContextServiceKey = "currentService"
)

// ServiceToken authenticates machine callers. digests maps service names to the
// sha256 hex digest of their token; only the named service is accepted.
func ServiceToken(service string, digests map[string]string) gin.HandlerFunc {
	expected, _ := hex.DecodeString(strings.ToLower(digests[service]))
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(ServiceTokenHeader))
		if raw == "" {
			response.Error(c, appErrors.ErrServiceTokenRequired)
			c.Abort()
			return
		}
		sum := sha256.Sum256([]byte(raw))
		if len(expected) == 0 || !hmac.Equal(sum[:], expected) {
			response.Error(c, appErrors.ErrServiceTokenInvalid)
			c.Abort()
			return
		}
		c.Set(ContextServiceKey, service)
		c.Next()
	}
}

// HashServiceToken returns the digest stored in SERVICE_TOKENS for a raw token.
func HashServiceToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
