package auth

import "time"

// GenerateWithTTL exposes token generation with an arbitrary lifetime to tests.
func (m *TokenManager) GenerateWithTTL(userID, role string, ttl time.Duration) (string, error) {
	return m.generate(userID, role, ttl)
}
