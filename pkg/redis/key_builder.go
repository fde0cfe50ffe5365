package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// Team key builders
func (kb *KeyBuilder) KeyTeamsAll() string {
	return kb.BuildKey(KeyTeamsAll)
}

func (kb *KeyBuilder) KeyTeamByID(teamID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyTeamByID, teamID))
}

func (kb *KeyBuilder) KeyTeamMembers(teamID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyTeamMembers, teamID))
}

// User key builders
func (kb *KeyBuilder) KeyUserByID(userID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyUserByID, userID))
}

// Redemption key builders
func (kb *KeyBuilder) KeyRedeemables() string {
	return kb.BuildKey(KeyRedeemables)
}

func (kb *KeyBuilder) KeyBasket(userID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyBasket, userID))
}

// KeyCustom builds an arbitrary prefixed key from a format string.
func (kb *KeyBuilder) KeyCustom(format string, args ...interface{}) string {
	return kb.BuildKey(fmt.Sprintf(format, args...))
}
