package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKeyBuilder(t *testing.T) {
	tests := []struct {
		environment string
		wantPrefix  string
	}{
		{"production", "prod"},
		{"development", "staging"},
		{"staging", "staging"},
		{"test", "staging"},
		{"", "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.wantPrefix, kb.GetPrefix())
		})
	}
}

func TestKeyBuilder_Keys(t *testing.T) {
	kb := NewKeyBuilder("test")

	assert.Equal(t, "staging:teams:all", kb.KeyTeamsAll())
	assert.Equal(t, "staging:teams:team:team-1", kb.KeyTeamByID("team-1"))
	assert.Equal(t, "staging:teams:team:team-1:members", kb.KeyTeamMembers("team-1"))
	assert.Equal(t, "staging:users:user:user-1", kb.KeyUserByID("user-1"))
	assert.Equal(t, "staging:redeem:catalog:all", kb.KeyRedeemables())
	assert.Equal(t, "staging:redeem:basket:user-1", kb.KeyBasket("user-1"))
}

func TestKeyBuilder_KeyCustom(t *testing.T) {
	kb := NewKeyBuilder("production")
	assert.Equal(t, "prod:ratelimit:user-1", kb.KeyCustom("ratelimit:%s", "user-1"))
}
