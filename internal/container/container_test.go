package container

import (
	"testing"

	"github.com/abmah/green-jordan-backend/internal/config"
	"github.com/abmah/green-jordan-backend/internal/service"
	"github.com/abmah/green-jordan-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestContainerGetters(t *testing.T) {
	cfg := &config.Config{Environment: "test", Port: "8080"}
	log := logger.NewNop()

	c := &Container{
		Config:   cfg,
		Logger:   log,
		Services: &service.Services{},
	}

	assert.Equal(t, cfg, c.GetConfig())
	assert.Equal(t, log, c.GetLogger())
	assert.Nil(t, c.GetDB())
	assert.Nil(t, c.GetRedisClient())
	assert.False(t, c.HasRedis())

	assert.Nil(t, c.GetAuthService())
	assert.Nil(t, c.GetTeamService())
	assert.Nil(t, c.GetMembershipService())
	assert.Nil(t, c.GetRedeemService())
}
