package services

import (
	"dallasdresses_server/config"
	"dallasdresses_server/structs"
	"dallasdresses_server/structs/tables"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendWelcomeEmailDisabled(t *testing.T) {
	logger := config.NewLogger(false)
	user := &tables.User{ID: 3, Email: "jane@example.com"}

	// sparse configs must not crash the detached welcome goroutine
	for _, cfg := range []*structs.Config{
		{},
		{Email: &structs.EmailConfig{}},
		{Server: &structs.ServerConfig{AppName: "Dallas Dresses"}, Email: &structs.EmailConfig{From: "shop@example.com"}},
	} {
		es := NewEmailService(logger, cfg)
		assert.False(t, es.Enabled())
		assert.NotPanics(t, func() {
			assert.NoError(t, es.SendWelcomeEmail(user))
		})
	}
}
