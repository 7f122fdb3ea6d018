package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Development(t *testing.T) {
	cfg := &Config{
		Port:      "8390",
		Env:       "development",
		JWTSecret: "your-secret-key-change-in-production",
		UploadDir: "./uploads",
	}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RequiredFields(t *testing.T) {
	assert.Error(t, (&Config{JWTSecret: "x", UploadDir: "u"}).Validate())
	assert.Error(t, (&Config{Port: "1", UploadDir: "u"}).Validate())
	assert.Error(t, (&Config{Port: "1", JWTSecret: "x"}).Validate())
}

func TestValidate_ProductionRejectsDefaults(t *testing.T) {
	cfg := &Config{
		Port:      "8390",
		Env:       "production",
		JWTSecret: "your-secret-key-change-in-production",
		UploadDir: "./uploads",
	}
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "short"
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
	cfg.DBPassword = "password"
	assert.Error(t, cfg.Validate())

	cfg.DBPassword = "s0meth1ng-strong"
	assert.NoError(t, cfg.Validate())
}
