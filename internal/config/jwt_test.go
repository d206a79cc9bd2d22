package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_DisabledWithoutSecret(t *testing.T) {
	cfg := Config{}
	jwtCfg, err := cfg.JWT()
	require.NoError(t, err)
	assert.Nil(t, jwtCfg)
}

func TestJWT_DefaultExpiration(t *testing.T) {
	cfg := Config{JWTSecret: "0123456789abcdef-secret"}
	jwtCfg, err := cfg.JWT()
	require.NoError(t, err)
	require.NotNil(t, jwtCfg)
	assert.Equal(t, DefaultJWTExpirationHours, jwtCfg.ExpirationHours)
	assert.Equal(t, 24*time.Hour, jwtCfg.Expiration())
}

func TestJWT_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "short secret",
			cfg:     Config{JWTSecret: "short"},
			wantErr: "at least 16 characters",
		},
		{
			name:    "negative expiration",
			cfg:     Config{JWTSecret: "0123456789abcdef", JWTHours: -1},
			wantErr: "at least 1 hour",
		},
		{
			name: "custom expiration",
			cfg:  Config{JWTSecret: "0123456789abcdef", JWTHours: 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtCfg, err := tt.cfg.JWT()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, jwtCfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.JWTHours, jwtCfg.ExpirationHours)
		})
	}
}
