package bootstrap

import (
	"testing"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func TestValidateConfig(t *testing.T) {
	logger := zap.NewNop()
	coreCfg := &config.CoreConfig{}

	cases := []struct {
		name    string
		cfg     AppConfig
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  AppConfig{MongoURI: "mongodb://localhost:27017", MongoDatabase: "sprinthub"},
		},
		{
			name: "valid srv",
			cfg:  AppConfig{MongoURI: "mongodb+srv://cluster.example.net", MongoDatabase: "sprinthub"},
		},
		{
			name:    "bad uri scheme",
			cfg:     AppConfig{MongoURI: "http://localhost:27017", MongoDatabase: "sprinthub"},
			wantErr: true,
		},
		{
			name:    "empty database",
			cfg:     AppConfig{MongoURI: "mongodb://localhost:27017"},
			wantErr: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConfig(coreCfg, tc.cfg, logger)
			if tc.wantErr && err == nil {
				t.Errorf("expected an error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
