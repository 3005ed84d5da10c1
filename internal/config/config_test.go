package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expectedDSN string
		expectedS3  bool
		migrate     bool
	}{
		{
			name:        "DATABASE_URL prioritaire",
			env:         map[string]string{"DATABASE_URL": "postgres://u:p@db:5432/bookhub", "AWS_BUCKET_NAME": "pics"},
			expectedDSN: "postgres://u:p@db:5432/bookhub",
			expectedS3:  true,
		},
		{
			name:        "DSN construit depuis DB_*",
			env:         map[string]string{"DATABASE_URL": "", "DB_HOST": "pg", "DB_NAME": "books", "MIGRATE_ON_START": "true"},
			expectedDSN: "host=pg port=5432 user=bookhub password=bookhub dbname=books sslmode=disable TimeZone=UTC",
			migrate:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "AWS_BUCKET_NAME", "MIGRATE_ON_START"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := LoadConfig()

			assert.Equal(t, tt.expectedDSN, cfg.DBUrl)
			assert.Equal(t, tt.expectedS3, cfg.StorageEnabled())
			assert.Equal(t, tt.migrate, cfg.MigrateOnStart)
		})
	}
}
