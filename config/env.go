package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v2/log"
)

// ApplyEnvOverrides lays environment variables over the values loaded from YAML.
// Only variables that are actually set replace the YAML value.
func ApplyEnvOverrides(conf *Config) error {
	app := &conf.Application
	targets := []any{&app.Datasource, &app.Security, &app.Redis, &app.Kafka}
	for _, target := range targets {
		if err := env.ParseWithOptions(target, env.Options{}); err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
	}
	return nil
}

// WarnMissingKeyEnv reports signing key variables that are not set, in which case the
// locations from the YAML file are used.
func WarnMissingKeyEnv() {
	for _, name := range []string{"APP_JWT_ACCESS_PRIVATE_KEY_PATH", "APP_JWT_REFRESH_PRIVATE_KEY_PATH"} {
		if _, ok := os.LookupEnv(name); !ok {
			log.Warnf("%s is not set, falling back to the configured key location", name)
		}
	}
}
