package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads .env.local and .env before Load runs, so the env
// overrides in applyEnvOverrides can pick the values up. godotenv never
// replaces variables the process already has, which keeps the precedence
// at OS environment, then .env.local, then .env. The returned names are
// logged at startup.
func LoadDotEnv() []string {
	var found []string
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		found = append(found, name)
	}
	if len(found) == 0 {
		return nil
	}
	_ = godotenv.Load(found...)
	return found
}
