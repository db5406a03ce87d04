package config

import "os"

// Resolve returns the first non-empty value of: the explicitly configured
// parameter, the named environment variable, the fallback. An empty envKey
// skips the environment lookup.
func Resolve(explicit, envKey, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if envKey != "" {
		if v := os.Getenv(envKey); v != "" {
			return v
		}
	}
	return fallback
}
