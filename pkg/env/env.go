// Package env reads raw process environment values. Typed configuration goes
// through pkg/config; this exists for the handful of platform-injected
// variables, like the PORT override, that live outside the PARFUMELLE_ prefix.
package env

import "os"

// Get returns the value of the given environment variable or a fallback.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
