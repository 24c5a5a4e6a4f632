package env

import (
	"os"
	"strconv"
)

// String returns the value of the environment variable or the default.
func String(key string, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

// Int returns the integer value of the environment variable or the default.
// Unparseable values fall back to the default.
func Int(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Bool returns the boolean value of the environment variable or the default.
func Bool(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
