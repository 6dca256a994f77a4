package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"blog-toolkit/logger"
)

// LoadEnv loads variables from .env when present. Variables already set in
// the environment win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.L().Info("No .env file found, using process environment")
	}
}

// GetEnv returns the value of key or fallback when unset or empty.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// GetEnvInt returns key parsed as an int, or fallback.
func GetEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(GetEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

// GetEnvList returns key split on commas, with blanks dropped.
func GetEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(GetEnv(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
