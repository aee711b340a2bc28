package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func setStringFromEnv(key string, setter func(string)) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		setter(v)
	}
}

func setIntFromEnv(key string, setter func(int)) {
	if v := getenv(key, ""); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			setter(n)
		}
	}
}

func setDurationFromEnv(key string, setter func(Duration)) {
	if v := getenv(key, ""); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			setter(Duration(d))
		}
	}
}

func setToggleFromEnv(key string, setter func(bool)) {
	v := strings.ToLower(strings.TrimSpace(getenv(key, "")))
	if v == "" {
		return
	}
	switch v {
	case "1", "true", "yes", "on":
		setter(true)
	case "0", "false", "no", "off":
		setter(false)
	}
}
