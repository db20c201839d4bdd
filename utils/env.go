package utils

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ToString - Basic type conversion functions
func ToString(val any) (string, bool) {
	switch v := val.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprintf("%v", val), true
	}
}

type GetEnvFn func(v string, defaultVal ...any) string

var Getenv GetEnvFn

func getenv(v string, defaultVal ...any) string {
	val := os.Getenv(v)
	if val != "" {
		return val
	}
	if len(defaultVal) > 0 && defaultVal[0] != nil {
		val, _ := ToString(defaultVal[0])
		return val
	}
	return ""
}

func init() {
	Getenv = getenv
}

// GetenvInt reads an integer variable, falling back to def when it is
// unset or malformed.
func GetenvInt(name string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(Getenv(name)))
	if err != nil {
		return def
	}
	return n
}

// GetenvFloat reads a float variable, falling back to def.
func GetenvFloat(name string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(Getenv(name)), 64)
	if err != nil {
		return def
	}
	return f
}

// GetenvBool treats 1, true, yes and on as set.
func GetenvBool(name string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(Getenv(name))) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Seconds turns a fractional second count into a duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// LoadDotenv reads KEY=VALUE lines from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotenv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("%s:%d: expected KEY=VALUE", path, lineNo)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if n := len(value); n >= 2 && (value[0] == '"' && value[n-1] == '"' || value[0] == '\'' && value[n-1] == '\'') {
			value = value[1 : n-1]
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}
