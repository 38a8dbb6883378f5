package config

import (
	"os"
	"path/filepath"
)

const (
	defaultAPIURL = "http://localhost:5000"
	tokenFileName = ".devconnect_token"
)

// APIURL returns the base URL for the DevConnect API.
// It can be overridden with the DEVCONNECT_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("DEVCONNECT_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// SaveToken stores the JWT token in the user's home directory for
// subsequent CLI commands.
func SaveToken(token string) error {
	return os.WriteFile(tokenPath(), []byte(token), 0600)
}

func LoadToken() (string, error) {
	data, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ClearToken removes the stored token. A missing file is not an error.
func ClearToken() error {
	err := os.Remove(tokenPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func tokenPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, tokenFileName)
}
