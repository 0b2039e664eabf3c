package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Task status values. "IN PROGRESS" is spelled with a space; it is a display
// value as much as a stored one.
const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN PROGRESS"
	StatusDone       = "DONE"
)

// Task priority values.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
