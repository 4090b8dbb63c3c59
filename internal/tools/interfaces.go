package tools

import "context"

// ToolInterface defines the common interface for all CLI tools
type ToolInterface interface {
	// IsAvailable checks if the tool is available on the system
	IsAvailable() bool

	// GetVersion returns the tool version
	GetVersion(ctx context.Context) string

	// GetName returns the tool name
	GetName() string
}

// StatusSource produces the raw text of a pool status report
type StatusSource interface {
	ToolInterface

	// Status returns the captured stdout of the status command
	Status(ctx context.Context) (string, error)
}
