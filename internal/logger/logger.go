package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// NewLogger builds the process-wide sugared logger. Development config by
// default, production config when GIN_MODE=release.
func NewLogger() (*zap.SugaredLogger, error) {
	build := zap.NewDevelopment
	if os.Getenv("GIN_MODE") == "release" {
		build = zap.NewProduction
	}

	logger, err := build()
	if err != nil {
		return nil, fmt.Errorf("error creating logger: %w", err)
	}

	return logger.Sugar(), nil
}
