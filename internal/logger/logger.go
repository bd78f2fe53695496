package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the process-wide zap logger. Dev gets the human-readable console
// encoder, everything else gets production JSON.
func New(env string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)

	if env == "dev" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}

	return log, nil
}
