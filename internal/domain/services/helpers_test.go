package services

import (
	"javelin-lab/internal/config"
	"javelin-lab/pkg/logger"
)

func testBands() config.BandConfig {
	return config.BandConfig{Suspicious: 25, Danger: 50, Critical: 75}
}

func testConfidence() config.ConfidenceConfig {
	return config.ConfidenceConfig{Baseline: 60, ScaleFactor: 0.35, JitterMax: 5, Ceiling: 95}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "console"})
}
