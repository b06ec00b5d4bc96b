package logging

import "go.uber.org/zap"

// New creates a new zap sugared logger, independent of the global one.
// Background workers use it so their output stays attributable even when
// the globals have not been replaced yet.
func New() *zap.SugaredLogger {
	logger, _ := zap.NewProduction()
	return logger.Sugar()
}
