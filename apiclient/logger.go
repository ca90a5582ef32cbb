package apiclient

import "github.com/rs/zerolog"

// restyLogger routes resty's internal messages into zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}
