package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldSubmissionID identifies one résumé submission across log lines.
	FieldSubmissionID = "submission_id"
	// FieldFile is the candidate file name.
	FieldFile = "file"
	// FieldState is the submission state after a transition.
	FieldState = "state"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, falling back to a no-op logger
// when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// SubmissionFields describes a submission. Empty values are skipped.
func SubmissionFields(id, file string) []zap.Field {
	return StringFields(
		StringField{Key: FieldSubmissionID, Value: id},
		StringField{Key: FieldFile, Value: file},
	)
}

// WithSubmission attaches the submission fields to the logger.
func WithSubmission(logger *zap.Logger, id, file string) *zap.Logger {
	return WithFields(logger, SubmissionFields(id, file)...)
}
