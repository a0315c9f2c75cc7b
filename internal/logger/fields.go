package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldAlertID      = "alert_id"
	FieldAlertName    = "alert_name"
	FieldPropertyID   = "property_id"
	FieldPropertyName = "property_name"

	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"
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

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// AlertFields describes a saved alert. Empty values are omitted.
func AlertFields(id, name string) []zap.Field {
	return StringFields(
		StringField{Key: FieldAlertID, Value: id},
		StringField{Key: FieldAlertName, Value: name},
	)
}

// PropertyFields describes a listing. Empty values are omitted.
func PropertyFields(id, name string) []zap.Field {
	return StringFields(
		StringField{Key: FieldPropertyID, Value: id},
		StringField{Key: FieldPropertyName, Value: name},
	)
}

// AIFields returns fields that describe the AI provider and model.
func AIFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithAIFields attaches the AI provider fields to the provided logger.
func WithAIFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, AIFields(provider, model)...)
}
