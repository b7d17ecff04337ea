package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// FallbackMessage is used when a failed response carries no usable message.
	FallbackMessage = "Analysis failed"
	// TransportMessage is shown when the service could not be reached.
	TransportMessage = "There was an error analyzing your resume. Please try again."
)

// ServiceError is a non-2xx response. Message is what the user sees.
type ServiceError struct {
	Status     int
	StatusText string
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Detail describes the error for logs.
func (e *ServiceError) Detail() string {
	return fmt.Sprintf("bad status: %s: %s", e.StatusText, e.Message)
}

// TransportError wraps a failure to reach the service or read its answer.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return TransportMessage
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// errorMessage extracts the human readable message of an error body. The
// "message" field wins over "detail"; FastAPI validation details are lists
// of objects carrying "msg".
func errorMessage(body []byte) string {
	var payload struct {
		Message any `json:"message"`
		Detail  any `json:"detail"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return FallbackMessage
	}

	if msg := messageText(payload.Message); msg != "" {
		return msg
	}
	if msg := messageText(payload.Detail); msg != "" {
		return msg
	}

	return FallbackMessage
}

func messageText(v any) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case []any:
		for _, item := range value {
			if msg := messageText(item); msg != "" {
				return msg
			}
		}
	case map[string]any:
		return messageText(value["msg"])
	}

	return ""
}
