package transport

import "encoding/json"

// SuccessEnvelope is the wrapper for every successful response.
type SuccessEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorEnvelope is the wrapper for every failed response.
type ErrorEnvelope struct {
	StatusCode    int         `json:"statusCode"`
	StatusMessage string      `json:"statusMessage"`
	Data          interface{} `json:"data,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}) SuccessEnvelope {
	return SuccessEnvelope{
		Success: true,
		Data:    data,
	}
}

// NewError returns an error envelope with optional detail payload.
func NewError(statusCode int, message string, data interface{}) ErrorEnvelope {
	return ErrorEnvelope{
		StatusCode:    statusCode,
		StatusMessage: message,
		Data:          data,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e ErrorEnvelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
