package types

// SuccessEnvelope wraps every 2xx body as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// MessageResponse is the data payload of mutations that return no resource,
// such as clearing a cart or logging out.
type MessageResponse struct {
	Message string `json:"message"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every non-2xx body as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
