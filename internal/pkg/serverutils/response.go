package serverutils

// BaseResponse is the uniform envelope for every API reply.
type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// SuccessResponse wraps data in the standard success envelope.
func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// ErrorResponse builds the standard failure envelope.
func ErrorResponse(message string) BaseResponse[any] {
	return BaseResponse[any]{
		Success: false,
		Message: message,
	}
}
