package models

type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func SuccessResponse(data interface{}, message string) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

func ErrorResponse(err string) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   err,
	}
}

// ErrorResponseWithData attaches extra detail, e.g. the rejected caller.
func ErrorResponseWithData(err string, data interface{}) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   err,
		Data:    data,
	}
}
