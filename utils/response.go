package utils

import "github.com/gin-gonic/gin"

// JSONResponse is the uniform API envelope. Message carries a localized
// human string; Errors carries per-field messages for validation failures.
type JSONResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
}

// Success writes a 200 success envelope with data.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(200, JSONResponse{Success: true, Data: data})
}

// SuccessMessage writes a 200 success envelope with a message and data.
func SuccessMessage(ctx *gin.Context, message string, data interface{}) {
	ctx.JSON(200, JSONResponse{Success: true, Message: message, Data: data})
}

// Fail writes a failure envelope with the given status and message.
func Fail(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, JSONResponse{Success: false, Message: message})
}

// FailFields writes a failure envelope carrying per-field errors.
func FailFields(ctx *gin.Context, status int, message string, fields map[string]string) {
	ctx.JSON(status, JSONResponse{Success: false, Message: message, Errors: fields})
}
