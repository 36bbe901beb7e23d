package mcp

import (
	"fmt"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

// Error is a JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

func ErrParse() *Error {
	return NewError(mcpgo.PARSE_ERROR, "Parse error")
}

func ErrInvalidRequest(detail string) *Error {
	msg := "Invalid Request"
	if detail != "" {
		msg += ": " + detail
	}
	return NewError(mcpgo.INVALID_REQUEST, msg)
}

func ErrMethodNotFound(method string) *Error {
	return NewError(mcpgo.METHOD_NOT_FOUND, "Method not found: "+method)
}

func ErrInvalidParams(detail string) *Error {
	return NewError(mcpgo.INVALID_PARAMS, "Invalid params: "+detail)
}

// ErrSessionRequired is returned for non-initialize calls without a live session.
func ErrSessionRequired() *Error {
	return NewError(mcpgo.INVALID_PARAMS, "session required")
}

func ErrInternal() *Error {
	return NewError(mcpgo.INTERNAL_ERROR, "Internal error")
}
