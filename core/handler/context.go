package handler

import (
	"context"
	"net/http"
)

// Context defines the contract for request contexts in the framework.
// The router package ships a default implementation.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetValue(key, val any)
}
