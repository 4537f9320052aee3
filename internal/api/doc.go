// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between HTTP clients and
// the task store, translating HTTP concerns to store operations and store
// errors back to status codes with JSON bodies.
package api
