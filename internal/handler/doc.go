// Package handler implements HTTP request handlers for the todos API.
//
// # Routes
//
//	GET    /                 greeting
//	POST   /todos            create (201)
//	GET    /todos            list
//	GET    /todos/{id}       find
//	PATCH  /todos/{id}       partial update
//	DELETE /todos/{id}       delete (204)
//	GET    /todos/export     JSON or YAML download (?format=)
//	POST   /todos/import     bulk create from JSON or YAML
//
// Health endpoints (Healthz, Readyz) and the SSE hub are mounted by
// cmd/server.
//
// # Errors
//
// Errors are returned as JSON {error, details}. Validation failures and
// malformed bodies or ids map to 400, repository NotFound to 404, and any
// other failure to 500 with the storage detail logged rather than sent.
//
// # Middleware
//
// RequestID, Recover, CORS and RequestLogger are composed with Chain. CORS
// and RequestLogger can be reconfigured while the server runs.
package handler
