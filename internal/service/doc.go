// Package service implements business logic for the todos service.
//
// TodoService sits between the HTTP handlers and the repository. It is the
// input boundary: CreateTask and UpdateTask are validated here, so invalid
// input never reaches a backend.
//
// # Event System
//
// Successful writes publish events on an EventBus; cmd/server forwards them
// to the SSE hub so browser clients see changes live. Publishing never
// blocks a request: slow subscribers miss events.
//
// # Import and Export
//
// Tasks can be exported to, and imported from, JSON or YAML through the
// codec package. Imports are validated in full before anything is stored.
package service
