// Package domain defines the core types of the todos service.
//
// Task is the only persisted entity. CreateTask and UpdateTask are the
// payloads accepted at the input boundary; both validate text length
// (1 to 100 characters) before anything reaches a repository.
//
// UpdateTask has partial update semantics: a nil field means "leave
// unchanged", and Apply performs the merge every backend uses.
//
// This package has no storage or transport dependencies.
package domain
