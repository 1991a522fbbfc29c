// Package repository implements the Mongo-backed persistence layer.
// Sentinel errors let handlers pick the right status code without
// inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when an identifier lookup misses. Handlers
// translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registration is attempted with an
// email_id that already has a record. Handlers translate this into an
// HTTP 400 response.
var ErrEmailExists = errors.New("email already exists")
