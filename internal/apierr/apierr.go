// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apierr defines the typed errors the service layer surfaces to
// HTTP handlers. Handlers translate them into response status codes:
// validation → 400, not found → 404, forbidden → 403. Anything else is
// treated as an internal error.
package apierr

import "fmt"

// ValidationError reports missing or malformed input, including slug
// uniqueness violations.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation creates a ValidationError with a formatted message.
func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown id, slug, or category.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// NotFound creates a NotFoundError for the named resource, e.g. "Post".
func NotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// ForbiddenError reports a mutation attempted by a caller who is neither
// the owner nor an admin.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string { return e.Msg }

// Forbidden creates a ForbiddenError with a formatted message.
func Forbidden(format string, args ...any) *ForbiddenError {
	return &ForbiddenError{Msg: fmt.Sprintf(format, args...)}
}
