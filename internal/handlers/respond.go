// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers for the JSON API. Every
// response uses the same envelope: {"success":true,"data":...} on
// success, {"success":false,"error":"..."} on failure, plus a
// "pagination" object on paginated lists.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"inkwell/internal/apierr"
)

// Pagination describes the page window of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination computes pages = ceil(total/limit).
func NewPagination(page, limit, total int) *Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

type successBody struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// respondData writes a success envelope with the given status and payload.
func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successBody{Success: true, Data: data})
}

// respondList writes a success envelope with pagination info.
func respondList(w http.ResponseWriter, data any, p *Pagination) {
	writeJSON(w, http.StatusOK, successBody{Success: true, Data: data, Pagination: p})
}

// respondError maps domain errors to status codes: validation → 400,
// not found → 404, forbidden → 403. Anything else is logged and becomes
// an opaque 500 so internals don't leak to clients.
func respondError(w http.ResponseWriter, err error) {
	var (
		validation *apierr.ValidationError
		notFound   *apierr.NotFoundError
		forbidden  *apierr.ForbiddenError
	)
	switch {
	case errors.As(err, &validation):
		respondErrorMsg(w, http.StatusBadRequest, validation.Msg)
	case errors.As(err, &notFound):
		respondErrorMsg(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &forbidden):
		respondErrorMsg(w, http.StatusForbidden, forbidden.Msg)
	default:
		slog.Error("internal error", "error", err)
		respondErrorMsg(w, http.StatusInternalServerError, "internal server error")
	}
}

// respondErrorMsg writes an error envelope with an explicit status.
func respondErrorMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Success: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "error", err)
	}
}
