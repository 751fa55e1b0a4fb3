// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/apierr"
	"inkwell/internal/storage"
)

// maxUploadSize caps image uploads at 10 MB.
const maxUploadSize = 10 << 20

// UploadHandlers serves image uploads for posts. Files go to S3 when
// object storage is configured, otherwise to a local directory served
// under /uploads/.
type UploadHandlers struct {
	storage   *storage.Client // nil in local mode
	uploadDir string
}

// NewUploadHandlers creates upload handlers. Pass a nil storage client
// to store files under uploadDir instead of S3.
func NewUploadHandlers(st *storage.Client, uploadDir string) *UploadHandlers {
	return &UploadHandlers{storage: st, uploadDir: uploadDir}
}

// Upload serves POST /api/posts/upload: accepts a multipart "image"
// field and returns the stored file's URL and generated filename.
func (h *UploadHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, apierr.Validation("an image file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(w, apierr.Validation("only image uploads are allowed"))
		return
	}

	// Random name keeps uploads collision-free and hides original names.
	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))

	var url string
	if h.storage != nil {
		url, err = h.storage.Upload(r.Context(), name, contentType, file)
	} else {
		url, err = h.saveLocal(name, file)
	}
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusCreated, map[string]string{
		"url":      url,
		"filename": name,
	})
}

// saveLocal writes the upload under the local uploads directory and
// returns its served path.
func (h *UploadHandlers) saveLocal(name string, src io.Reader) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return "/uploads/" + name, nil
}
