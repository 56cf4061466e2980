package handlers

import (
	"bytes"
	"errors"
	"image"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	// Dimension probing for the upload formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/google/uuid"

	"github.com/bookshelf-labs/shelfscan/internal/storage"
)

// maxUploadBytes caps bookshelf photo uploads at 10MB.
const maxUploadBytes = 10 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// HandleUploadImage accepts a multipart bookshelf photo and stores it
// under a fresh file id.
func (h *Handler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("files")
	if err != nil {
		file, header, err = r.FormFile("file")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		h.writeError(w, "Unsupported file type "+ext, http.StatusBadRequest)
		return
	}

	fileData, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(fileData) >= maxUploadBytes {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}

	fileID := uuid.New().String()
	if _, err := h.store.SaveUpload(fileID, ext, fileData); err != nil {
		h.writeError(w, "Failed to store upload: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]any{
		"file_id":  fileID,
		"filename": header.Filename,
		"size":     len(fileData),
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(fileData)); err == nil {
		response["width"] = cfg.Width
		response["height"] = cfg.Height
	}

	h.writeJSON(w, response)
}

// HandleUploadDetail serves GET (file info) and DELETE for a stored
// upload.
func (h *Handler) HandleUploadDetail(w http.ResponseWriter, r *http.Request) {
	fileID := strings.TrimPrefix(r.URL.Path, "/api/upload/image/")
	if fileID == "" || strings.Contains(fileID, "/") {
		h.writeError(w, "Invalid file id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case "GET":
		data, err := h.store.ReadUpload(fileID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				h.writeError(w, "File not found", http.StatusNotFound)
			} else {
				h.writeError(w, "Failed to read upload: "+err.Error(), http.StatusInternalServerError)
			}
			return
		}

		response := map[string]any{
			"file_id": fileID,
			"size":    len(data),
		}
		if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			response["width"] = cfg.Width
			response["height"] = cfg.Height
			response["format"] = format
		}
		h.writeJSON(w, response)

	case "DELETE":
		if err := h.store.DeleteUpload(fileID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				h.writeError(w, "File not found", http.StatusNotFound)
			} else {
				h.writeError(w, "Failed to delete upload: "+err.Error(), http.StatusInternalServerError)
			}
			return
		}
		h.writeJSON(w, map[string]any{"deleted": fileID})

	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
