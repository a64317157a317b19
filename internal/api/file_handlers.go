package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"magazyn-plikow/internal/database"
	"magazyn-plikow/internal/models"

	"github.com/go-chi/chi/v5"
)

type UploadRequest struct {
	Name     string `json:"name" example:"kitten.png"`
	Kind     string `json:"type" example:"image"`
	ParentID int64  `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data" example:"SGVsbG8gd29ybGQ="`
}

// @Summary      Create a file or folder
// @Description  Creates a metadata entry; file/image kinds also persist the base64 payload under a random path. Image uploads enqueue a derivative job.
// @Tags         files
// @Accept       json
// @Produce      json
// @Param        uploadRequest  body      UploadRequest  true  "Entry to create"
// @Success      201            {object}  models.FileEntry
// @Failure      400            {object}  errorResponse
// @Failure      401            {object}  errorResponse
// @Router       /files [post]
func (s *Server) UploadHandler(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Missing name")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Missing name")
		return
	}
	if req.Kind == "" {
		respondError(w, http.StatusBadRequest, "Missing type")
		return
	}
	if !models.ValidKind(req.Kind) {
		respondError(w, http.StatusBadRequest, "Invalid type")
		return
	}

	params := database.CreateFileParams{
		OwnerID:  userID,
		Name:     req.Name,
		Kind:     req.Kind,
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
	}

	if req.Kind != models.KindFolder {
		if req.Data == "" {
			respondError(w, http.StatusBadRequest, "Missing data")
			return
		}
		data, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid data")
			return
		}
		if len(data) == 0 {
			respondError(w, http.StatusBadRequest, "Missing data")
			return
		}

		localPath, err := s.storage.SaveNew(data)
		if err != nil {
			log.Printf("ERROR: Failed to persist blob: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		params.LocalPath = &localPath
	}

	entry, err := s.store.CreateFile(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrParentNotFound):
			respondError(w, http.StatusBadRequest, "Parent not found")
		case errors.Is(err, database.ErrParentNotFolder):
			respondError(w, http.StatusBadRequest, "Parent is not a folder")
		default:
			log.Printf("ERROR: Failed to create file entry: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusCreated, entry)

	// Zlecenie miniatur dopiero po utrwaleniu metadanych; porażka kolejki
	// nie cofa już zwróconego sukcesu.
	if entry.Kind == models.KindImage {
		if err := s.dispatcher.DispatchFileJob(r.Context(), entry.OwnerID, entry.ID); err != nil {
			log.Printf("ERROR: Failed to enqueue derivative job for file %d: %v", entry.ID, err)
		}
	}
}

// @Summary      Get file metadata
// @Description  Returns one entry owned by the caller.
// @Tags         files
// @Produce      json
// @Param        fileId  path      int  true  "Entry ID"
// @Success      200     {object}  models.FileEntry
// @Failure      401     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /files/{fileId} [get]
func (s *Server) GetFileHandler(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	fileID, err := strconv.ParseInt(chi.URLParam(r, "fileId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	entry, err := s.store.GetFileByID(r.Context(), fileID, userID)
	if err != nil {
		log.Printf("ERROR: Failed to fetch file %d: %v", fileID, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if entry == nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

// @Summary      List files
// @Description  Lists the caller's entries newest-first, 20 per zero-based page, optionally under one parent.
// @Tags         files
// @Produce      json
// @Param        parentId  query     int  false  "Parent folder ID (0 = root)"
// @Param        page      query     int  false  "Zero-based page index"
// @Success      200       {array}   models.FileEntry
// @Failure      401       {object}  errorResponse
// @Router       /files [get]
func (s *Server) ListFilesHandler(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	// Niesparsowalny numer strony to strona 0
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		page = 0
	}

	var parentID *int64
	if raw := r.URL.Query().Get("parentId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			// Zniekształcony rodzic nie wskazuje żadnego folderu
			respondJSON(w, http.StatusOK, []models.FileEntry{})
			return
		}
		parentID = &id
	}

	entries, err := s.store.ListFiles(r.Context(), userID, parentID, page)
	if err != nil {
		log.Printf("ERROR: Failed to list files: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

// @Summary      Publish a file
// @Tags         files
// @Produce      json
// @Param        fileId  path      int  true  "Entry ID"
// @Success      200     {object}  models.FileEntry
// @Failure      401     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /files/{fileId}/publish [put]
func (s *Server) PublishHandler(w http.ResponseWriter, r *http.Request) {
	s.setVisibility(w, r, true)
}

// @Summary      Unpublish a file
// @Tags         files
// @Produce      json
// @Param        fileId  path      int  true  "Entry ID"
// @Success      200     {object}  models.FileEntry
// @Failure      401     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /files/{fileId}/unpublish [put]
func (s *Server) UnpublishHandler(w http.ResponseWriter, r *http.Request) {
	s.setVisibility(w, r, false)
}

func (s *Server) setVisibility(w http.ResponseWriter, r *http.Request, public bool) {
	userID := GetUserIDFromContext(r.Context())

	fileID, err := strconv.ParseInt(chi.URLParam(r, "fileId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	entry, err := s.store.SetFileVisibility(r.Context(), fileID, userID, public)
	if err != nil {
		log.Printf("ERROR: Failed to update visibility of file %d: %v", fileID, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if entry == nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

// @Summary      Get file content
// @Description  Streams the stored bytes of a public entry, or of the caller's own entry. The size query selects a pre-generated derivative.
// @Tags         files
// @Produce      octet-stream
// @Param        fileId  path      int     true   "Entry ID"
// @Param        size    query     string  false  "Derivative variant (e.g. 100, 250, 500)"
// @Success      200     {string}  binary
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /files/{fileId}/data [get]
func (s *Server) FileDataHandler(w http.ResponseWriter, r *http.Request) {
	fileID, err := strconv.ParseInt(chi.URLParam(r, "fileId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	entry, err := s.store.GetFileAnyOwner(r.Context(), fileID)
	if err != nil {
		log.Printf("ERROR: Failed to fetch file %d: %v", fileID, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if entry == nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	if !entry.IsPublic {
		// Prywatny wpis widzi tylko właściciel; dla innych nie istnieje
		requesterID, ok := s.optionalRequester(w, r)
		if !ok {
			return
		}
		if requesterID != entry.OwnerID {
			respondError(w, http.StatusNotFound, "Not found")
			return
		}
	}

	if entry.Kind == models.KindFolder {
		respondError(w, http.StatusBadRequest, "A folder doesn't have content")
		return
	}
	if entry.LocalPath == nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	blob, err := s.storage.Open(*entry.LocalPath, r.URL.Query().Get("size"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}
	defer blob.Close()

	contentType := mime.TypeByExtension(filepath.Ext(entry.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, blob); err != nil {
		log.Printf("ERROR: Failed to stream file %d: %v", fileID, err)
	}
}

// optionalRequester resolves the X-Token header when present. It reports
// false after writing a response (cache failure); an absent or invalid
// token is requester id 0.
func (s *Server) optionalRequester(w http.ResponseWriter, r *http.Request) (int64, bool) {
	token := r.Header.Get("X-Token")
	if token == "" {
		return 0, true
	}

	userID, ok, err := s.sessions.Resolve(r.Context(), token)
	if err != nil {
		log.Printf("ERROR: Session cache unavailable: %v", err)
		respondError(w, http.StatusServiceUnavailable, "Service unavailable")
		return 0, false
	}
	if !ok {
		return 0, true
	}
	return userID, true
}
