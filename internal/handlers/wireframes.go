// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"wireforge/internal/ai"
	"wireforge/internal/middleware"
	"wireforge/internal/models"
	"wireforge/internal/storage"
	"wireforge/internal/store"
)

// maxUploadBytes caps the multipart form size for image uploads.
const maxUploadBytes = 10 << 20 // 10 MiB

// Wireframes groups the generation workflow and wireframe CRUD handlers.
type Wireframes struct {
	wireframes *store.WireframeStore
	codes      *store.GeneratedCodeStore
	logs       *store.AILogStore
	media      *storage.Client // nil when object storage is not configured
	registry   *ai.Registry
}

// NewWireframes creates a new Wireframes handler group.
func NewWireframes(wireframes *store.WireframeStore, codes *store.GeneratedCodeStore, logs *store.AILogStore, media *storage.Client, registry *ai.Registry) *Wireframes {
	return &Wireframes{
		wireframes: wireframes,
		codes:      codes,
		logs:       logs,
		media:      media,
		registry:   registry,
	}
}

// GenerateFull runs the whole generation workflow for one request:
// validate, ingest the optional image, persist a draft wireframe, call the
// AI gateway, derive suggestions, persist results, and log the AI call.
//
// On AI failure the draft wireframe stays persisted without code and a
// failure audit row is written. There is no rollback of earlier steps.
func (h *Wireframes) GenerateFull(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	textPrompt := r.FormValue("textPrompt")
	language := models.Language(r.FormValue("language"))
	aiUsed := models.ProviderName(r.FormValue("aiUsed"))

	if msg := validateGeneration(textPrompt, language, aiUsed); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	// Ingest the image, if one was uploaded, before anything is persisted.
	imageURL := ""
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		imageURL, err = h.ingestImage(r, file, header)
		if err != nil {
			slog.Error("image upload failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Image upload failed")
			return
		}
	}

	if imageURL == "" && textPrompt == "" {
		respondError(w, http.StatusBadRequest, "Either image or textPrompt must be provided.")
		return
	}

	wireframe, err := h.wireframes.Create(ident.UserID, imageURL, textPrompt, language, aiUsed)
	if err != nil {
		slog.Error("wireframe create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to generate full wireframe")
		return
	}

	result, ok := h.runGeneration(w, r, wireframe)
	if !ok {
		return
	}

	respondJSON(w, http.StatusCreated, envelope{
		"success":       true,
		"message":       "Wireframe created, code generated, and suggestions fetched successfully",
		"wireframe":     result.wireframe,
		"generatedCode": result.code,
		"livePreview":   result.livePreview,
		"suggestions":   result.suggestions,
	})
}

// GenerateCode re-runs the generation steps for an existing wireframe
// against its stored prompt.
func (h *Wireframes) GenerateCode(w http.ResponseWriter, r *http.Request) {
	wireframe, ok := h.ownedWireframe(w, r)
	if !ok {
		return
	}

	if wireframe.BasePrompt() == "" {
		respondError(w, http.StatusBadRequest, "No prompt available for code generation")
		return
	}

	result, ok := h.runGeneration(w, r, wireframe)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, envelope{
		"success":       true,
		"message":       "Code generation successful",
		"imageUrl":      result.wireframe.ImageURL,
		"generatedCode": result.code,
		"livePreview":   result.livePreview,
		"suggestions":   result.suggestions,
	})
}

// generationResult carries the outcome of one successful generation pass.
type generationResult struct {
	wireframe   *models.Wireframe
	code        string
	livePreview string
	suggestions []models.Suggestion
}

// runGeneration performs the generate / derive / persist / audit steps
// shared by GenerateFull and GenerateCode. On failure it writes the
// response itself and returns ok=false.
func (h *Wireframes) runGeneration(w http.ResponseWriter, r *http.Request, wireframe *models.Wireframe) (generationResult, bool) {
	prompt := ai.BuildPrompt(wireframe.Language, wireframe.BasePrompt())
	requestPayload, _ := json.Marshal(map[string]string{"prompt": prompt})

	code, err := h.registry.Generate(r.Context(), wireframe.AIUsed, wireframe.Language, wireframe.BasePrompt())
	if err != nil {
		slog.Error("ai generation failed", "provider", wireframe.AIUsed, "error", err)
		h.appendLog(wireframe.UserID, &wireframe.ID, wireframe.AIUsed, requestPayload, nil, models.AILogFailure, err.Error())
		respondError(w, http.StatusInternalServerError, "AI code generation failed")
		return generationResult{}, false
	}

	suggestions := ai.DeriveVariants(code)
	livePreview := ai.LivePreview(code)

	if _, err := h.codes.Create(wireframe.ID, wireframe.UserID, code, wireframe.Language); err != nil {
		slog.Error("generated code save failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to save generated code")
		return generationResult{}, false
	}

	updated, err := h.wireframes.SetGenerated(wireframe.ID, code, livePreview, suggestions)
	if err != nil || updated == nil {
		slog.Error("wireframe update failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update wireframe")
		return generationResult{}, false
	}

	responsePayload, _ := json.Marshal(map[string]string{"generatedCode": code})
	h.appendLog(wireframe.UserID, &wireframe.ID, wireframe.AIUsed, requestPayload, responsePayload, models.AILogSuccess, "")

	return generationResult{
		wireframe:   updated,
		code:        code,
		livePreview: livePreview,
		suggestions: suggestions,
	}, true
}

// appendLog writes an audit row for an AI call attempt. Audit loss is
// tolerable; losing the AI response to the user is not, so failures here
// are logged and swallowed.
func (h *Wireframes) appendLog(userID uuid.UUID, wireframeID *uuid.UUID, provider models.ProviderName, request, response json.RawMessage, status models.AILogStatus, errorDetail string) {
	if err := h.logs.Append(userID, wireframeID, provider, request, response, status, errorDetail); err != nil {
		slog.Error("ai request log append failed", "error", err)
	}
}

// ingestImage relays an uploaded image to object storage and returns its
// stable URL.
func (h *Wireframes) ingestImage(r *http.Request, file multipart.File, header *multipart.FileHeader) (string, error) {
	if h.media == nil {
		return "", errors.New("object storage is not configured")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return h.media.UploadImage(r.Context(), data, contentType)
}

// Get returns a single wireframe owned by the requester.
func (h *Wireframes) Get(w http.ResponseWriter, r *http.Request) {
	wireframe, ok := h.ownedWireframe(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, wireframe)
}

// Update changes the prompt fields of a wireframe owned by the requester.
// Only the provided fields are applied.
func (h *Wireframes) Update(w http.ResponseWriter, r *http.Request) {
	wireframe, ok := h.ownedWireframe(w, r)
	if !ok {
		return
	}

	var req struct {
		ImageURL   *string `json:"imageUrl"`
		TextPrompt *string `json:"textPrompt"`
		Language   *string `json:"language"`
		AIUsed     *string `json:"aiUsed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ImageURL != nil {
		wireframe.ImageURL = *req.ImageURL
	}
	if req.TextPrompt != nil {
		wireframe.TextPrompt = *req.TextPrompt
	}
	if req.Language != nil {
		wireframe.Language = models.Language(*req.Language)
	}
	if req.AIUsed != nil {
		wireframe.AIUsed = models.ProviderName(*req.AIUsed)
	}

	if msg := validateGeneration(wireframe.TextPrompt, wireframe.Language, wireframe.AIUsed); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if wireframe.ImageURL == "" && wireframe.TextPrompt == "" {
		respondError(w, http.StatusBadRequest, "Either image or textPrompt must be provided.")
		return
	}

	updated, err := h.wireframes.Update(wireframe.ID, wireframe.ImageURL, wireframe.TextPrompt, wireframe.Language, wireframe.AIUsed)
	if err != nil {
		slog.Error("wireframe update failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update wireframe")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Wireframe not found")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a wireframe owned by the requester.
func (h *Wireframes) Delete(w http.ResponseWriter, r *http.Request) {
	wireframe, ok := h.ownedWireframe(w, r)
	if !ok {
		return
	}

	if _, err := h.wireframes.Delete(wireframe.ID); err != nil {
		slog.Error("wireframe delete failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete wireframe")
		return
	}

	respondJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Wireframe deleted successfully",
	})
}

// List returns all wireframes owned by the requester.
func (h *Wireframes) List(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())

	items, err := h.wireframes.ListByUser(ident.UserID)
	if err != nil {
		slog.Error("wireframe list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to list wireframes")
		return
	}
	if items == nil {
		items = []models.Wireframe{}
	}

	respondJSON(w, http.StatusOK, items)
}

// GetGeneratedCode returns the latest generated code for a wireframe owned
// by the requester.
func (h *Wireframes) GetGeneratedCode(w http.ResponseWriter, r *http.Request) {
	wireframe, ok := h.ownedWireframe(w, r)
	if !ok {
		return
	}

	code, err := h.codes.LatestByWireframe(wireframe.ID)
	if err != nil {
		slog.Error("generated code lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to get generated code")
		return
	}
	if code == nil {
		respondError(w, http.StatusNotFound, "Generated code not found for this wireframe")
		return
	}

	respondJSON(w, http.StatusOK, code)
}

// ListGeneratedCodes returns every generated code record owned by the
// requester, newest first.
func (h *Wireframes) ListGeneratedCodes(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())

	items, err := h.codes.ListByUser(ident.UserID)
	if err != nil {
		slog.Error("generated codes list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to get generated codes")
		return
	}
	if items == nil {
		items = []models.GeneratedCode{}
	}

	respondJSON(w, http.StatusOK, items)
}

// SuggestSimilar finds stored wireframes whose prompts contain the given
// text, case-insensitively, capped at five, each joined with its latest
// generated code.
func (h *Wireframes) SuggestSimilar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TextPrompt string `json:"textPrompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TextPrompt == "" {
		respondError(w, http.StatusBadRequest, "textPrompt is required for suggestions")
		return
	}

	matches, err := h.wireframes.SearchByPrompt(req.TextPrompt, 5)
	if err != nil {
		slog.Error("prompt search failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to get suggestions")
		return
	}

	suggestions := make([]envelope, 0, len(matches))
	for _, m := range matches {
		var codeText any
		code, err := h.codes.LatestByWireframe(m.ID)
		if err != nil {
			slog.Error("generated code lookup failed", "error", err)
		}
		if code != nil {
			codeText = code.Code
		}
		suggestions = append(suggestions, envelope{
			"wireframeId":   m.ID,
			"textPrompt":    m.TextPrompt,
			"imageUrl":      m.ImageURL,
			"generatedCode": codeText,
		})
	}

	respondJSON(w, http.StatusOK, envelope{"suggestions": suggestions})
}

// ownedWireframe loads the wireframe named in the URL and verifies the
// requester owns it. On any failure it writes the response itself and
// returns ok=false.
func (h *Wireframes) ownedWireframe(w http.ResponseWriter, r *http.Request) (*models.Wireframe, bool) {
	ident := middleware.IdentityFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid wireframe id")
		return nil, false
	}

	wireframe, err := h.wireframes.FindByID(id)
	if err != nil {
		slog.Error("wireframe lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to get wireframe")
		return nil, false
	}
	if wireframe == nil {
		respondError(w, http.StatusNotFound, "Wireframe not found")
		return nil, false
	}
	if wireframe.UserID != ident.UserID {
		respondError(w, http.StatusForbidden, "Forbidden: You do not own this wireframe")
		return nil, false
	}

	return wireframe, true
}
