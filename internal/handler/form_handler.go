/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"net/http"

	"github.com/YF-George/group-web/internal/protocol"
	"github.com/YF-George/group-web/internal/service"

	"github.com/gorilla/mux"
)

type FormHandler struct {
	formService service.FormService
}

func NewFormHandler(formService service.FormService) *FormHandler {
	return &FormHandler{formService}
}

func (h *FormHandler) ListFields(w http.ResponseWriter, r *http.Request) {
	fields, err := h.formService.GetFields()
	if err != nil {
		http.Error(w, "Could not gather fields", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

func (h *FormHandler) CreateField(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	}
	if err := decodeJSON(r, &req); err != nil || req.ID == "" {
		writeReason(w, http.StatusBadRequest, protocol.ReasonBadRequest, "bad payload")
		return
	}

	field, err := h.formService.CreateField(req.ID, req.Value, editorFrom(r))
	if err != nil {
		writeReason(w, http.StatusBadRequest, protocol.ReasonBadRequest, "the field could not be created")
		return
	}
	writeJSON(w, http.StatusCreated, field)
}

func (h *FormHandler) LockField(w http.ResponseWriter, r *http.Request) {
	fieldID := mux.Vars(r)["id"]

	result, field, err := h.formService.Lock(fieldID, editorFrom(r))
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, protocol.LockResponse{Result: result, Field: field})
}

func (h *FormHandler) UnlockField(w http.ResponseWriter, r *http.Request) {
	fieldID := mux.Vars(r)["id"]

	result, field, err := h.formService.Unlock(fieldID, editorFrom(r))
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, protocol.LockResponse{Result: result, Field: field})
}

// UpdateField writes a locked field under its version guard.
// The fresh row rides back in the response so the writer can fold it into
// its cache without waiting for the feed echo.
func (h *FormHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	var req protocol.FieldUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeReason(w, http.StatusBadRequest, protocol.ReasonBadRequest, "bad payload")
		return
	}
	req.FieldID = mux.Vars(r)["id"]

	result, field, err := h.formService.UpdateValue(req, editorFrom(r))
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, protocol.FieldUpdateResponse{Result: result, Field: field})
}
