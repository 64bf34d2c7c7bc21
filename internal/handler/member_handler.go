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
)

type MemberHandler struct {
	rosterService service.RosterService
}

func NewMemberHandler(rosterService service.RosterService) *MemberHandler {
	return &MemberHandler{rosterService}
}

// SaveMember is the atomic entry point: the whole intended slot state in,
// a structured verdict out. Business rejections travel as 200s with
// success false, only transport and server faults use error statuses.
func (h *MemberHandler) SaveMember(w http.ResponseWriter, r *http.Request) {
	var req protocol.MemberSaveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeReason(w, http.StatusBadRequest, protocol.ReasonBadRequest, "bad payload")
		return
	}

	result, _, err := h.rosterService.SaveMember(req, editorFrom(r))
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// UpdateMember is the plain per-row patch kept for schemas that predate
// the atomic entry point. No claim check happens here.
func (h *MemberHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var req protocol.MemberSaveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeReason(w, http.StatusBadRequest, protocol.ReasonBadRequest, "bad payload")
		return
	}

	if _, err := h.rosterService.UpdateMemberFields(req, editorFrom(r)); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, protocol.SaveResult{Success: true})
}

func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(r, "id")
	if !ok {
		writeReason(w, http.StatusBadRequest, protocol.ReasonBadRequest, "bad group id")
		return
	}
	members, err := h.rosterService.ListMembers(groupID)
	if err != nil {
		http.Error(w, "Could not gather members", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// ListAllMembers backs the initial load of a fresh replica
func (h *MemberHandler) ListAllMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.rosterService.ListAllMembers()
	if err != nil {
		http.Error(w, "Could not gather members", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, members)
}
