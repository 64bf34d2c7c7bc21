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
	"time"

	"github.com/YF-George/group-web/internal/protocol"
	"github.com/YF-George/group-web/internal/service"
)

type GroupHandler struct {
	rosterService service.RosterService
}

func NewGroupHandler(rosterService service.RosterService) *GroupHandler {
	return &GroupHandler{rosterService}
}

type groupRequest struct {
	BossName string    `json:"boss_name"`
	RaidTime time.Time `json:"raid_time"`
	Note     string    `json:"note"`
	Status   string    `json:"status,omitempty"`
}

func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.rosterService.GetGroups()
	if err != nil {
		http.Error(w, "Could not gather groups", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeReason(w, http.StatusBadRequest, protocol.ReasonBadRequest, "bad group id")
		return
	}
	group, err := h.rosterService.GetGroup(id)
	if err != nil {
		http.Error(w, "Group was not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeReason(w, http.StatusBadRequest, protocol.ReasonBadRequest, "bad payload")
		return
	}

	group, err := h.rosterService.CreateGroup(req.BossName, req.RaidTime, req.Note, editorFrom(r))
	if err != nil {
		writeReason(w, http.StatusBadRequest, protocol.ReasonBadRequest, "the group could not be created")
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeReason(w, http.StatusBadRequest, protocol.ReasonBadRequest, "bad group id")
		return
	}

	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeReason(w, http.StatusBadRequest, protocol.ReasonBadRequest, "bad payload")
		return
	}

	group, err := h.rosterService.UpdateGroup(id, req.BossName, req.RaidTime, req.Note, req.Status, editorFrom(r))
	if err != nil {
		writeReason(w, http.StatusBadRequest, protocol.ReasonBadRequest, "the group could not be updated")
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeReason(w, http.StatusBadRequest, protocol.ReasonBadRequest, "bad group id")
		return
	}
	if err := h.rosterService.DeleteGroup(id, editorFrom(r)); err != nil {
		http.Error(w, "Could not delete group", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
