package handler

import (
	"net/http"

	"github.com/varun0122/Restaurant-Management/internal/domain/staff"
)

type staffResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

// ListStaff returns all staff members.
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	members, err := h.staff.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]staffResponse, len(members))
	for i, m := range members {
		out[i] = staffResponse{ID: m.ID, Username: m.Username, Phone: m.Phone, Role: string(m.Role)}
	}
	writeJSON(w, http.StatusOK, out)
}

type staffRequest struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// CreateStaff adds a staff member.
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req staffRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	role := staff.Role(req.Role)
	if req.Username == "" || !role.Valid() {
		writeError(w, http.StatusBadRequest, "username and a valid role are required")
		return
	}

	m := &staff.Member{Username: req.Username, Phone: req.Phone, Role: role}
	if err := h.staff.Create(r.Context(), m); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, staffResponse{ID: m.ID, Username: m.Username, Phone: m.Phone, Role: string(m.Role)})
}

// UpdateStaff rewrites a staff member.
func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req staffRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	role := staff.Role(req.Role)
	if !role.Valid() {
		writeError(w, http.StatusBadRequest, "a valid role is required")
		return
	}

	m := &staff.Member{ID: id, Username: req.Username, Phone: req.Phone, Role: role}
	if err := h.staff.Update(r.Context(), m); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, staffResponse{ID: m.ID, Username: m.Username, Phone: m.Phone, Role: string(m.Role)})
}

// DeleteStaff removes a staff member.
func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.staff.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
