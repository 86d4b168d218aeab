package handlers

import (
	"net/http"

	"homehub/internal/service"
)

// FamilyHandler handles family lifecycle and membership HTTP requests
type FamilyHandler struct {
	familyService *service.FamilyService
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService *service.FamilyService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

// ListFamilies returns the families the user belongs to
func (h *FamilyHandler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	families, err := h.familyService.GetUserFamilies(user.ID)
	if err != nil {
		respondServiceError(w, "Failed to list families", err)
		return
	}
	respondSuccess(w, http.StatusOK, families)
}

// CreateFamily creates a family owned by the user and makes it the
// session's active one
func (h *FamilyHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	user := GetUserFromContext(r.Context())
	session := GetSessionFromContext(r.Context())

	family, err := h.familyService.CreateFamily(r.FormValue("name"), user.ID)
	if err != nil {
		respondServiceError(w, "Failed to create family", err)
		return
	}
	if _, err := h.familyService.SelectFamily(session.ID, user.ID, family.ID); err != nil {
		respondServiceError(w, "Failed to select new family", err)
		return
	}
	respondSuccess(w, http.StatusCreated, family)
}

// SelectFamily makes a family the session's active one
func (h *FamilyHandler) SelectFamily(w http.ResponseWriter, r *http.Request) {
	familyID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid family ID")
		return
	}
	user := GetUserFromContext(r.Context())
	session := GetSessionFromContext(r.Context())

	family, err := h.familyService.SelectFamily(session.ID, user.ID, familyID)
	if err != nil {
		respondServiceError(w, "Failed to select family", err)
		return
	}
	respondSuccess(w, http.StatusOK, family)
}

// ListMembers returns the active family's members
func (h *FamilyHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	familyID := GetFamilyIDFromContext(r.Context())

	members, err := h.familyService.GetFamilyMembers(familyID)
	if err != nil {
		respondServiceError(w, "Failed to list members", err)
		return
	}
	respondSuccess(w, http.StatusOK, members)
}

// ListInviteable returns users who can still be invited to the active family
func (h *FamilyHandler) ListInviteable(w http.ResponseWriter, r *http.Request) {
	familyID := GetFamilyIDFromContext(r.Context())

	users, err := h.familyService.GetInviteableUsers(familyID)
	if err != nil {
		respondServiceError(w, "Failed to list users", err)
		return
	}
	respondSuccess(w, http.StatusOK, users)
}

// InviteMember adds an existing user to the active family by username
func (h *FamilyHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())
	user := GetUserFromContext(r.Context())

	invited, err := h.familyService.InviteUser(r.Context(), familyID, user.ID, r.FormValue("username"))
	if err != nil {
		respondServiceError(w, "Failed to invite member", err)
		return
	}
	respondSuccess(w, http.StatusCreated, invited)
}

// RemoveMember removes a member from the active family
func (h *FamilyHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid member ID")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())
	user := GetUserFromContext(r.Context())

	if err := h.familyService.RemoveMember(familyID, user.ID, memberID); err != nil {
		respondServiceError(w, "Failed to remove member", err)
		return
	}
	respondSuccess(w, http.StatusOK, nil)
}

// DeleteFamily deletes the active family and everything in it. Owner only.
func (h *FamilyHandler) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	familyID := GetFamilyIDFromContext(r.Context())
	user := GetUserFromContext(r.Context())
	session := GetSessionFromContext(r.Context())

	if err := h.familyService.DeleteFamily(familyID, user.ID); err != nil {
		respondServiceError(w, "Failed to delete family", err)
		return
	}
	if err := h.familyService.ClearFamilySelection(session.ID); err != nil {
		respondServiceError(w, "Failed to clear selection", err)
		return
	}
	respondSuccess(w, http.StatusOK, nil)
}
