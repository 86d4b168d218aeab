package handlers

import (
	"net/http"

	"homehub/internal/service"
)

// VaultHandler handles family vault HTTP requests. Vault changes are not
// broadcast; the vault is reference material, not a live surface.
type VaultHandler struct {
	vaultService *service.VaultService
}

// NewVaultHandler creates a new vault handler
func NewVaultHandler(vaultService *service.VaultService) *VaultHandler {
	return &VaultHandler{vaultService: vaultService}
}

// ListEntries returns the family's vault grouped by category
func (h *VaultHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	familyID := GetFamilyIDFromContext(r.Context())

	entries, err := h.vaultService.GetEntries(familyID)
	if err != nil {
		respondServiceError(w, "Failed to list vault entries", err)
		return
	}
	respondSuccess(w, http.StatusOK, entries)
}

// AddEntry stores a new vault entry
func (h *VaultHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())
	user := GetUserFromContext(r.Context())

	entry, err := h.vaultService.AddEntry(familyID, user.ID,
		r.FormValue("category"), r.FormValue("title"), r.FormValue("content"))
	if err != nil {
		respondServiceError(w, "Failed to add vault entry", err)
		return
	}
	respondSuccess(w, http.StatusCreated, entry)
}

// UpdateEntry rewrites a vault entry
func (h *VaultHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	entryID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())
	user := GetUserFromContext(r.Context())

	entry, err := h.vaultService.UpdateEntry(familyID, entryID, user.ID,
		r.FormValue("category"), r.FormValue("title"), r.FormValue("content"))
	if err != nil {
		respondServiceError(w, "Failed to update vault entry", err)
		return
	}
	respondSuccess(w, http.StatusOK, entry)
}

// DeleteEntry removes a vault entry
func (h *VaultHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}
	familyID := GetFamilyIDFromContext(r.Context())

	if err := h.vaultService.DeleteEntry(familyID, entryID); err != nil {
		respondServiceError(w, "Failed to delete vault entry", err)
		return
	}
	respondSuccess(w, http.StatusOK, nil)
}
