package handlers

import (
	"errors"
	"log"
	"net/http"

	"homehub/internal/service"
	"homehub/internal/validation"
)

// respondServiceError translates a service error into an HTTP response.
// Known sentinels map to their natural status; anything else is logged and
// hidden behind a 500.
func respondServiceError(w http.ResponseWriter, logContext string, err error) {
	var validationErr validation.ValidationError
	if errors.As(err, &validationErr) {
		respondError(w, http.StatusBadRequest, validationErr.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrListNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrChoreNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrMealNotFound),
		errors.Is(err, service.ErrNoteNotFound),
		errors.Is(err, service.ErrVaultEntryNotFound),
		errors.Is(err, service.ErrFamilyNotFound),
		errors.Is(err, service.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyGenerated),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrUsernameTaken):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNotFamilyMember),
		errors.Is(err, service.ErrNotFamilyOwner),
		errors.Is(err, service.ErrOwnerCannotLeave),
		errors.Is(err, service.ErrPermissionDenied):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNoChoresDue),
		errors.Is(err, service.ErrNoMembers),
		errors.Is(err, service.ErrWindowTooLarge),
		errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("%s: %v", logContext, err)
		respondError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
