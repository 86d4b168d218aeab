package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

// isAJAX reports whether the request came from the frontend's fetch layer.
// Requiring this custom header on mutating endpoints also forces browsers
// into a CORS preflight, which blocks plain cross-site form posts.
func isAJAX(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// writeJSON writes a JSON response body
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// respondSuccess writes the standard success envelope
func respondSuccess(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// respondError writes the standard error envelope
func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// pathID parses the {id} path segment of the request
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
