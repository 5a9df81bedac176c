package handlers

import "net/http"

// Health reports that the process is up. It does not touch the database.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
