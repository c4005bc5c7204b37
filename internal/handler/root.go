package handler

import "net/http"

// HandleAPIRoot is the API entry point: a directory of the two collection
// endpoints, with absolute URLs built from the request so the links work
// behind whatever hostname the server is reached on.
//
// HTTP: GET /api
func HandleAPIRoot(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	base := scheme + "://" + r.Host + "/api"

	writeJSON(w, http.StatusOK, map[string]string{
		"users":    base + "/users",
		"snippets": base + "/snippets",
	})
}
