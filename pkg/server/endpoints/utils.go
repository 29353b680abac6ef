package endpoints

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/petition-in-go/pkg/identity"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/middleware"
)

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// wantsJSON checks the Accept header and the format query parameter
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// caller returns the identity resolved by the session middleware
func caller(r *http.Request) *identity.Identity {
	if id, ok := identity.Get(r.Context()); ok {
		return id
	}
	return identity.Anonymous(middleware.ClientIP(r))
}
