// ============================================================================
// internal/gateway/handlers/handlers.go
// Shared handler plumbing: actor extraction and request validation
// ============================================================================

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"internhub/internal/auth"
	"internhub/internal/gateway/util"
	"internhub/internal/grading"
)

// validate is the shared request validator instance
var validate = validator.New()

// actorFromRequest maps the authenticated request context to a grading actor
func actorFromRequest(r *http.Request) (grading.Actor, bool) {
	actorCtx, ok := auth.ActorFromContext(r.Context())
	if !ok {
		return grading.Actor{}, false
	}
	return grading.Actor{ID: actorCtx.ActorID, Role: actorCtx.Role, Name: actorCtx.Name}, true
}

// decodeAndValidate decodes the JSON body into dst and runs struct validation
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}

// requireActor writes a 401 when the request carries no authenticated actor
func requireActor(w http.ResponseWriter, r *http.Request) (grading.Actor, bool) {
	actor, ok := actorFromRequest(r)
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return grading.Actor{}, false
	}
	return actor, true
}
