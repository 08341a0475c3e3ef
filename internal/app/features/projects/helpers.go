// internal/app/features/projects/helpers.go
package projects

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid project id")
	}
	return id, nil
}
