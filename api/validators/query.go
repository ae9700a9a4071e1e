package validators

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	pkgerrors "github.com/coloriginz/supplier-onboarding-backend/pkg/errors"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/pagination"
)

// PageParams reads the cursor and limit query parameters of a listing.
func PageParams(r *http.Request) (pagination.Params, error) {
	params := pagination.Params{Cursor: r.URL.Query().Get("cursor")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return pagination.Params{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "limit must be a number")
		}
		params.Limit = limit
	}
	params.Limit = pagination.NormalizeLimit(params.Limit)
	return params, nil
}

// StatusParam reads an optional status filter.
func StatusParam(r *http.Request) (*enums.RequestStatus, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, nil
	}
	status, err := enums.ParseRequestStatus(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
	}
	return &status, nil
}

// PathUUID parses a URL path segment as a UUID. Malformed identifiers read as
// NOT_FOUND so the route does not reveal which IDs are syntactically valid.
func PathUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
	}
	return id, nil
}
