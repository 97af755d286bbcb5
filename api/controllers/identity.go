package controllers

import (
	"net/http"

	"github.com/angelmondragon/plantnet-backend/api/middleware"
	"github.com/angelmondragon/plantnet-backend/pkg/auth"
	pkgerrors "github.com/angelmondragon/plantnet-backend/pkg/errors"
)

func identityFrom(r *http.Request) (auth.Identity, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok || identity.Email == "" {
		return auth.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "unauthorized access")
	}
	return identity, nil
}

func serviceUnavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable")
}
