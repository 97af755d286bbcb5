package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/plantnet-backend/api/responses"
	"github.com/angelmondragon/plantnet-backend/api/validators"
	"github.com/angelmondragon/plantnet-backend/internal/users"
	pkgerrors "github.com/angelmondragon/plantnet-backend/pkg/errors"
	"github.com/angelmondragon/plantnet-backend/pkg/logger"
)

// SaveUser is idempotent: an existing user is returned unchanged with 200,
// a new one is inserted and acknowledged with 201.
func SaveUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("users"))
			return
		}

		var req users.SaveUserRequest
		if err := validators.DecodeJSONBodyLenient(r, &req); err != nil && !isEmptyBody(err) {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res, err := svc.SaveUser(r.Context(), chi.URLParam(r, "email"), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if res.Existing != nil {
			responses.WriteSuccess(w, res.Existing)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, res.Inserted)
	}
}

func ListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("users"))
			return
		}
		list, err := svc.ListUsers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func UserRole(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("users"))
			return
		}
		role, err := svc.RoleByEmail(r.Context(), chi.URLParam(r, "email"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var dto users.RoleDTO
		if role != "" {
			dto.Role = &role
		}
		responses.WriteSuccess(w, dto)
	}
}

// CheckEmail answers a missing email with 400 and {exists:false} rather than
// the error envelope.
func CheckEmail(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("users"))
			return
		}

		var req users.CheckEmailRequest
		if err := validators.DecodeJSONBodyLenient(r, &req); err != nil && !isEmptyBody(err) {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		exists, err := svc.EmailExists(r.Context(), req.Email)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				responses.WriteSuccessStatus(w, http.StatusBadRequest, users.ExistsDTO{Exists: false})
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, users.ExistsDTO{Exists: exists})
	}
}

func isEmptyBody(err error) bool {
	return errors.Is(err, io.EOF)
}
