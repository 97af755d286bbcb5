package controllers

import (
	"net/http"

	"github.com/angelmondragon/plantnet-backend/api/responses"
	"github.com/angelmondragon/plantnet-backend/api/validators"
	authsvc "github.com/angelmondragon/plantnet-backend/internal/auth"
	"github.com/angelmondragon/plantnet-backend/internal/otp"
	pkgAuth "github.com/angelmondragon/plantnet-backend/pkg/auth"
	"github.com/angelmondragon/plantnet-backend/pkg/config"
	"github.com/angelmondragon/plantnet-backend/pkg/logger"
	"github.com/angelmondragon/plantnet-backend/pkg/types"
)

// IssueToken handles POST /jwt by setting the identity cookie.
func IssueToken(svc authsvc.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("auth"))
			return
		}

		var req authsvc.TokenRequest
		if err := validators.DecodeJSONBodyLenient(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := svc.IssueToken(r.Context(), req.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pkgAuth.SetTokenCookie(w, cfg.Cookie, cfg.App.IsProd(), token.Value, token.ExpiresAt)
		responses.WriteSuccess(w, types.StatusEnvelope{Success: true})
	}
}

// Logout clears the identity cookie.
func Logout(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pkgAuth.ClearTokenCookie(w, cfg.Cookie, cfg.App.IsProd())
		responses.WriteSuccess(w, types.StatusEnvelope{Success: true})
	}
}

func SendOTP(svc otp.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("otp"))
			return
		}

		var req otp.SendRequest
		if err := validators.DecodeJSONBodyLenient(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res, err := svc.Send(r.Context(), req.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, res)
	}
}

func VerifyOTP(svc otp.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("otp"))
			return
		}

		var req otp.VerifyRequest
		if err := validators.DecodeJSONBodyLenient(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res, err := svc.Verify(r.Context(), req.Email, req.OTP)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, res)
	}
}
