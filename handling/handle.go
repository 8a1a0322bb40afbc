package handling

import (
	"dallasdresses_server/lib"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// HandleError logs err and answers with a generic 500. It returns err so
// callers can keep propagating it.
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	gecho.InternalServerError(w, gecho.Send())
	return err
}

// WriteError maps a service error to its response. Errors of an unknown kind
// are logged and answered with a generic 500 through HandleError.
func WriteError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	var ve *lib.ValidationError
	switch {
	case errors.As(err, &ve):
		gecho.BadRequest(w, gecho.WithMessage("error.validation"), gecho.WithData(ve.Errors), gecho.Send())
	case errors.Is(err, lib.ErrEmptyBody):
		gecho.BadRequest(w, gecho.WithMessage("error.body.empty"), gecho.Send())
	case lib.IsInvalidInput(err):
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
	case lib.IsNotFound(err):
		gecho.NotFound(w, gecho.WithMessage(err.Error()), gecho.Send())
	case lib.IsConflict(err):
		gecho.Conflict(w, gecho.WithMessage(err.Error()), gecho.Send())
	case lib.IsUnauthorized(err):
		gecho.Forbidden(w, gecho.WithMessage(err.Error()), gecho.Send())
	case errors.Is(err, lib.ErrInvalidCredentials):
		gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidCredentials"), gecho.Send())
	case errors.Is(err, lib.ErrInvalidToken), errors.Is(err, lib.ErrExpiredToken):
		gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
	default:
		return HandleError(err, msg, logger, w)
	}
	return err
}
