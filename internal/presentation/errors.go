package presentation

import (
	"errors"
	"net/http"

	"github.com/japi-express/shipment-service/internal/application"
	"github.com/japi-express/shipment-service/internal/logger"
	"github.com/japi-express/shipment-service/internal/presentation/helpers"
	"github.com/japi-express/shipment-service/internal/repository"
	"github.com/japi-express/shipment-service/internal/wizard"
)

// writeError maps service errors onto the HTTP surface. Anything unknown
// falls through to a generic 500 so no failure leaves a silent handler.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrDraftNotFound),
		errors.Is(err, application.ErrItemNotFound),
		errors.Is(err, application.ErrUserNotFound),
		errors.Is(err, application.ErrProductNotFound):
		helpers.HttpError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, wizard.ErrSectionLocked),
		errors.Is(err, wizard.ErrSectionNotActive),
		errors.Is(err, wizard.ErrNothingActive),
		errors.Is(err, application.ErrSubmitInFlight):
		helpers.HttpError(w, http.StatusConflict, err.Error())

	case errors.Is(err, application.ErrQuantityOutOfRange),
		errors.Is(err, application.ErrInvalidItem),
		errors.Is(err, application.ErrInvalidInput),
		errors.Is(err, application.ErrFormIncomplete),
		errors.Is(err, application.ErrEmptySupply),
		errors.Is(err, wizard.ErrUnknownSection):
		helpers.HttpError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, application.ErrInvalidCredentials):
		helpers.HttpError(w, http.StatusUnauthorized, "invalid credentials")

	case errors.Is(err, application.ErrNotActivated):
		helpers.HttpError(w, http.StatusForbidden, "account not yet activated")

	case errors.Is(err, repository.ErrEmailTaken):
		helpers.HttpError(w, http.StatusConflict, err.Error())

	case errors.Is(err, application.ErrSubmitFailed):
		helpers.HttpError(w, http.StatusBadGateway, "could not submit shipment, try again")

	default:
		logger.Error("unexpected error", "err", err)
		helpers.HttpError(w, http.StatusInternalServerError, "unexpected error")
	}
}
