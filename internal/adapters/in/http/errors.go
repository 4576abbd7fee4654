package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/medical-calendar-api/internal/core/domain"
	"github.com/suchimauz/medical-calendar-api/internal/utils"
)

// statusForError - доменная ошибка в HTTP-код. Ошибки внешнего
// хранилища отдаются как 502, вью от них не падает
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTimeSlotConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrStatusUpdateInFlight):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrInvalidTimeFormat),
		errors.Is(err, domain.ErrTimeOutOfRange),
		errors.Is(err, domain.ErrIntervalInverted),
		errors.Is(err, domain.ErrOutsideWorkingHours),
		errors.Is(err, domain.ErrInvalidAppointment),
		errors.Is(err, domain.ErrInvalidPatient),
		errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, utils.ErrInvalidDate):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func abortWithError(ctx *gin.Context, err error) {
	ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
}
