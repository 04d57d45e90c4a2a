package handler

import (
	"errors"
	"net/http"

	"caixa-be/internal/category"
	"caixa-be/internal/logger"
	"caixa-be/internal/order"
	"caixa-be/internal/ordernumber"
	"caixa-be/internal/product"
	"caixa-be/internal/report"
	"caixa-be/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errBadRequest = errors.New("bad request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, category.ErrCategoryNotFound),
		errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, errBadRequest),
		errors.Is(err, category.ErrEmptyName),
		errors.Is(err, category.ErrNameTooLong),
		errors.Is(err, product.ErrInvalidInput),
		errors.Is(err, product.ErrNegativeValue),
		errors.Is(err, product.ErrUnknownCategory),
		errors.Is(err, product.ErrUnsupportedImage),
		errors.Is(err, order.ErrInvalidCheckout),
		errors.Is(err, order.ErrProductNotFound),
		errors.Is(err, order.ErrVariablePriceRequired),
		errors.Is(err, report.ErrUnsupportedDocument),
		errors.Is(err, report.ErrUnsupportedFormat),
		errors.Is(err, user.ErrInvalidInput):
		return http.StatusBadRequest

	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrNotEditable),
		errors.Is(err, order.ErrStaleStatus),
		errors.Is(err, user.ErrEmailExists):
		return http.StatusConflict

	case errors.Is(err, report.ErrBackendUnavailable),
		errors.Is(err, report.ErrExportUnavailable),
		errors.Is(err, ordernumber.ErrCounterUnavailable),
		errors.Is(err, product.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.FromCtx(c.Request.Context()).Error("unhandled error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		msg = http.StatusText(status)
	}
	c.JSON(status, gin.H{"error": msg})
}
