package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sealedx/goapi/domain"
	"github.com/sealedx/goapi/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		switch {
		case errors.Is(err, domain.ErrNotFound) || errors.Is(err, query.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, domain.ErrInvalidState):
			status = http.StatusConflict
		case errors.Is(err, domain.ErrWrongPhase) || errors.Is(err, domain.ErrBadParamInput),
			errors.Is(err, domain.ErrInvalidNumberFormat) || errors.Is(err, domain.ErrZeroAmount),
			errors.Is(err, domain.ErrHashMismatch) || errors.Is(err, domain.ErrBidExceedsDeposit),
			errors.Is(err, domain.ErrDepositTooLow) || errors.Is(err, domain.ErrNothingToWithdraw),
			errors.Is(err, domain.ErrOperatorNotApproved) || errors.Is(err, domain.ErrInvalidNonce),
			errors.Is(err, domain.ErrInsufficientAllowance) || errors.Is(err, domain.ErrInsufficientBalance),
			errors.Is(err, domain.ErrAlreadyRevealed) || errors.Is(err, domain.ErrInvalidAddress):
			status = http.StatusBadRequest
		}
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
