package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

// sideEffectTimeout bounds every fire-and-forget task started after a
// mutation commits (notifications, sign-outs, websocket pushes).
const sideEffectTimeout = 15 * time.Second

// detached returns a context that outlives the request that spawned the task.
func detached() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), sideEffectTimeout)
}

// checkRequest trims the request strings and runs the struct validator on it.
func checkRequest(validate *validator.Validate, req any) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}
	return nil
}

// parseDecimal is only called on values already accepted by the
// "decimalpos" validator, so errors are not expected here.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// dateOrNil parses a date already accepted by the "isodate" validator.
func dateOrNil(s string) *datatypes.Date {
	d, err := utils.ParseDatePtr(s)
	if err != nil {
		return nil
	}
	return d
}

// checkPeriod rejects ranges whose end comes before their start. Open ends
// are accepted.
func checkPeriod(start, end *datatypes.Date, endField string) apierror.ErrorResponse {
	if start == nil || end == nil {
		return nil
	}

	if time.Time(*end).Before(time.Time(*start)) {
		return apierror.NewValidationError(endField, "Value cannot be before the start date")
	}
	return nil
}
