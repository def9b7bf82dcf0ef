package http

import (
	"errors"
	"net/http"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"

	"ticketescrow/accounts"
	"ticketescrow/db"
	"ticketescrow/ledger"
	"ticketescrow/signer"
	"ticketescrow/system"
	"ticketescrow/token"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{ledger.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
	{ledger.ErrNoFunds, http.StatusBadRequest, "no_funds"},
	{ledger.ErrWrongEvent, http.StatusBadRequest, "wrong_event"},
	{ledger.ErrAlreadyCheckedIn, http.StatusConflict, "already_checked_in"},
	{ledger.ErrAccountExists, http.StatusConflict, "account_exists"},
	{ledger.ErrAccountNotFound, http.StatusNotFound, "not_found"},
	{ledger.ErrAccountKindMismatch, http.StatusBadRequest, "account_kind_mismatch"},
	{ledger.ErrAddressMismatch, http.StatusBadRequest, "address_mismatch"},
	{ledger.ErrInvalidMintAuthority, http.StatusBadRequest, "invalid_mint_authority"},
	{ledger.ErrMintAlreadyUsed, http.StatusConflict, "mint_already_used"},
	{ledger.ErrHoldingOwnerMismatch, http.StatusBadRequest, "token_account_owner_mismatch"},
	{ledger.ErrTitleTooLong, http.StatusBadRequest, "title_too_long"},
	{ledger.ErrDescriptionTooLong, http.StatusBadRequest, "description_too_long"},
	{ledger.ErrInsufficientFunds, http.StatusBadRequest, "insufficient_funds"},

	{token.ErrMintNotFound, http.StatusNotFound, "mint_not_found"},
	{token.ErrHoldingNotFound, http.StatusNotFound, "token_account_not_found"},
	{token.ErrMintMismatch, http.StatusBadRequest, "mint_mismatch"},
	{token.ErrAuthorityMismatch, http.StatusBadRequest, "mint_authority_rejected"},
	{token.ErrSupplyOverflow, http.StatusBadRequest, "supply_overflow"},
	{token.ErrInvalidMintAddress, http.StatusBadRequest, "invalid_mint"},

	{system.ErrTransferFromNonWallet, http.StatusBadRequest, "invalid_payer"},
	{accounts.ErrBalanceOverflow, http.StatusBadRequest, "balance_overflow"},
	{accounts.ErrConcurrentUpdate, http.StatusConflict, "conflict"},
	{db.ErrSummaryNotFound, http.StatusNotFound, "not_found"},
	{signer.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
}

// errorCode returns the status and the machine-checkable code for err.
func errorCode(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.Code {
		case http.StatusBadRequest:
			return httpErr.Code, "invalid_request"
		case http.StatusUnauthorized:
			return httpErr.Code, "unauthenticated"
		case http.StatusNotFound:
			return httpErr.Code, "not_found"
		default:
			return httpErr.Code, "http_error"
		}
	}

	return http.StatusInternalServerError, "internal"
}

func handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, code := errorCode(err)

	logger := log.FromContext(c.Request().Context()).WithError(err).WithField("code", code)
	if status >= http.StatusInternalServerError {
		logger.Error("HTTP request failed")
	} else {
		logger.Info("HTTP request rejected")
	}

	message := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	}
	if status >= http.StatusInternalServerError {
		message = "internal server error"
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, errorResponse{Error: code, Message: message})
	}
	if err != nil {
		log.FromContext(c.Request().Context()).WithError(err).Error("Could not write error response")
	}
}
