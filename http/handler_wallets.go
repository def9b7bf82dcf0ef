package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"ticketescrow/entities"
	"ticketescrow/ledger"
	"ticketescrow/signer"
)

type balanceResponse struct {
	Address  entities.Address `json:"address"`
	Lamports uint64           `json:"lamports"`
}

type airdropRequest struct {
	Amount uint64 `json:"amount"`
}

type createMintRequest struct {
	// Mint is generated when omitted.
	Mint *entities.Address `json:"mint"`
}

func (h Handler) GetWallet(c echo.Context) error {
	addr, err := addressParam(c, "address")
	if err != nil {
		return err
	}

	lamports, err := h.ledger.Balance(c.Request().Context(), addr)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, balanceResponse{Address: addr, Lamports: lamports})
}

func (h Handler) PostAirdrop(c echo.Context) error {
	addr, err := addressParam(c, "address")
	if err != nil {
		return err
	}

	var request airdropRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	if request.Amount == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be greater than 0")
	}

	if err := h.faucet.Airdrop(c.Request().Context(), addr, request.Amount); err != nil {
		return err
	}

	return h.GetWallet(c)
}

func (h Handler) PostMints(c echo.Context) error {
	var request createMintRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	var mint entities.Address
	if request.Mint != nil {
		mint = *request.Mint
	} else {
		key, err := signer.Generate()
		if err != nil {
			return err
		}
		mint = key.Address()
	}

	setup, err := h.ledger.PrepareMint(c.Request().Context(), callerFrom(c), mint)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, setup)
}

func (h Handler) GetDerivedEvent(c echo.Context) error {
	organizer, err := addressQuery(c, "organizer")
	if err != nil {
		return err
	}

	eventID, err := strconv.ParseUint(c.QueryParam("event_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event_id")
	}

	addr, _, err := ledger.FindEventAddress(h.ledger.ID(), organizer, eventID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, addressResponse{Address: addr})
}

func (h Handler) GetDerivedTicket(c echo.Context) error {
	event, err := addressQuery(c, "event")
	if err != nil {
		return err
	}

	owner, err := addressQuery(c, "owner")
	if err != nil {
		return err
	}

	addr, _, err := ledger.FindTicketAddress(h.ledger.ID(), event, owner)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, addressResponse{Address: addr})
}
