package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ticketescrow/entities"
	"ticketescrow/ledger"
)

type grantTicketRequest struct {
	Owner entities.Address `json:"owner"`
}

type joinEventRequest struct {
	Mint          entities.Address `json:"mint"`
	MintAuthority entities.Address `json:"mint_authority"`
	TokenAccount  entities.Address `json:"token_account"`
}

type checkInRequest struct {
	Ticket entities.Address `json:"ticket"`
}

type ticketResponse struct {
	Ticket entities.Address `json:"ticket"`
}

type checkInResponse struct {
	Ticket    entities.Address `json:"ticket"`
	CheckedIn bool             `json:"checked_in"`
}

func (h Handler) PostTickets(c echo.Context) error {
	event, err := addressParam(c, "address")
	if err != nil {
		return err
	}

	var request grantTicketRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	if err := requireAddress(request.Owner, "owner"); err != nil {
		return err
	}

	ticket, err := h.ledger.GrantTicket(c.Request().Context(), callerFrom(c), event, request.Owner)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, ticketResponse{Ticket: ticket})
}

func (h Handler) PostJoin(c echo.Context) error {
	event, err := addressParam(c, "address")
	if err != nil {
		return err
	}

	var request joinEventRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	if err := requireAddress(request.Mint, "mint"); err != nil {
		return err
	}

	ticket, err := h.ledger.JoinEvent(c.Request().Context(), callerFrom(c), ledger.JoinEventParams{
		Event:         event,
		Mint:          request.Mint,
		MintAuthority: request.MintAuthority,
		TokenAccount:  request.TokenAccount,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, ticketResponse{Ticket: ticket})
}

func (h Handler) PostCheckIn(c echo.Context) error {
	event, err := addressParam(c, "address")
	if err != nil {
		return err
	}

	var request checkInRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	if err := requireAddress(request.Ticket, "ticket"); err != nil {
		return err
	}

	if err := h.ledger.CheckIn(c.Request().Context(), callerFrom(c), event, request.Ticket); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, checkInResponse{Ticket: request.Ticket, CheckedIn: true})
}

func (h Handler) GetTickets(c echo.Context) error {
	owner, err := addressQuery(c, "owner")
	if err != nil {
		return err
	}

	tickets, err := h.ledger.TicketsByOwner(c.Request().Context(), owner)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tickets)
}

func (h Handler) GetTicket(c echo.Context) error {
	addr, err := addressParam(c, "address")
	if err != nil {
		return err
	}

	ticket, err := h.ledger.GetTicket(c.Request().Context(), addr)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ticket)
}
