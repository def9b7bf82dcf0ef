package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ticketescrow/entities"
	"ticketescrow/ledger"
)

type createEventRequest struct {
	EventID     uint64 `json:"event_id"`
	Price       uint64 `json:"price"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type addressResponse struct {
	Address entities.Address `json:"address"`
}

type withdrawRequest struct {
	// Amount 0 withdraws everything available.
	Amount uint64 `json:"amount"`
}

type withdrawResponse struct {
	Event  entities.Address `json:"event"`
	To     entities.Address `json:"to"`
	Amount uint64           `json:"amount"`
}

func (h Handler) PostEvents(c echo.Context) error {
	var request createEventRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	addr, err := h.ledger.CreateEvent(c.Request().Context(), callerFrom(c), ledger.CreateEventParams{
		EventID:     request.EventID,
		Price:       request.Price,
		Title:       request.Title,
		Description: request.Description,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, addressResponse{Address: addr})
}

func (h Handler) GetEvents(c echo.Context) error {
	var organizer *entities.Address
	if c.QueryParam("organizer") != "" {
		addr, err := addressQuery(c, "organizer")
		if err != nil {
			return err
		}
		organizer = &addr
	}

	events, err := h.ledger.ListEvents(c.Request().Context(), organizer)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, events)
}

func (h Handler) GetEvent(c echo.Context) error {
	addr, err := addressParam(c, "address")
	if err != nil {
		return err
	}

	event, err := h.ledger.GetEvent(c.Request().Context(), addr)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, event)
}

func (h Handler) GetEventSummary(c echo.Context) error {
	addr, err := addressParam(c, "address")
	if err != nil {
		return err
	}

	summary, err := h.summaries.SummaryByEvent(c.Request().Context(), addr)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

func (h Handler) GetSummaries(c echo.Context) error {
	summaries, err := h.summaries.AllSummaries(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summaries)
}

func (h Handler) PostWithdraw(c echo.Context) error {
	event, err := addressParam(c, "address")
	if err != nil {
		return err
	}

	var request withdrawRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	caller := callerFrom(c)

	sent, err := h.ledger.Withdraw(c.Request().Context(), caller, event, request.Amount)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, withdrawResponse{
		Event:  event,
		To:     caller,
		Amount: sent,
	})
}
