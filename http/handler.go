package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"ticketescrow/entities"
	"ticketescrow/ledger"
)

type Handler struct {
	ledger    Ledger
	summaries EventSummaryRepository
	faucet    Faucet
}

type Ledger interface {
	ID() entities.Address

	CreateEvent(ctx context.Context, caller entities.Address, params ledger.CreateEventParams) (entities.Address, error)
	GrantTicket(ctx context.Context, caller, event, owner entities.Address) (entities.Address, error)
	JoinEvent(ctx context.Context, caller entities.Address, params ledger.JoinEventParams) (entities.Address, error)
	CheckIn(ctx context.Context, caller, event, ticket entities.Address) error
	Withdraw(ctx context.Context, caller, event entities.Address, amount uint64) (uint64, error)
	PrepareMint(ctx context.Context, caller, mint entities.Address) (ledger.MintSetup, error)

	GetEvent(ctx context.Context, addr entities.Address) (ledger.EventView, error)
	ListEvents(ctx context.Context, organizer *entities.Address) ([]ledger.EventView, error)
	GetTicket(ctx context.Context, addr entities.Address) (ledger.TicketView, error)
	TicketsByOwner(ctx context.Context, owner entities.Address) ([]ledger.TicketView, error)
	Balance(ctx context.Context, addr entities.Address) (uint64, error)
}

type EventSummaryRepository interface {
	SummaryByEvent(ctx context.Context, event entities.Address) (entities.EventSummary, error)
	AllSummaries(ctx context.Context) ([]entities.EventSummary, error)
}

type Faucet interface {
	Airdrop(ctx context.Context, to entities.Address, amount uint64) error
}

func addressParam(c echo.Context, name string) (entities.Address, error) {
	addr, err := entities.ParseAddress(c.Param(name))
	if err != nil {
		return entities.Address{}, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+": "+err.Error())
	}
	return addr, nil
}

func addressQuery(c echo.Context, name string) (entities.Address, error) {
	addr, err := entities.ParseAddress(c.QueryParam(name))
	if err != nil {
		return entities.Address{}, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+": "+err.Error())
	}
	return addr, nil
}

func requireAddress(addr entities.Address, name string) error {
	if addr.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, name+" is required")
	}
	return nil
}
