package http

import (
	"net/http"

	libHttp "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	observability "ticketescrow/trace"
)

// NewHttpRouter exposes the ledger. The airdrop route is registered only when
// faucet is not nil.
func NewHttpRouter(
	ledger Ledger,
	summaries EventSummaryRepository,
	faucet Faucet,
	registry *prometheus.Registry,
) *echo.Echo {
	if ledger == nil {
		panic("missing ledger")
	}
	if summaries == nil {
		panic("missing summaries")
	}

	e := libHttp.NewEcho()
	e.HTTPErrorHandler = handleError
	e.Use(otelecho.Middleware(observability.ServiceName))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handler := Handler{
		ledger:    ledger,
		summaries: summaries,
		faucet:    faucet,
	}
	metrics := newOperationMetrics(registry)

	e.GET("/events", handler.GetEvents)
	e.GET("/events/:address", handler.GetEvent)
	e.GET("/events/:address/summary", handler.GetEventSummary)
	e.GET("/summaries", handler.GetSummaries)
	e.GET("/tickets", handler.GetTickets)
	e.GET("/tickets/:address", handler.GetTicket)
	e.GET("/wallets/:address", handler.GetWallet)
	e.GET("/derive/event", handler.GetDerivedEvent)
	e.GET("/derive/ticket", handler.GetDerivedTicket)

	e.POST("/events", metrics.instrument("create_event", handler.PostEvents), signerAuth)
	e.POST("/events/:address/tickets", metrics.instrument("grant_ticket", handler.PostTickets), signerAuth)
	e.POST("/events/:address/join", metrics.instrument("join_event", handler.PostJoin), signerAuth)
	e.POST("/events/:address/check-in", metrics.instrument("check_in", handler.PostCheckIn), signerAuth)
	e.POST("/events/:address/withdraw", metrics.instrument("withdraw", handler.PostWithdraw), signerAuth)
	e.POST("/mints", metrics.instrument("prepare_mint", handler.PostMints), signerAuth)

	if faucet != nil {
		e.POST("/wallets/:address/airdrop", handler.PostAirdrop)
	}

	return e
}
