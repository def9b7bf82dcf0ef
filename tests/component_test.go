package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketescrow/config"
	"ticketescrow/db"
	"ticketescrow/entities"
	"ticketescrow/message"
	"ticketescrow/service"
)

func TestComponent(t *testing.T) {
	postgresURL := os.Getenv("POSTGRES_URL")
	redisAddr := os.Getenv("REDIS_ADDR")
	if postgresURL == "" || redisAddr == "" {
		t.Skip("POSTGRES_URL and REDIS_ADDR are required")
	}

	conn, err := db.NewDBConn(postgresURL)
	require.NoError(t, err)
	defer conn.Close()

	conn.MigrateSchema()

	rdb := message.NewRedisClient(redisAddr)
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Config{
		PostgresURL:   postgresURL,
		RedisAddr:     redisAddr,
		HTTPAddr:      config.DefaultHTTPAddr,
		ProgramID:     entities.MustParseAddress(config.DefaultProgramID),
		FaucetEnabled: true,
		ReserveMode:   config.ReserveModeRent,
	}

	svc, err := service.New(conn, rdb, cfg)
	require.NoError(t, err)

	go func() {
		assert.NoError(t, svc.Run(ctx))
	}()
	waitForHttpServer(t)

	organizer := newKey(t)
	attendee := newKey(t)
	guest := newKey(t)

	for _, key := range []string{organizer.Address().String(), attendee.Address().String()} {
		resp := sendRequest(t, http.MethodPost, "/wallets/"+key+"/airdrop", nil, map[string]any{"amount": 1_000_000_000})
		requireStatus(t, resp, http.StatusOK)
	}

	resp := sendRequest(t, http.MethodPost, "/events", organizer, map[string]any{
		"event_id":    1,
		"price":       1_000_000,
		"title":       "Summer Festival",
		"description": "Three days of music",
	})
	requireStatus(t, resp, http.StatusCreated)
	event := decode[map[string]string](t, resp)["address"]

	resp = sendRequest(t, http.MethodPost, "/mints", attendee, map[string]any{})
	requireStatus(t, resp, http.StatusCreated)
	setup := decode[map[string]string](t, resp)

	resp = sendRequest(t, http.MethodPost, "/events/"+event+"/join", attendee, map[string]any{
		"mint":           setup["mint"],
		"mint_authority": setup["mint_authority"],
		"token_account":  setup["token_account"],
	})
	requireStatus(t, resp, http.StatusCreated)
	ticket := decode[map[string]string](t, resp)["ticket"]

	resp = sendRequest(t, http.MethodPost, "/events/"+event+"/tickets", organizer, map[string]any{
		"owner": guest.Address().String(),
	})
	requireStatus(t, resp, http.StatusCreated)

	resp = sendRequest(t, http.MethodPost, "/events/"+event+"/check-in", organizer, map[string]any{"ticket": ticket})
	requireStatus(t, resp, http.StatusOK)

	resp = sendRequest(t, http.MethodPost, "/events/"+event+"/withdraw", organizer, map[string]any{"amount": 0})
	requireStatus(t, resp, http.StatusOK)
	assert.EqualValues(t, 1_000_000, decode[map[string]any](t, resp)["amount"])

	assertSummaryProjected(t, event, ticket)
}

func assertSummaryProjected(t *testing.T, event, ticket string) {
	t.Helper()

	assert.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			resp, err := http.Get(serviceURL + "/events/" + event + "/summary")
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()

			if !assert.Equal(t, http.StatusOK, resp.StatusCode) {
				return
			}

			var summary entities.EventSummary
			if !assert.NoError(t, json.NewDecoder(resp.Body).Decode(&summary)) {
				return
			}

			assert.Equal(t, 2, summary.TicketsIssued())
			assert.Equal(t, 1, summary.CheckedInCount())
			assert.True(t, summary.Tickets[ticket].CheckedIn)
			assert.EqualValues(t, 1_000_000, summary.TotalWithdrawn)
		},
		10*time.Second,
		100*time.Millisecond,
	)
}

func waitForHttpServer(t *testing.T) {
	t.Helper()

	require.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			resp, err := http.Get(serviceURL + "/health")
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()

			assert.Less(t, resp.StatusCode, 300, "API not ready, http status: %d", resp.StatusCode)
		},
		time.Second*10,
		time.Millisecond*50,
	)
}
