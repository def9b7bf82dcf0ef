package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/lithammer/shortuuid/v3"
	"github.com/stretchr/testify/require"

	"ticketescrow/signer"
)

const serviceURL = "http://localhost:8080"

type response struct {
	StatusCode int
	Body       []byte
}

func sendRequest(t *testing.T, method, path string, key *signer.Keypair, body any) response {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	httpReq, err := http.NewRequest(method, serviceURL+path, bytes.NewBuffer(payload))
	require.NoError(t, err)

	httpReq.Header.Set("Correlation-ID", shortuuid.New())
	httpReq.Header.Set("Content-Type", "application/json")

	if key != nil {
		token, err := signer.IssueToken(*key, time.Minute, time.Now())
		require.NoError(t, err)
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return response{StatusCode: resp.StatusCode, Body: respBody}
}

func requireStatus(t *testing.T, resp response, status int) {
	t.Helper()

	require.Equal(t, status, resp.StatusCode, string(resp.Body))
}

func decode[T any](t *testing.T, resp response) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(resp.Body, &v), string(resp.Body))
	return v
}

func newKey(t *testing.T) *signer.Keypair {
	t.Helper()

	key, err := signer.Generate()
	require.NoError(t, err)
	return &key
}
