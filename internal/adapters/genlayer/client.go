package genlayer

// client.go — cliente JSON-RPC del nodo GenLayer con rate limiting y retries.
//
// Las lecturas (gen_call, polling de receipts) se reintentan con backoff
// ante errores transitorios. Las escrituras se envían exactamente una vez:
// reenviar una transacción firmada puede duplicarla en el nodo.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/genbet/internal/domain"
	"github.com/alejandrodnm/genbet/internal/ports"
)

const (
	defaultRPCBase = "https://studio.genlayer.com/api"

	// Studio acepta ráfagas cortas; 10 req/s sostenidos es suficiente para
	// el escaneo completo de mercados sin tocar los límites del nodo.
	callsPerSec = 10

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Client habla JSON-RPC con un nodo GenLayer. Implementa ports.RPCClient.
type Client struct {
	http    *http.Client
	rpcURL  string
	chainID int64
	session *Session // nil → solo identifica que no hay cuenta conectada
	limiter *rate.Limiter
	nextID  atomic.Int64
}

var _ ports.RPCClient = (*Client)(nil)

// NewClient crea un Client contra el RPC dado. Si rpcURL está vacío usa el
// endpoint de GenLayer Studio. session puede ser nil (sin cuenta conectada).
func NewClient(rpcURL string, chainID int64, session *Session) *Client {
	if rpcURL == "" {
		rpcURL = defaultRPCBase
	}
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		rpcURL:  rpcURL,
		chainID: chainID,
		session: session,
		limiter: rate.NewLimiter(callsPerSec, 5),
	}
}

// Account devuelve la dirección de la sesión, o "" si no hay sesión.
func (c *Client) Account() string {
	if c.session == nil {
		return ""
	}
	return c.session.Address()
}

// Call ejecuta un método view del contrato y devuelve el valor normalizado.
func (c *Client) Call(ctx context.Context, address, function string, args []any) (any, error) {
	if args == nil {
		args = []any{}
	}
	params := callParams{
		Type: "read",
		To:   address,
		From: c.Account(),
		Data: callData{Method: function, Args: args},
	}

	raw, err := c.postWithRetry(ctx, "gen_call", []any{params})
	if err != nil {
		return nil, fmt.Errorf("genlayer.Call: %s: %w", function, err)
	}
	return normalizeRaw(raw)
}

// SendTransaction firma y envía una transacción de escritura. Exactamente
// un intento — sin retries.
func (c *Client) SendTransaction(ctx context.Context, address, function string, args []any, value int64) (string, error) {
	if c.session == nil {
		return "", domain.ErrNoSession
	}
	if args == nil {
		args = []any{}
	}

	payload := txParams{
		Type:    "write",
		To:      address,
		From:    c.session.Address(),
		Data:    callData{Method: function, Args: args},
		Value:   value,
		ChainID: c.chainID,
	}

	unsigned, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("genlayer.SendTransaction: marshal payload: %w", err)
	}
	payload.Signature, err = c.session.sign(unsigned)
	if err != nil {
		return "", fmt.Errorf("genlayer.SendTransaction: %w", err)
	}

	raw, err := c.post(ctx, "gen_sendTransaction", []any{payload})
	if err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) && rpcErr.Code == rpcCodeTxRejected {
			return "", &domain.TransactionRejectedError{Reason: rpcErr.Message}
		}
		return "", fmt.Errorf("genlayer.SendTransaction: %s: %w", function, err)
	}

	var hash string
	if err := json.Unmarshal(raw, &hash); err != nil {
		return "", fmt.Errorf("genlayer.SendTransaction: decode hash: %w", err)
	}
	return hash, nil
}

// WaitForReceipt hace polling acotado hasta que la transacción alcanza el
// estado pedido. Los errores de polling individuales no abortan la espera:
// la transacción puede tardar en indexarse.
func (c *Client) WaitForReceipt(ctx context.Context, hash string, opts ports.ReceiptOptions) (domain.Receipt, error) {
	if opts.Status == "" {
		opts.Status = domain.TxStatusFinalized
	}
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}
	if opts.Retries <= 0 {
		opts.Retries = 30
	}

	for attempt := 1; attempt <= opts.Retries; attempt++ {
		raw, err := c.postWithRetry(ctx, "gen_getTransactionByHash", []any{hash})
		if err != nil {
			slog.Debug("receipt poll failed", "hash", hash, "attempt", attempt, "err", err)
		} else {
			var res txStatusResult
			if err := json.Unmarshal(raw, &res); err != nil {
				return domain.Receipt{}, fmt.Errorf("genlayer.WaitForReceipt: decode: %w", err)
			}
			switch res.Status {
			case opts.Status:
				return domain.Receipt{Hash: hash, Status: res.Status}, nil
			case domain.TxStatusRejected:
				return domain.Receipt{}, &domain.TransactionRejectedError{
					Hash:   hash,
					Reason: "node rejected the transaction",
				}
			}
			slog.Debug("transaction not yet finalized",
				"hash", hash, "status", res.Status, "attempt", attempt)
		}

		select {
		case <-time.After(opts.Interval):
		case <-ctx.Done():
			return domain.Receipt{}, ctx.Err()
		}
	}

	return domain.Receipt{}, &domain.TransactionTimeoutError{
		Hash:     hash,
		Attempts: opts.Retries,
		Interval: opts.Interval,
	}
}

// postWithRetry ejecuta post con backoff exponencial ante errores transitorios.
func (c *Client) postWithRetry(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		raw, err := c.post(ctx, method, params)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		var httpErr *HTTPStatusError
		if !errors.As(err, &httpErr) || !httpErr.Transient() {
			return nil, err
		}
		if attempt == maxRetries {
			break
		}

		slog.Warn("transient rpc error, retrying", "method", method, "attempt", attempt+1, "err", err)
		c.sleep(ctx, attempt)
	}
	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

// post hace un POST JSON-RPC único, respetando el rate limiter.
func (c *Client) post(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode}
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
