package genlayer

import (
	"encoding/json"
	"fmt"
)

// Tipos de wire del JSON-RPC de GenLayer. Solo se usan dentro de este
// paquete; la conversión a valores planos se hace en normalize.go.

// rpcRequest es el sobre JSON-RPC 2.0.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// rpcResponse es la respuesta JSON-RPC 2.0.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// RPCError es un error devuelto por el nodo dentro del sobre JSON-RPC.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Código con el que el nodo señala una transacción rechazada por el firmante.
const rpcCodeTxRejected = -32003

// HTTPStatusError es una respuesta HTTP no-2xx del endpoint RPC.
// Los códigos >= 500 se consideran transitorios.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("rpc endpoint returned status %d", e.StatusCode)
}

// Transient devuelve true si el error merece reintento.
func (e *HTTPStatusError) Transient() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// callData es el cuerpo método+args de una llamada al contrato.
type callData struct {
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// callParams es el parámetro de gen_call.
type callParams struct {
	Type string   `json:"type"` // siempre "read"
	To   string   `json:"to"`
	From string   `json:"from,omitempty"`
	Data callData `json:"data"`
}

// txParams es el parámetro de gen_sendTransaction. Signature se calcula
// sobre el payload serializado sin el campo signature.
type txParams struct {
	Type      string   `json:"type"` // siempre "write"
	To        string   `json:"to"`
	From      string   `json:"from"`
	Data      callData `json:"data"`
	Value     int64    `json:"value"`
	ChainID   int64    `json:"chain_id"`
	Signature string   `json:"signature,omitempty"`
}

// txStatusResult es la respuesta de gen_getTransactionByHash.
type txStatusResult struct {
	Hash   string `json:"hash"`
	Status string `json:"status"`
}
