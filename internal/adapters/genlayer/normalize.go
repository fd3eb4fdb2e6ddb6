package genlayer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Enteros fuera de ±(2^53-1) se devuelven como string decimal: es la
// garantía de rango que el resto del sistema asume para valores numéricos
// del contrato (balances y pools caben de sobra; ids siempre).
const maxSafeInt = int64(1)<<53 - 1

// normalizeRaw decodifica un result JSON-RPC preservando la precisión de
// los números y lo aplana con Normalize.
func normalizeRaw(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("genlayer: decode result: %w", err)
	}
	return Normalize(v), nil
}

// Normalize convierte recursivamente las estructuras del nodo a valores
// planos: maps anidados, slices, int64 para enteros seguros, float64 para
// decimales, y string para enteros fuera de rango seguro. Las direcciones
// llegan ya como strings 0x y pasan tal cual.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	case json.Number:
		return normalizeNumber(val)
	default:
		return v
	}
}

// normalizeNumber mapea un json.Number a int64, float64 o string.
func normalizeNumber(n json.Number) any {
	s := n.String()
	if strings.ContainsAny(s, ".eE") {
		if f, err := n.Float64(); err == nil {
			return f
		}
		return s
	}

	i, err := n.Int64()
	if err != nil || i > maxSafeInt || i < -maxSafeInt {
		return s
	}
	return i
}
