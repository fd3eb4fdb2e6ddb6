// Package format agrupa los helpers de presentación compartidos por las
// tablas y los mensajes de la consola. Todo es puro: strings de entrada,
// strings de salida.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ShortenAddress abrevia una dirección 0x para mostrarla en tablas:
// "0x1B2450Cf...f1D7". Las strings cortas pasan tal cual.
func ShortenAddress(addr string) string {
	if len(addr) <= 14 {
		return addr
	}
	return addr[:10] + "..." + addr[len(addr)-4:]
}

// Amount formatea una cantidad entera de puntos con separador de miles:
// 1234567 → "1,234,567".
func Amount(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}

// Odds normaliza una cuota decimal del contrato a dos decimales:
// "2.5" → "2.50". Las strings no numéricas pasan tal cual.
func Odds(odds string) string {
	f, err := strconv.ParseFloat(odds, 64)
	if err != nil {
		return odds
	}
	return fmt.Sprintf("%.2f", f)
}

// ImpliedProbability convierte una cuota decimal a probabilidad implícita
// en porcentaje: "2.00" → 50.0. Devuelve 0 para cuotas inválidas o <= 1.
func ImpliedProbability(odds string) float64 {
	f, err := strconv.ParseFloat(odds, 64)
	if err != nil || f < 1 {
		return 0
	}
	return 100 / f
}

// TimeUntil devuelve una cuenta atrás legible hasta t: "2d 5h", "3h 12m",
// "45m". Si t ya pasó devuelve "started". El zero time devuelve "-".
func TimeUntil(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := t.Sub(now)
	if d <= 0 {
		return "started"
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

// Truncate corta s a maxLen con elipsis.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
