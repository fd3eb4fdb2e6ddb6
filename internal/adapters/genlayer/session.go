package genlayer

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Session es la cuenta conectada: dirección derivada de la clave privada
// configurada. Cambiar de cuenta significa construir una Session nueva y
// un gateway nuevo — nunca migración in situ.
type Session struct {
	address common.Address
	key     *ecdsa.PrivateKey
}

// NewSession deriva la sesión de una clave privada hex (con o sin prefijo 0x).
func NewSession(privateKeyHex string) (*Session, error) {
	pkBytes, err := hex.DecodeString(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("genlayer.NewSession: decode private key: %w", err)
	}

	key, err := crypto.ToECDSA(pkBytes)
	if err != nil {
		return nil, fmt.Errorf("genlayer.NewSession: invalid private key: %w", err)
	}

	return &Session{
		address: crypto.PubkeyToAddress(key.PublicKey),
		key:     key,
	}, nil
}

// Address devuelve la dirección 0x de la cuenta.
func (s *Session) Address() string {
	return s.address.Hex()
}

// sign firma el digest keccak256 del payload con la clave de la sesión.
func (s *Session) sign(payload []byte) (string, error) {
	sig, err := crypto.Sign(crypto.Keccak256(payload), s.key)
	if err != nil {
		return "", fmt.Errorf("sign payload: %w", err)
	}
	return "0x" + hex.EncodeToString(sig), nil
}
