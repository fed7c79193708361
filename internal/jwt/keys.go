package jwt

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// KeyPair mantiene el material de firma del codec: la privada firma,
// la pública verifica. El algoritmo queda fijo por configuración.
type KeyPair struct {
	Alg    string // "EdDSA" | "RS256"
	Priv   crypto.PrivateKey
	Pub    crypto.PublicKey
	method jwtv5.SigningMethod
}

// LoadKeyPair arma el par de claves desde PEM inline o archivos.
// El PEM inline (env) tiene prioridad sobre el archivo.
func LoadKeyPair(alg, privPEM, privFile, pubPEM, pubFile string) (*KeyPair, error) {
	privBytes, err := pemBytes(privPEM, privFile)
	if err != nil {
		return nil, fmt.Errorf("jwt: clave privada: %w", err)
	}
	pubBytes, err := pemBytes(pubPEM, pubFile)
	if err != nil {
		return nil, fmt.Errorf("jwt: clave pública: %w", err)
	}

	kp := &KeyPair{Alg: alg}
	switch alg {
	case "EdDSA":
		kp.method = jwtv5.SigningMethodEdDSA
		priv, err := parseEd25519Private(privBytes)
		if err != nil {
			return nil, err
		}
		pub, err := parseEd25519Public(pubBytes)
		if err != nil {
			return nil, err
		}
		kp.Priv, kp.Pub = priv, pub

	case "RS256":
		kp.method = jwtv5.SigningMethodRS256
		priv, err := parseRSAPrivate(privBytes)
		if err != nil {
			return nil, err
		}
		pub, err := parseRSAPublic(pubBytes)
		if err != nil {
			return nil, err
		}
		kp.Priv, kp.Pub = priv, pub

	default:
		return nil, fmt.Errorf("jwt: algoritmo %q no soportado", alg)
	}

	return kp, nil
}

// NewDevEd25519 genera un par Ed25519 en memoria. Solo para dev/tests.
func NewDevEd25519() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, err
	}
	return &KeyPair{
		Alg:    "EdDSA",
		Priv:   priv,
		Pub:    pub,
		method: jwtv5.SigningMethodEdDSA,
	}, nil
}

func pemBytes(inline, file string) ([]byte, error) {
	if inline != "" {
		return []byte(inline), nil
	}
	if file != "" {
		return os.ReadFile(file)
	}
	return nil, fmt.Errorf("sin PEM ni archivo configurado")
}

func parseEd25519Private(b []byte) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, fmt.Errorf("jwt: PEM privado inválido")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwt: parseando PKCS8: %w", err)
	}
	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("jwt: la clave privada no es Ed25519")
	}
	return priv, nil
}

func parseEd25519Public(b []byte) (ed25519.PublicKey, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, fmt.Errorf("jwt: PEM público inválido")
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwt: parseando PKIX: %w", err)
	}
	pub, ok := key.(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("jwt: la clave pública no es Ed25519")
	}
	return pub, nil
}

func parseRSAPrivate(b []byte) (*rsa.PrivateKey, error) {
	return jwtv5.ParseRSAPrivateKeyFromPEM(b)
}

func parseRSAPublic(b []byte) (*rsa.PublicKey, error) {
	return jwtv5.ParseRSAPublicKeyFromPEM(b)
}
