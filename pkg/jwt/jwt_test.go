package jwt_test

import (
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/concesionario-api/pkg/jwt"
)

const (
	secret = "test-secret-key-for-unit-tests"
	issuer = "concesionario-test"
)

func TestParse_DevuelveLaIdentidad(t *testing.T) {
	tok, err := jwt.Generate(secret, "U-1", "EMP-1", "vendedor", issuer, 60)
	require.NoError(t, err)

	id, err := jwt.Parse(secret, issuer, tok)
	require.NoError(t, err)
	assert.Equal(t, jwt.Identity{UserID: "U-1", CompanyID: "EMP-1", Role: "vendedor"}, id)
}

func TestParse_EmisorDistintoSeRechaza(t *testing.T) {
	tok, err := jwt.Generate(secret, "U-1", "EMP-1", "vendedor", "otro-servicio", 60)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, issuer, tok)
	assert.True(t, errors.Is(err, gojwt.ErrTokenInvalidIssuer), "fue %v", err)

	_, err = jwt.Parse(secret, "", tok)
	assert.NoError(t, err, "sin emisor configurado no se exige")
}

func TestParse_VencidoOFirmaAjena(t *testing.T) {
	expired, err := jwt.Generate(secret, "U-1", "EMP-1", "admin", issuer, -1)
	require.NoError(t, err)
	_, err = jwt.Parse(secret, issuer, expired)
	assert.True(t, errors.Is(err, gojwt.ErrTokenExpired))

	tok, err := jwt.Generate(secret, "U-1", "EMP-1", "admin", issuer, 60)
	require.NoError(t, err)
	_, err = jwt.Parse("otro-secret-completamente-distinto", issuer, tok)
	assert.True(t, errors.Is(err, gojwt.ErrTokenSignatureInvalid))
}

func TestParse_ExigeVencimientoYAlgoritmo(t *testing.T) {
	noExp := gojwt.NewWithClaims(gojwt.SigningMethodHS256, jwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{Issuer: issuer},
		UserID:           "U-1",
		CompanyID:        "EMP-1",
	})
	raw, err := noExp.SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = jwt.Parse(secret, issuer, raw)
	assert.Error(t, err, "un token sin vencimiento no se acepta")

	hs512 := gojwt.NewWithClaims(gojwt.SigningMethodHS512, jwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{Issuer: issuer, ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "U-1",
		CompanyID:        "EMP-1",
	})
	raw, err = hs512.SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = jwt.Parse(secret, issuer, raw)
	assert.True(t, errors.Is(err, gojwt.ErrTokenSignatureInvalid), "solo se acepta HS256")
}

func TestParse_SinEmpresaOSinSecreto(t *testing.T) {
	tok, err := jwt.Generate(secret, "U-1", "", "admin", issuer, 60)
	require.NoError(t, err)
	_, err = jwt.Parse(secret, issuer, tok)
	assert.ErrorIs(t, err, jwt.ErrNoCompany)

	_, err = jwt.Parse("", issuer, tok)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
	_, err = jwt.Generate("", "U-1", "EMP-1", "admin", issuer, 60)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}
