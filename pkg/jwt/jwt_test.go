package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "pedidos-api-test"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := Generate(testSecret, "user-1", RoleOperator, testIssuer, 60)
	require.NoError(t, err)

	subject, role, err := Parse(testSecret, testIssuer, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
	assert.Equal(t, RoleOperator, role)
}

func TestParse_Errores(t *testing.T) {
	valid, err := Generate(testSecret, "user-1", RoleAdmin, testIssuer, 60)
	require.NoError(t, err)
	expired, err := Generate(testSecret, "user-1", RoleAdmin, testIssuer, -1)
	require.NoError(t, err)

	tests := []struct {
		name, secret, issuer, token string
	}{
		{"expirado", testSecret, testIssuer, expired},
		{"secret incorrecto", "otro-secret", testIssuer, valid},
		{"emisor distinto", testSecret, "otro-emisor", valid},
		{"malformado", testSecret, testIssuer, "token.invalido.aqui"},
		{"secret vacío", "", testIssuer, valid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.secret, tt.issuer, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestParse_SinEmisorNoLoValida(t *testing.T) {
	tok, err := Generate(testSecret, "user-1", RoleAdmin, "cualquiera", 60)
	require.NoError(t, err)

	_, _, err = Parse(testSecret, "", tok)
	assert.NoError(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "user-1", RoleAdmin, testIssuer, 60)
	assert.Error(t, err)
}
