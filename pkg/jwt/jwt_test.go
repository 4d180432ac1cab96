package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/seller-catalog-api/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := pkgjwt.Generate("secret", "U1", "catalog-test", 5)
	require.NoError(t, err)

	userID, err := pkgjwt.Parse("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "U1", userID)
}

func TestParse_Rechazos(t *testing.T) {
	tok, err := pkgjwt.Generate("secret", "U1", "catalog-test", 5)
	require.NoError(t, err)
	expired, err := pkgjwt.Generate("secret", "U1", "catalog-test", -1)
	require.NoError(t, err)

	cases := map[string]struct {
		secret string
		token  string
	}{
		"firma incorrecta": {secret: "otro", token: tok},
		"expirado":         {secret: "secret", token: expired},
		"basura":           {secret: "secret", token: "no.es.jwt"},
		"secret vacío":     {secret: "", token: tok},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := pkgjwt.Parse(tc.secret, tc.token)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "U1", "catalog-test", 5)
	assert.Error(t, err)
}

func TestParse_ErrInvalidToken(t *testing.T) {
	_, err := pkgjwt.Parse("secret", "no.es.jwt")
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestGenerate_UserVacio(t *testing.T) {
	_, err := pkgjwt.Generate("secret", "", "catalog-test", 5)
	assert.Error(t, err)
}
