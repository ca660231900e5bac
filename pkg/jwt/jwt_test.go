package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/celutaller-api/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "admin", pkgjwt.RoleAdmin, "celutaller-test", 60)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Actor)
	assert.Equal(t, pkgjwt.RoleAdmin, claims.Role)
	assert.Equal(t, "celutaller-test", claims.Issuer)
	assert.Len(t, claims.ID, 36, "jti es un uuid")
}

func TestGenerate_JTIUnico(t *testing.T) {
	a, err := pkgjwt.Generate(secret, "admin", pkgjwt.RoleAdmin, "x", 60)
	require.NoError(t, err)
	b, err := pkgjwt.Generate(secret, "admin", pkgjwt.RoleAdmin, "x", 60)
	require.NoError(t, err)

	ca, _ := pkgjwt.Parse(secret, a)
	cb, _ := pkgjwt.Parse(secret, b)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestParse_FirmaIncorrectaYExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "admin", pkgjwt.RoleAdmin, "x", 60)
	require.NoError(t, err)
	_, err = pkgjwt.Parse("otra-clave", tok)
	assert.Error(t, err)

	expired, err := pkgjwt.Generate(secret, "admin", pkgjwt.RoleAdmin, "x", -1)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(secret, expired)
	assert.Error(t, err)

	_, err = pkgjwt.Generate("", "admin", pkgjwt.RoleAdmin, "x", 60)
	assert.Error(t, err)
}
