package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func TestParseSellers(t *testing.T) {
	in := "id;nombre\nS1;Acme\n\nS2; Distribuidora Norte\n"
	sellers, err := parseSellers(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, sellers, 2)
	assert.Equal(t, "S1", sellers[0].ID)
	assert.Equal(t, "Distribuidora Norte", sellers[1].Name)
}

func TestParseSellers_Rejects(t *testing.T) {
	for name, in := range map[string]string{
		"una columna": "S1\n",
		"sin nombre":  "S1;\n",
		"repetido":    "S1;A\nS1;B\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseSellers(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestParseSellers_Latin1(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String("S1;Panadería Ñandú\n")
	require.NoError(t, err)

	r := transform.NewReader(strings.NewReader(raw), charmap.ISO8859_1.NewDecoder())
	sellers, err := parseSellers(r)
	require.NoError(t, err)
	require.Len(t, sellers, 1)
	assert.Equal(t, "Panadería Ñandú", sellers[0].Name)
}
