package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetenvEmptyFallsBack(t *testing.T) {
	t.Setenv("TIEMPOS_TEST_VAR", "")
	assert.Equal(t, "fallback", Getenv("TIEMPOS_TEST_VAR", "fallback"))

	t.Setenv("TIEMPOS_TEST_VAR", "set")
	assert.Equal(t, "set", Getenv("TIEMPOS_TEST_VAR", "fallback"))
}

func TestGetenvList(t *testing.T) {
	t.Setenv("TIEMPOS_TEST_LIST", " http://a.example , http://b.example,")
	assert.Equal(t,
		[]string{"http://a.example", "http://b.example"},
		GetenvList("TIEMPOS_TEST_LIST", []string{"http://fallback.example"}))

	t.Setenv("TIEMPOS_TEST_LIST", "")
	assert.Equal(t,
		[]string{"http://fallback.example"},
		GetenvList("TIEMPOS_TEST_LIST", []string{"http://fallback.example"}))
}
