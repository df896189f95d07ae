package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMenuName(t *testing.T) {
	decomposed := "\u1100\u1175\u11b7\u110e\u1175" // conjoining jamo for the same word
	assert.Equal(t, "김치", NormalizeMenuName("  "+decomposed+" "))
	assert.Equal(t, "김치", NormalizeMenuName("김치"))
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "KOREAN", NormalizeCategory(" korean "))
	assert.Equal(t, "", NormalizeCategory("   "))
}

func TestOptionalString(t *testing.T) {
	assert.Nil(t, OptionalString(""))
	assert.Nil(t, OptionalString("  "))

	p := OptionalString("bibimbap")
	if assert.NotNil(t, p) {
		assert.Equal(t, "bibimbap", *p)
	}
}
