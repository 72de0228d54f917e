package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stub struct{ id ID }

func (s stub) ID() ID { return s.id }
func (s stub) FetchQuote(context.Context, string) (*Quote, error) {
	return nil, ErrNoData
}

func TestParseID(t *testing.T) {
	cases := map[string]ID{
		"yahoo":     Yahoo,
		" YAHOO ":   Yahoo,
		"google":    Google,
		"":          Default,
		"bloomberg": Default,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseID(in), "input %q", in)
	}
}

func TestSet_GetFallsBackToDefault(t *testing.T) {
	s := Set{Google: stub{Google}}

	p, ok := s.Get(Yahoo)
	require.True(t, ok)
	assert.Equal(t, Google, p.ID())

	_, ok = Set{Yahoo: stub{Yahoo}}.Get("other")
	assert.False(t, ok)
}

func TestString_BlankIsNil(t *testing.T) {
	assert.Nil(t, String("  "))
	require.NotNil(t, String(" 22.1 "))
	assert.Equal(t, "22.1", *String(" 22.1 "))
}
