package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndClassify(t *testing.T) {
	src := "# comment\nvmlinux fail\ndrivers/net/* pass\nGPL pass\nmy_symbol fail\n"
	rs, err := Parse("rules", strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, rs.rules, 4)
	assert.Equal(t, Module, rs.rules[0].Kind)
	assert.Equal(t, Module, rs.rules[1].Kind)
	assert.Equal(t, Namespace, rs.rules[2].Kind)
	assert.Equal(t, Symbol, rs.rules[3].Kind)
}

func TestFirstMatchWins(t *testing.T) {
	src := "my_* fail\nmy_symbol pass\n"
	rs, err := Parse("rules", strings.NewReader(src))
	require.NoError(t, err)
	assert.False(t, rs.IsTolerated("my_symbol", "", ""))
}

func TestDefaultNotTolerated(t *testing.T) {
	rs, err := Parse("rules", strings.NewReader(""))
	require.NoError(t, err)
	assert.False(t, rs.IsTolerated("anything", "", ""))
}

func TestModuleAndNamespaceDispatch(t *testing.T) {
	src := "drivers/net/e1000 pass\nCRYPTO fail\n"
	rs, err := Parse("rules", strings.NewReader(src))
	require.NoError(t, err)
	assert.True(t, rs.IsTolerated("unused_symbol", "drivers/net/e1000", ""))
	assert.False(t, rs.IsTolerated("unused_symbol", "", "CRYPTO"))
}

func TestMalformedRuleRejected(t *testing.T) {
	_, err := Parse("rules", strings.NewReader("only_one_field\n"))
	require.Error(t, err)
}
