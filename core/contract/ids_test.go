package contract

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeIdRoundTrip(t *testing.T) {
	t.Parallel()

	hexId := strings.Repeat("ab", 32)
	id, err := NewNodeIdFromString(hexId)
	require.NoError(t, err)
	assert.Equal(t, hexId, id.String())

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"`+hexId+`"`, string(data))

	var parsed NodeId
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, id, parsed)
}

func TestNewNodeIdFromStringInvalid(t *testing.T) {
	t.Parallel()

	_, err := NewNodeIdFromString("zz")
	assert.Error(t, err)

	_, err = NewNodeIdFromString("abcd")
	assert.Error(t, err)
}

func TestContractIdRoundTrip(t *testing.T) {
	t.Parallel()

	hexId := strings.Repeat("0f", 32)
	id, err := NewContractIdFromString(hexId)
	require.NoError(t, err)
	assert.Equal(t, hexId, id.String())

	var parsed ContractId
	require.NoError(t, json.Unmarshal([]byte(`"`+hexId+`"`), &parsed))
	assert.Equal(t, id, parsed)
}
