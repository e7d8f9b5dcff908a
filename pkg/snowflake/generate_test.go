package snowflake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRejectsInvalidIDs(t *testing.T) {
	assert.ErrorIs(t, Init(-1, 0), errInvalidMachineID)
	assert.ErrorIs(t, Init(32, 0), errInvalidMachineID)
	assert.ErrorIs(t, Init(0, -1), errInvalidMachineID)

	// 非法调用不触发 once，随后的合法初始化照常生效
	require.NoError(t, Init(1, 1))

	id, err := NextID(GeneratorTypeUser)
	require.NoError(t, err)
	assert.NotZero(t, id)
}

func TestInitIdempotent(t *testing.T) {
	require.NoError(t, Init(1, 1))
	require.NoError(t, Init(2, 2))

	a, err := NextID(GeneratorTypePing)
	require.NoError(t, err)
	b, err := NextID(GeneratorTypePing)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNextIDUninitializedType(t *testing.T) {
	_, err := NextID(GeneratorType(-1))
	assert.ErrorIs(t, err, errGeneratorUninitial)

	_, err = NextID(generatorCount)
	assert.ErrorIs(t, err, errGeneratorUninitial)
}