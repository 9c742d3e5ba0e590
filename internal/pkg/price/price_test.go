package price

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundToStep(t *testing.T) {
	assert.Equal(t, 100.5, RoundToStep(100.52, 0.5))
	assert.Equal(t, 101.0, RoundToStep(100.76, 0.5))
	assert.Equal(t, 0.0712, RoundToStep(0.07123, 0.0001))

	// 浮点漂移不应把整倍数的报价挪位
	assert.Equal(t, 4.6, RoundToStep(4.6, 0.1))

	t.Run("non positive step passes through", func(t *testing.T) {
		assert.Equal(t, 123.456, RoundToStep(123.456, 0))
		assert.Equal(t, 123.456, RoundToStep(123.456, -1))
	})
}
