package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert.Equal(t, Symbol{Base: "BTC", Quote: "USDT"}, Parse("BTC/USDT"))
	assert.Equal(t, Symbol{Base: "BTC", Quote: "USDT"}, Parse("btcusdt"))
	assert.Equal(t, Symbol{Base: "ETH", Quote: "BTC"}, Parse("ETHBTC"))
	assert.Equal(t, Symbol{Base: "BTC", Quote: "USDT"}, Parse("BTC/USDT:USDT"))
	assert.Equal(t, Symbol{}, Parse(""))
	assert.Equal(t, Symbol{}, Parse("USDT"))
}

func TestToBinance(t *testing.T) {
	assert.Equal(t, "BTCUSDT", ToBinance("BTC/USDT"))
	assert.Equal(t, "BTCUSDT", ToBinance("btcusdt"))
	assert.Equal(t, "SBERRUB", ToBinance("sber/rub"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "BTC/USDT", Normalize("BTCUSDT"))
	assert.Equal(t, "", Normalize("???"))
}
