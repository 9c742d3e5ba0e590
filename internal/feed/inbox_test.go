package feed

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cianoid/BackTraderAlor/internal/market"
)

func barAt(open time.Time) market.Bar {
	return market.Bar{OpenTime: open, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10}
}

func TestInboxClaimFIFO(t *testing.T) {
	in := NewInbox()
	t0 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	// 故意乱序入队：认领按入队顺序走，不按 open_time 排序
	in.Append("alor", "g1", barAt(t0.Add(5*time.Minute)))
	in.Append("alor", "g1", barAt(t0))

	bar, last, ok := in.Claim("alor", "g1")
	assert.True(t, ok)
	assert.False(t, last)
	assert.Equal(t, t0.Add(5*time.Minute), bar.OpenTime)

	bar, last, ok = in.Claim("alor", "g1")
	assert.True(t, ok)
	assert.True(t, last)
	assert.Equal(t, t0, bar.OpenTime)

	_, _, ok = in.Claim("alor", "g1")
	assert.False(t, ok)
}

func TestInboxClaimIsolatesGuids(t *testing.T) {
	in := NewInbox()
	t0 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	in.Append("alor", "g1", barAt(t0))
	in.Append("alor", "g2", barAt(t0.Add(time.Minute)))
	in.Append("other", "g1", barAt(t0.Add(2*time.Minute)))

	bar, last, ok := in.Claim("alor", "g1")
	assert.True(t, ok)
	assert.True(t, last, "other guids must not count toward last")
	assert.Equal(t, t0, bar.OpenTime)

	assert.Equal(t, 2, in.Len())

	_, _, ok = in.Claim("alor", "missing")
	assert.False(t, ok)
}

func TestInboxLastFlagAtClaimTime(t *testing.T) {
	in := NewInbox()
	t0 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	in.Append("alor", "g1", barAt(t0))
	in.Append("alor", "g1", barAt(t0.Add(time.Minute)))
	in.Append("alor", "g1", barAt(t0.Add(2*time.Minute)))

	_, last, _ := in.Claim("alor", "g1")
	assert.False(t, last)
	_, last, _ = in.Claim("alor", "g1")
	assert.False(t, last)
	_, last, _ = in.Claim("alor", "g1")
	assert.True(t, last)
}

func TestInboxConcurrentAppend(t *testing.T) {
	in := NewInbox()
	t0 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				in.Append("alor", "g1", barAt(t0.Add(time.Duration(n*50+j)*time.Second)))
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 400, in.Len())

	claimed := 0
	for {
		if _, _, ok := in.Claim("alor", "g1"); !ok {
			break
		}
		claimed++
	}
	assert.Equal(t, 400, claimed)

	in.Reset()
	assert.Equal(t, 0, in.Len())
}
