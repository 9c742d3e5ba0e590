package feed

import (
	"sync"

	"github.com/cianoid/BackTraderAlor/internal/market"
)

type inboxEntry struct {
	provider string
	guid     string
	bar      market.Bar
}

// Inbox 多生产者共享收件箱。定时轮询任务和推送回调往里追加，
// 每个 Feed 只认领自己订阅 guid 的条目，因此跨 Feed 不会互相干扰。
// 同一 guid 内按入队顺序取出，不按 open_time 排序。
type Inbox struct {
	mu      sync.Mutex
	entries []inboxEntry
}

func NewInbox() *Inbox {
	return &Inbox{}
}

func (in *Inbox) Append(provider, guid string, bar market.Bar) {
	in.mu.Lock()
	in.entries = append(in.entries, inboxEntry{provider: provider, guid: guid, bar: bar})
	in.mu.Unlock()
}

// Claim 取走 provider+guid 最早入队的一条。last 表示取走时它是唯一匹配的条目，
// 即消费方即将追上实时边缘。
func (in *Inbox) Claim(provider, guid string) (bar market.Bar, last bool, ok bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	first := -1
	matched := 0
	for i, e := range in.entries {
		if e.provider == provider && e.guid == guid {
			if first < 0 {
				first = i
			}
			matched++
		}
	}
	if first < 0 {
		return market.Bar{}, false, false
	}
	bar = in.entries[first].bar
	in.entries = append(in.entries[:first], in.entries[first+1:]...)
	return bar, matched == 1, true
}

func (in *Inbox) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.entries)
}

// Reset 清空收件箱。Store 停止时调用。
func (in *Inbox) Reset() {
	in.mu.Lock()
	in.entries = nil
	in.mu.Unlock()
}
