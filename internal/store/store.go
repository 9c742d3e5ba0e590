// Package store 进程级注册表：持有行情提供方、共享收件箱和通知队列，
// 生命周期显式管理——启动时构造一次，按引用传给每个 Feed，停止时显式拆除。
package store

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cianoid/BackTraderAlor/internal/feed"
	"github.com/cianoid/BackTraderAlor/internal/logger"
	"github.com/cianoid/BackTraderAlor/internal/market"
	"github.com/cianoid/BackTraderAlor/internal/transport"
)

// Factory 生产 Feed 实例。接线阶段注入一次，之后不再更换。
type Factory func(provider transport.Provider, inbox *feed.Inbox, notifs *feed.NotificationQueue, cfg feed.Config) (*feed.Feed, error)

type Store struct {
	mu        sync.Mutex
	order     []string
	providers map[string]transport.Provider
	factory   Factory
	feeds     []*feed.Feed

	inbox   *feed.Inbox
	notifs  *feed.NotificationQueue
	started bool
	stopped bool
}

type Option func(*Store)

// WithProvider 注册一个行情提供方。第一个注册的作为默认。
func WithProvider(p transport.Provider) Option {
	return func(s *Store) {
		if p == nil {
			return
		}
		if _, dup := s.providers[p.Name()]; dup {
			return
		}
		s.providers[p.Name()] = p
		s.order = append(s.order, p.Name())
	}
}

// WithFeedFactory 注入 Feed 工厂。不注入时用 feed.New。
func WithFeedFactory(f Factory) Option {
	return func(s *Store) {
		if f != nil {
			s.factory = f
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		providers: make(map[string]transport.Provider),
		inbox:     feed.NewInbox(),
		notifs:    feed.NewNotificationQueue(),
		factory: func(provider transport.Provider, inbox *feed.Inbox, notifs *feed.NotificationQueue, cfg feed.Config) (*feed.Feed, error) {
			return feed.New(provider, inbox, notifs, cfg)
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Start 把所有提供方的推送回调接到共享收件箱。只允许启动一次。
func (s *Store) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return fmt.Errorf("store already stopped")
	}
	if s.started {
		return fmt.Errorf("store already started")
	}
	if len(s.order) == 0 {
		return fmt.Errorf("store has no providers")
	}
	for _, name := range s.order {
		s.providers[name].SetBarHandler(func(provider, guid string, bar market.Bar) {
			s.inbox.Append(provider, guid, bar)
		})
	}
	s.started = true
	logger.Infof("[store] started with %d provider(s)", len(s.order))
	return nil
}

// Provider 按名称取提供方；空名取默认（第一个注册的）。
func (s *Store) Provider(name string) (transport.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		if len(s.order) == 0 {
			return nil, fmt.Errorf("store has no providers")
		}
		name = s.order[0]
	}
	p, ok := s.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", name)
	}
	return p, nil
}

// NewFeed 通过注入的工厂构造 Feed 并登记。providerName 为空用默认提供方。
func (s *Store) NewFeed(providerName string, cfg feed.Config) (*feed.Feed, error) {
	p, err := s.Provider(providerName)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	factory := s.factory
	inbox := s.inbox
	s.mu.Unlock()
	f, err := factory(p, inbox, nil, cfg)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.feeds = append(s.feeds, f)
	s.mu.Unlock()
	return f, nil
}

func (s *Store) Feeds() []*feed.Feed {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*feed.Feed, len(s.feeds))
	copy(out, s.feeds)
	return out
}

func (s *Store) Inbox() *feed.Inbox { return s.inbox }

// PutNotification 入队一条 Store 级通知。
func (s *Store) PutNotification(n feed.Notification) { s.notifs.Put(n) }

// Notifications 排空 Store 级通知。
func (s *Store) Notifications() []feed.Notification { return s.notifs.Drain() }

// Stop 停掉所有 Feed、关闭提供方、清空收件箱。保证后台任务
// 全部退出后才返回；重复调用无效果。
func (s *Store) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	feeds := make([]*feed.Feed, len(s.feeds))
	copy(feeds, s.feeds)
	order := make([]string, len(s.order))
	copy(order, s.order)
	s.mu.Unlock()

	var group errgroup.Group
	for _, f := range feeds {
		f := f
		group.Go(func() error {
			f.Stop()
			return nil
		})
	}
	_ = group.Wait()

	var firstErr error
	for _, name := range order {
		if err := s.providers[name].Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close provider %s: %w", name, err)
		}
	}
	s.inbox.Reset()
	logger.Infof("[store] stopped")
	return firstErr
}
