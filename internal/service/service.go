// Package service implements the fairshare.v1.LedgerService over a Store.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/fairshare/internal/amqp"
	"github.com/mmynk/fairshare/internal/cache"
	"github.com/mmynk/fairshare/internal/storage"
	"github.com/mmynk/fairshare/pkg/api"
)

const (
	defaultBalanceCacheSize = 1000
	defaultBalanceCacheTTL  = 5 * time.Minute
)

// Publisher delivers ledger events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event *amqp.LedgerEvent) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, *amqp.LedgerEvent) error { return nil }

// LedgerService implements the Connect LedgerService
type LedgerService struct {
	store               storage.Store
	balances            cache.Cache[*api.GetGroupBalancesResponse]
	events              Publisher
	maxGroupsPerCreator int
	now                 func() time.Time
}

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// Option configures a LedgerService.
type Option func(*LedgerService)

// WithBalanceCache replaces the default in-memory balance cache.
func WithBalanceCache(c cache.Cache[*api.GetGroupBalancesResponse]) Option {
	return func(s *LedgerService) { s.balances = c }
}

// WithPublisher sets where ledger events are sent. Events are dropped by default.
func WithPublisher(p Publisher) Option {
	return func(s *LedgerService) { s.events = p }
}

// WithMaxGroupsPerCreator limits how many groups one person may create.
// Zero means no limit.
func WithMaxGroupsPerCreator(n int) Option {
	return func(s *LedgerService) { s.maxGroupsPerCreator = n }
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:    store,
		balances: cache.NewLRUCache[*api.GetGroupBalancesResponse](defaultBalanceCacheSize, defaultBalanceCacheTTL),
		events:   nopPublisher{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// toConnectError maps service and storage errors onto Connect status codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ErrGroupLimitReached):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// ledgerChanged runs after every successful write to a group: it marks the
// group active, drops cached balances and announces the event. Failures here
// are logged and never fail the write that triggered them.
func (s *LedgerService) ledgerChanged(ctx context.Context, event *amqp.LedgerEvent) {
	if event.Type != amqp.EventGroupDeleted {
		if err := s.store.TouchGroup(ctx, event.GroupID, s.now().Unix()); err != nil {
			slog.Warn("Failed to touch group", "group_id", event.GroupID, "error", err)
		}
	}

	s.invalidateBalances(ctx, event.GroupID)

	if err := s.events.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish ledger event",
			"type", event.Type,
			"group_id", event.GroupID,
			"error", err,
		)
	}
}

func (s *LedgerService) invalidateBalances(ctx context.Context, groupID string) {
	if err := s.balances.Delete(ctx, groupID); err != nil {
		slog.Warn("Failed to invalidate cached balances", "group_id", groupID, "error", err)
	}
}
