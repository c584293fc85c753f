// Package collection ties access control, allowlist admission, issuance and
// the reveal engine into one collection with events, logging, metrics and
// persistence.
//
// A Collection is not safe for concurrent use. The host serializes calls;
// the only nesting it tolerates is a synchronous call back from the ledger
// or treasury during a mint or withdraw, and every mutating call made that
// way fails with issuance.ErrReentrant. Getters stay available.
package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bitfsorg/libmint-go/access"
	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/config"
	"github.com/bitfsorg/libmint-go/issuance"
	"github.com/bitfsorg/libmint-go/metrics"
	"github.com/bitfsorg/libmint-go/reveal"
	"github.com/bitfsorg/libmint-go/store"
)

// Option configures a Collection.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
	store   store.Store
	sink    EventSink
	entropy reveal.EntropySource
	now     func() time.Time
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the metrics. Nil disables them.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithStore persists state after every successful mutation. New only.
func WithStore(s store.Store) Option {
	return func(o *options) { o.store = s }
}

// WithEventSink receives every event.
func WithEventSink(s EventSink) Option {
	return func(o *options) { o.sink = s }
}

// WithEntropy replaces the reveal entropy source.
func WithEntropy(e reveal.EntropySource) Option {
	return func(o *options) { o.entropy = e }
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// Collection is one fixed-supply collection.
type Collection struct {
	name         string
	baseURI      string
	baseImageURI string
	preRevealURI string

	access *access.Controller
	auth   *allowlist.Authenticator
	issuer *issuance.Issuer
	engine *reveal.Engine
	ledger issuance.Ledger

	log     *zap.Logger
	metrics *metrics.Metrics
	store   store.Store
	sink    EventSink
	now     func() time.Time

	// depth counts guarded calls in flight.
	depth int
}

// New creates a collection from cfg. If a store is configured it must be
// empty; the initial state is saved to it.
func New(cfg config.CollectionConfig, ledger issuance.Ledger, treasury issuance.Treasury, opts ...Option) (*Collection, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	if o.store != nil {
		if _, err := o.store.Load(); err == nil {
			return nil, ErrStateExists
		} else if !errors.Is(err, store.ErrStateNotFound) {
			return nil, err
		}
	}

	ac, err := access.New(cfg.Operator, cfg.Guardian)
	if err != nil {
		return nil, err
	}
	registry := allowlist.NewRegistry()
	registry.SetMinimumIndex(cfg.MinimumIndex)
	auth := allowlist.NewAuthenticator(allowlist.DeriveCollectionID(cfg.Name, cfg.Operator), ac, registry)

	issuer, err := issuance.New(ac, auth, ledger, treasury, issuance.Params{
		Limit:       cfg.Limit,
		MaxQuantity: cfg.MaxQuantity,
		OwnerLimit:  cfg.OwnerLimit,
		Price:       cfg.Price,
	})
	if err != nil {
		return nil, err
	}
	engine, err := reveal.New(issuer, o.entropy, cfg.BatchSize)
	if err != nil {
		return nil, err
	}

	c := assemble(o, issuer, engine, ac, auth, ledger)
	c.name = cfg.Name
	c.baseURI = cfg.BaseURI
	c.baseImageURI = cfg.BaseImageURI
	c.preRevealURI = cfg.PreRevealURI

	if err := c.save(); err != nil {
		return nil, err
	}
	c.log.Info("collection created",
		zap.String("name", c.name),
		zap.Stringer("collection_id", auth.CollectionID()),
		zap.Stringer("operator", cfg.Operator),
		zap.Uint64("limit", cfg.Limit),
		zap.Uint64("batch_size", cfg.BatchSize))
	return c, nil
}

// Open restores a collection saved in st. The ledger must already hold
// exactly the identifiers the saved counters account for.
func Open(ctx context.Context, st store.Store, ledger issuance.Ledger, treasury issuance.Treasury, opts ...Option) (*Collection, error) {
	if st == nil {
		return nil, fmt.Errorf("%w: store", ErrNilParam)
	}
	o := buildOptions(opts)
	o.store = st

	s, err := st.Load()
	if err != nil {
		return nil, err
	}
	if ledger == nil {
		return nil, fmt.Errorf("%w: ledger", ErrNilParam)
	}
	issued, err := ledger.TotalIssued(ctx)
	if err != nil {
		return nil, fmt.Errorf("collection: ledger total: %w", err)
	}
	if issued != s.Counters.TotalMinted {
		return nil, fmt.Errorf("%w: ledger holds %d, state minted %d", ErrLedgerMismatch, issued, s.Counters.TotalMinted)
	}

	ac := access.Restore(s.Access)
	auth := allowlist.NewAuthenticator(s.CollectionID, ac, allowlist.RestoreRegistry(s.UsedIndices, s.MinimumIndex))
	issuer, err := issuance.Restore(ac, auth, ledger, treasury, s.Params, s.Counters)
	if err != nil {
		return nil, err
	}
	engine, err := reveal.Restore(issuer, o.entropy, s.Reveal)
	if err != nil {
		return nil, err
	}

	c := assemble(o, issuer, engine, ac, auth, ledger)
	c.name = s.Name
	c.baseURI = s.BaseURI
	c.baseImageURI = s.BaseImageURI
	c.preRevealURI = s.PreRevealURI
	c.metrics.SetBatchesRevealed(engine.CurrentBatch())

	c.log.Info("collection opened",
		zap.String("name", c.name),
		zap.Uint64("total_minted", issuer.TotalMinted()),
		zap.Uint64("revealed_batches", engine.CurrentBatch()))
	return c, nil
}

func assemble(o options, issuer *issuance.Issuer, engine *reveal.Engine, ac *access.Controller, auth *allowlist.Authenticator, ledger issuance.Ledger) *Collection {
	return &Collection{
		access:  ac,
		auth:    auth,
		issuer:  issuer,
		engine:  engine,
		ledger:  ledger,
		log:     o.logger,
		metrics: o.metrics,
		store:   o.store,
		sink:    o.sink,
		now:     o.now,
	}
}

// State returns the full persisted form of the collection.
func (c *Collection) State() *store.State {
	return &store.State{
		Version:      store.StateVersion,
		Name:         c.name,
		CollectionID: c.auth.CollectionID(),
		Access:       c.access.Snapshot(),
		Params:       c.issuer.Params(),
		Counters:     c.issuer.Counters(),
		BaseURI:      c.baseURI,
		BaseImageURI: c.baseImageURI,
		PreRevealURI: c.preRevealURI,
		MinimumIndex: c.auth.Registry().MinimumIndex(),
		UsedIndices:  c.auth.Registry().UsedIndices(),
		Reveal:       c.engine.State(),
	}
}

func (c *Collection) save() error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Save(c.State()); err != nil {
		c.log.Error("persist failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// idle fails with issuance.ErrReentrant while a mint or withdraw is in
// flight. Every mutating call outside the issuance guard checks it first, so
// nothing a ledger or treasury hook does can outlive a call that rolls back.
func (c *Collection) idle(op string, caller access.Address) error {
	if c.depth > 0 {
		return c.reject(op, caller, fmt.Errorf("%w: %s during a guarded call", issuance.ErrReentrant, op))
	}
	return nil
}

// guarded runs a mint or withdraw call and saves once it succeeds.
func (c *Collection) guarded(fn func() error) error {
	c.depth++
	err := fn()
	c.depth--
	if err != nil || c.depth > 0 {
		return err
	}
	return c.save()
}

func (c *Collection) emit(e Event) {
	e.Timestamp = c.now()
	if c.sink != nil {
		c.sink.Publish(e)
	}
}

// reject logs and counts a failed call and returns err unchanged.
func (c *Collection) reject(op string, caller access.Address, err error) error {
	reason := rejectionReason(err)
	c.metrics.IncrementRejection(reason)
	c.log.Debug("rejected",
		zap.String("op", op),
		zap.Stringer("caller", caller),
		zap.String("reason", reason),
		zap.Error(err))
	return err
}

var rejectionReasons = []struct {
	err    error
	reason string
}{
	{access.ErrUnauthorized, "unauthorized"},
	{access.ErrPhaseInactive, "phase_inactive"},
	{access.ErrFrozen, "frozen"},
	{access.ErrZeroAddress, "zero_address"},
	{allowlist.ErrInvalidSignature, "invalid_signature"},
	{allowlist.ErrIndexAlreadyUsed, "index_already_used"},
	{allowlist.ErrIndexBelowMinimum, "index_below_minimum"},
	{issuance.ErrReentrant, "reentrant"},
	{issuance.ErrExceedsMaxQuantity, "exceeds_max_quantity"},
	{issuance.ErrExceedsSupply, "exceeds_supply"},
	{issuance.ErrExceedsOwnerLimit, "exceeds_owner_limit"},
	{issuance.ErrIncorrectPayment, "incorrect_payment"},
	{issuance.ErrZeroQuantity, "zero_quantity"},
	{issuance.ErrInvalidLimit, "invalid_limit"},
	{reveal.ErrNonSequentialBatch, "non_sequential_batch"},
	{reveal.ErrBatchNotMinted, "batch_not_minted"},
	{reveal.ErrRevealStarted, "reveal_started"},
	{reveal.ErrInvalidBatchSize, "invalid_batch_size"},
	{reveal.ErrEntropy, "entropy"},
	{ErrPersist, "persist"},
}

// rejectionReason maps an error to a metrics label.
func rejectionReason(err error) string {
	for _, r := range rejectionReasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "other"
}
