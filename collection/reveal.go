package collection

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bitfsorg/libmint-go/access"
	"github.com/bitfsorg/libmint-go/reveal"
)

// SetBatchOffset reveals batch b.
func (c *Collection) SetBatchOffset(ctx context.Context, caller access.Address, b uint64) (*reveal.Reveal, error) {
	if err := c.idle("set_batch_offset", caller); err != nil {
		return nil, err
	}
	if err := c.access.RequireOperator(caller); err != nil {
		return nil, c.reject("set_batch_offset", caller, err)
	}
	r, err := c.engine.SetBatchOffset(ctx, b)
	if err != nil {
		return nil, c.reject("set_batch_offset", caller, err)
	}
	c.metrics.SetBatchesRevealed(r.Batch)
	c.log.Info("batch revealed",
		zap.Uint64("batch", r.Batch),
		zap.Uint64("within", r.Offset.Within),
		zap.Uint64("overall", r.Offset.Overall))
	c.emit(Event{Kind: EventBatchRevealed, Actor: caller, Reveal: r})
	if err := c.save(); err != nil {
		return nil, err
	}
	return r, nil
}

// ShuffledID returns the display identifier of id.
func (c *Collection) ShuffledID(id uint64) (uint64, error) {
	return c.engine.ShuffledID(id)
}

// ResolveMetadata returns the metadata URI of a minted identifier.
func (c *Collection) ResolveMetadata(ctx context.Context, id uint64) (string, error) {
	if _, err := c.ledger.OwnerOf(ctx, id); err != nil {
		if errors.Is(err, reveal.ErrNonexistentToken) {
			return "", err
		}
		return "", fmt.Errorf("%w: %d: %w", reveal.ErrNonexistentToken, id, err)
	}
	return c.engine.TokenURI(id, c.baseURI, c.preRevealURI)
}

// Verify checks that the fully revealed mapping is a bijection.
func (c *Collection) Verify() error {
	return c.engine.Verify()
}

// Offset returns the stored pair for batch b.
func (c *Collection) Offset(b uint64) reveal.Offset { return c.engine.Offset(b) }

// CurrentBatch returns the last revealed batch.
func (c *Collection) CurrentBatch() uint64 { return c.engine.CurrentBatch() }

// Batches returns the number of reveal batches.
func (c *Collection) Batches() uint64 { return c.engine.Batches() }
