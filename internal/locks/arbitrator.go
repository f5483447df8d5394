package locks

import (
	"context"
	"fmt"

	"github.com/dynoinc/skyload/internal/database"
)

// BulkTx is the arbitration kind for bulk imports.
const BulkTx = "bulkTx"

// Arbitrator records which transactions storage servers may still act on.
// Servers check it before loading files on behalf of a transaction, so a
// cleaned up transaction cannot load files after the fact.
type Arbitrator struct {
	q database.Querier
}

func NewArbitrator(q database.Querier) *Arbitrator {
	return &Arbitrator{q: q}
}

// Start allows servers to load files for txID. Starting twice is a no-op.
func (a *Arbitrator) Start(ctx context.Context, kind, txID string) error {
	if err := a.q.UpsertArbitration(ctx, database.UpsertArbitrationParams{Kind: kind, TxID: txID, State: "STARTED"}); err != nil {
		return fmt.Errorf("starting arbitration %s/%s: %w", kind, txID, err)
	}
	return nil
}

// Cleanup forgets txID. Cleaning up an unknown transaction is a no-op.
func (a *Arbitrator) Cleanup(ctx context.Context, kind, txID string) error {
	if _, err := a.q.DeleteArbitrations(ctx, database.DeleteArbitrationsParams{Kind: kind, TxID: txID}); err != nil {
		return fmt.Errorf("cleaning up arbitration %s/%s: %w", kind, txID, err)
	}
	return nil
}
