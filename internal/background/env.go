package background

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dynoinc/skyload/internal/bulk"
	"github.com/dynoinc/skyload/internal/database"
	"github.com/dynoinc/skyload/internal/locks"
	"github.com/dynoinc/skyload/internal/naming"
	"github.com/dynoinc/skyload/internal/tables"
	"github.com/dynoinc/skyload/internal/tablets"
)

// NewEnv wires the Postgres-backed collaborators of the bulk import steps.
func NewEnv(cfg bulk.Config, db *pgxpool.Pool, tableCache *tables.Cache, fs bulk.FS, servers bulk.Servers) (*bulk.Env, error) {
	q := database.New(db)

	namer, err := naming.New(cfg.Naming, q)
	if err != nil {
		return nil, fmt.Errorf("creating name allocator: %w", err)
	}

	return &bulk.Env{
		Config:       cfg,
		Locks:        locks.NewTableLocks(db),
		Reservations: locks.NewReservations(q),
		Arbitrator:   locks.NewArbitrator(q),
		Servers:      servers,
		Tables:       tableCache,
		Tablets:      tablets.NewStore(db),
		Namer:        namer,
		FS:           fs,
	}, nil
}
