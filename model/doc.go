// Package model contains the record types exchanged between the allocator,
// scheduler and send workers: user and job snapshots, the ephemeral
// assignment produced by a distribution cycle, the send instruction carried
// by the broker and the append-only application ledger row.
//
// User and Job are snapshots of externally owned records; the engine never
// mutates them in place. Everything that must survive a crash lives in the
// ledger or on the broker, not in this package.
package model
