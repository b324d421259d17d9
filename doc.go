// Package outreach implements a job distribution and delivery engine. Each
// cycle it allocates a daily pool of job leads fairly across eligible users,
// sharing jobs when supply is short, staggers per-pair send instructions
// onto a task queue and delivers one personalized outreach email per
// (user, job) pair with at-most-once semantics, enforced by a TTL pair lock
// and an append-only application ledger.
package outreach
