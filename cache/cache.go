/*
Package cache provides result caching for computed payoff plans.

PURPOSE:
  The scheduling engine is pure and deterministic, so a plan result is
  fully determined by its input fingerprint. That makes results safely
  cacheable: identical requests can skip the simulation entirely.

IMPLEMENTATIONS:
  - Memory: process-local map, used in tests and single-node deployments
  - Redis:  shared cache for multi-node deployments

  Values are opaque serialized strings; the plan service decides the
  encoding (JSON) and the key (input fingerprint).

SEE ALSO:
  - plan/fingerprint.go: Deterministic cache keys
*/
package cache

import "context"

// Cache stores serialized plan results keyed by input fingerprint.
// A miss is (_, false); implementations never surface transient backend
// errors on reads - a failed read is just a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
}
