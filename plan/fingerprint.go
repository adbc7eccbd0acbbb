/*
fingerprint.go - Deterministic cache keys for plan requests

PURPOSE:
  The engine is pure: a schedule is fully determined by its input. The
  fingerprint canonicalizes a request into a SHA-256 hex digest so that
  identical requests share one cache entry and byte-identical results.

CANONICAL FORM:
  Field order is fixed; every amount is rendered through the decimal
  type's exact string form. Liability names are excluded - they do not
  influence the computation, only display.
*/
package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// Fingerprint returns the canonical SHA-256 digest of a plan request.
func Fingerprint(req Request) string {
	var b strings.Builder
	b.WriteString("v1|")
	b.WriteString(string(req.Strategy))
	b.WriteByte('|')
	b.WriteString(string(req.PaymentMode))
	b.WriteByte('|')
	b.WriteString(req.Surplus.String())
	b.WriteByte('|')
	b.WriteString(req.StartDate.UTC().Format(time.RFC3339))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(req.PeriodCap))
	for _, l := range req.Liabilities {
		b.WriteByte('|')
		b.WriteString(string(l.ID))
		b.WriteByte(':')
		b.WriteString(l.Balance.String())
		b.WriteByte(':')
		b.WriteString(l.APR.String())
		b.WriteByte(':')
		b.WriteString(l.MinimumPayment.String())
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
