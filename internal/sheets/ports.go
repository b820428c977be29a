// Package sheets defines the export port: where logged costs get appended
// for out-of-band analysis.
package sheets

import (
	"context"

	"costbot/internal/core"
)

// CostAppender appends one cost row to an external sheet and returns an
// opaque row reference.
type CostAppender interface {
	Append(ctx context.Context, account core.Account, category core.Category, entry core.CostEntry) (rowRef string, err error)
}
