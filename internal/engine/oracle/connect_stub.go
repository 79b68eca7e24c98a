//go:build !oracle

package oracle

import (
	"context"

	"github.com/redbco/redb-dbdoc/internal/adapter"
	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
)

func connect(_ context.Context, _ adapter.ConnectionConfig) (adapter.Connection, error) {
	return nil, adapter.NewDependencyError(dbcapabilities.Oracle, "Oracle driver", Remediation, nil)
}
