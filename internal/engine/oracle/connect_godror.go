//go:build oracle

package oracle

import (
	"context"
	"database/sql"
	"strings"

	"github.com/godror/godror"

	"github.com/redbco/redb-dbdoc/internal/adapter"
	"github.com/redbco/redb-dbdoc/internal/engine/sqlconn"
	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
)

// DPI-1047 is ODPI-C failing to load the Oracle client library.
const missingClient = "DPI-1047"

func connect(ctx context.Context, config adapter.ConnectionConfig) (adapter.Connection, error) {
	var P godror.ConnectionParams
	P.Username = config.Username
	P.Password = godror.NewPassword(config.Password)
	P.ConnectString = ConnectString(config)

	db := sql.OpenDB(godror.NewConnector(P))
	conn, err := sqlconn.Attach(ctx, dbcapabilities.Oracle, db, config)
	if err != nil {
		if strings.Contains(err.Error(), missingClient) {
			return nil, adapter.NewDependencyError(dbcapabilities.Oracle, "Oracle Instant Client", Remediation, err)
		}
		return nil, err
	}
	return conn, nil
}
