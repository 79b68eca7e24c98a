// Package oracle documents Oracle catalogs. The godror driver needs cgo and
// Oracle Instant Client, so it is only compiled in with the "oracle" build
// tag; other builds report a missing dependency on connect.
package oracle

import (
	"context"
	"net"
	"net/url"
	"strconv"

	"github.com/redbco/redb-dbdoc/internal/adapter"
	"github.com/redbco/redb-dbdoc/internal/catalog"
	"github.com/redbco/redb-dbdoc/pkg/dbcapabilities"
)

// Remediation is shown whenever the Oracle client stack is unavailable.
const Remediation = "Rebuild dbdoc with `-tags oracle` and install Oracle Instant Client"

// Adapter implements catalog.Engine for Oracle.
type Adapter struct{}

// NewAdapter creates a new Oracle adapter.
func NewAdapter() catalog.Engine {
	return &Adapter{}
}

// Type returns the database type identifier.
func (a *Adapter) Type() dbcapabilities.DatabaseID {
	return dbcapabilities.Oracle
}

// Capabilities returns the capabilities metadata for Oracle.
func (a *Adapter) Capabilities() dbcapabilities.Capability {
	return dbcapabilities.MustGet(dbcapabilities.Oracle)
}

// Queries returns the Oracle catalog query set.
func (a *Adapter) Queries() catalog.QuerySet {
	return querySet
}

// ConnectString builds an Easy Connect string host:port/service. Parameters
// are appended in Easy Connect Plus form.
func ConnectString(config adapter.ConnectionConfig) string {
	s := net.JoinHostPort(config.Host, strconv.Itoa(config.Port)) + "/" + config.DatabaseName
	if len(config.Parameters) > 0 {
		q := url.Values{}
		for k, v := range config.Parameters {
			q.Set(k, v)
		}
		s += "?" + q.Encode()
	}
	return s
}

// Connect establishes a connection to an Oracle database.
func (a *Adapter) Connect(ctx context.Context, config adapter.ConnectionConfig) (adapter.Connection, error) {
	if err := config.Validate(dbcapabilities.Oracle); err != nil {
		return nil, err
	}
	return connect(ctx, config)
}
