package mssql

import (
	"github.com/redbco/redb-dbdoc/internal/catalog"
)

func init() {
	// Register SQL Server engine with the global registry
	catalog.Register(NewAdapter())
}
