package postgres

import (
	"github.com/redbco/redb-dbdoc/internal/catalog"
)

func init() {
	// Register PostgreSQL engine with the global registry
	catalog.Register(NewAdapter())
}
