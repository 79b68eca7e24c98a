package mysql

import (
	"github.com/redbco/redb-dbdoc/internal/catalog"
)

func init() {
	// Register MySQL engine with the global registry
	catalog.Register(NewAdapter())
}
