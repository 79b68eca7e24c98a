package oracle

import (
	"github.com/redbco/redb-dbdoc/internal/catalog"
)

func init() {
	// Register Oracle engine with the global registry
	catalog.Register(NewAdapter())
}
