package badger

import (
	"github.com/poiesic/ector/core"
)

// Key prefixes for different data types
const (
	tableRefPrefix = "tblref"
)

// makeTableKey generates a key for a table by qualified name.
// Format: prefix:catalog.schema.table
func makeTableKey(ref core.TableRef) []byte {
	return []byte(tableRefPrefix + ":" + ref.String())
}

// makeSchemaPrefix generates a partial key matching every table of a schema.
// Format: prefix:catalog.schema.
func makeSchemaPrefix(catalog, schema string) []byte {
	return []byte(tableRefPrefix + ":" + catalog + "." + schema + ".")
}
