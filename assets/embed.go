// assets/embed.go
//
// Files compiled into the binary:
//   - catalog_3x3.yaml: the reference 3x3 piece catalog.
//   - sql/*.sql:        results-history migrations, applied in lexical order.
package assets

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed catalog_3x3.yaml sql/*.sql
var FS embed.FS

// DefaultCatalog returns the raw YAML of the reference catalog.
func DefaultCatalog() ([]byte, error) {
	return FS.ReadFile("catalog_3x3.yaml")
}

// Migrations lists embedded migration files (sql/NNN_name.sql), sorted.
func Migrations() ([]string, error) {
	entries, err := fs.ReadDir(FS, "sql")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			continue
		}
		out = append(out, "sql/"+e.Name())
	}
	sort.Strings(out)
	return out, nil
}
