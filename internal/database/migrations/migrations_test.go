package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS(), "sql")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Fatalf("unexpected file in migrations: %s", name)
		}
	}
	require.Equal(t, ups, downs)
}

func TestInitSchemaProtectsBuyerAndSeller(t *testing.T) {
	b, err := fs.ReadFile(migrationsFS(), "sql/000001_init_schema.up.sql")
	require.NoError(t, err)
	schema := string(b)

	require.Contains(t, schema, "buyer_id    BIGINT           REFERENCES users (id) ON DELETE RESTRICT")
	require.Contains(t, schema, "seller_id   BIGINT           REFERENCES users (id) ON DELETE RESTRICT")
	require.Contains(t, schema, "username      VARCHAR(150) NOT NULL UNIQUE")
}

func migrationsFS() fs.FS { return migrationFiles }
