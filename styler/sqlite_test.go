package styler

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"cssc/loader"
)

func queryInt(t *testing.T, conn *sqlite.Conn, query string, args ...any) int64 {
	t.Helper()
	var n int64
	err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			n = stmt.ColumnInt64(0)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("%s: %v", query, err)
	}
	return n
}

func TestStyled_WriteSQLite(t *testing.T) {
	_, doc := setupDocument(t)
	e, err := New(engineConfig(t), Options{DefaultStyle: loader.DefaultStylesheet(), Pseudo: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := e.Style(doc)

	db := filepath.Join(t.TempDir(), "styles.db")
	id1, err := s.WriteSQLite(db, doc.BaseURI)
	if err != nil {
		t.Fatalf("WriteSQLite() error = %v", err)
	}
	id2, err := s.WriteSQLite(db, doc.BaseURI)
	if err != nil {
		t.Fatalf("second WriteSQLite() error = %v", err)
	}
	if id1 == id2 {
		t.Error("runs share identifier")
	}
	if u, err := uuid.Parse(id1); err != nil || u.Version() != 7 {
		t.Errorf("run id %q is not UUIDv7: %v", id1, err)
	}

	conn, err := sqlite.OpenConn(db, sqlite.OpenReadOnly)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if n := queryInt(t, conn, `SELECT count(*) FROM runs`); n != 2 {
		t.Errorf("runs = %d, want 2", n)
	}
	if n := queryInt(t, conn, `SELECT count(*) FROM nodes WHERE run_id = ?`, id1); n != int64(len(s.Entries)) {
		t.Errorf("nodes = %d, want %d", n, len(s.Entries))
	}
	if n := queryInt(t, conn, `SELECT count(*) FROM sheets WHERE run_id = ?`, id2); n != 3 {
		t.Errorf("sheets = %d, want 3", n)
	}
	if n := queryInt(t, conn, `SELECT count(*) FROM properties WHERE run_id = ? AND node = 0`, id1); n == 0 {
		t.Error("root has no properties")
	}

	var color string
	err = sqlitex.Execute(conn,
		`SELECT p.value FROM properties p JOIN nodes n ON n.run_id = p.run_id AND n.seq = p.node
		 WHERE p.run_id = ? AND n.path = 'html/body/p' AND p.name = 'color' AND p.changed = 1`,
		&sqlitex.ExecOptions{
			Args: []any{id1},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				color = stmt.ColumnText(0)
				return nil
			},
		})
	if err != nil {
		t.Fatal(err)
	}
	if color != "#00ff00" {
		t.Errorf("stored color = %q", color)
	}
}
