package styler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"cssc/misc"
	"cssc/props"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id      TEXT PRIMARY KEY,
	source  TEXT NOT NULL,
	created TEXT NOT NULL,
	version TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sheets (
	run_id   TEXT NOT NULL REFERENCES runs(id),
	seq      INTEGER NOT NULL,
	origin   TEXT NOT NULL,
	base     TEXT NOT NULL,
	rulesets INTEGER NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE TABLE IF NOT EXISTS nodes (
	run_id TEXT NOT NULL REFERENCES runs(id),
	seq    INTEGER NOT NULL,
	parent INTEGER,
	depth  INTEGER NOT NULL,
	name   TEXT NOT NULL,
	pseudo TEXT NOT NULL,
	path   TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE TABLE IF NOT EXISTS properties (
	run_id  TEXT NOT NULL,
	node    INTEGER NOT NULL,
	name    TEXT NOT NULL,
	grp     TEXT NOT NULL,
	value   TEXT NOT NULL,
	changed INTEGER NOT NULL,
	PRIMARY KEY (run_id, node, name),
	FOREIGN KEY (run_id, node) REFERENCES nodes(run_id, seq)
);
`

// WriteSQLite appends computed values of every entry to database file,
// creating it when necessary. Each call is a separate run and returns its
// identifier.
func (s *Styled) WriteSQLite(path, source string) (id string, err error) {
	runID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("unable to generate run id: %w", err)
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return "", fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close database: %w", cerr)
		}
	}()

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return "", fmt.Errorf("create schema: %w", err)
	}

	defer sqlitex.Save(conn)(&err)

	id = runID.String()
	if err = exec(conn, `INSERT INTO runs (id, source, created, version) VALUES (?, ?, ?, ?)`,
		id, source, time.Now().UTC().Format(time.RFC3339), misc.GetVersion()); err != nil {
		return "", err
	}
	for i, sheet := range s.Cascade.Sheets() {
		if err = exec(conn, `INSERT INTO sheets (run_id, seq, origin, base, rulesets) VALUES (?, ?, ?, ?, ?)`,
			id, i, sheet.Origin.String(), sheet.BaseURI, len(sheet.Rulesets)); err != nil {
			return "", err
		}
	}
	for i := range s.Entries {
		en := &s.Entries[i]
		var parent any
		if en.Parent >= 0 {
			parent = en.Parent
		}
		if err = exec(conn, `INSERT INTO nodes (run_id, seq, parent, depth, name, pseudo, path) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, i, parent, en.Depth, en.Element.Name, en.Pseudo.String(), en.Label()); err != nil {
			return "", err
		}
		_, changed := s.Changed(i)
		var perr error
		s.Box(i).Each(func(v *props.Value) {
			if perr != nil {
				return
			}
			diff := 0
			if _, ok := changed[v.ID.Name()]; ok {
				diff = 1
			}
			perr = exec(conn, `INSERT INTO properties (run_id, node, name, grp, value, changed) VALUES (?, ?, ?, ?, ?, ?)`,
				id, i, v.ID.Name(), v.ID.Group().String(), v.String(), diff)
		})
		if perr != nil {
			err = perr
			return "", err
		}
	}
	return id, nil
}

func exec(conn *sqlite.Conn, query string, args ...any) error {
	if err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{Args: args}); err != nil {
		return fmt.Errorf("%.40s: %w", query, err)
	}
	return nil
}
