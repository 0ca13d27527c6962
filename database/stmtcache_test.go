package database

import (
	"database/sql"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStmtCache(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE t (v INTEGER)`)
	require.NoError(t, err)

	sc := NewStmtCache(db)
	assert.Equal(t, db, sc.DB())

	query := `INSERT INTO t (v) VALUES (?)`
	var wg sync.WaitGroup
	stmts := make([]*sql.Stmt, 8)
	for i := range stmts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stmt, err := sc.Prepare(query)
			assert.NoError(t, err)
			stmts[i] = stmt
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, sc.Len())
	for _, stmt := range stmts {
		assert.Same(t, stmts[0], stmt)
	}

	_, err = stmts[0].Exec(1)
	assert.NoError(t, err)

	_, err = sc.Prepare(`SELECT nothing FROM missing`)
	assert.Error(t, err)
	assert.Equal(t, 1, sc.Len())

	sc.Clear()
	assert.Equal(t, 0, sc.Len())
}
