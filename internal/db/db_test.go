// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	logger, _ := test.NewNullLogger()
	d, err := Open(MemoryPath, logrus.NewEntry(logger))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func mustRun(t *testing.T, d *DB, stmt string) *Result {
	t.Helper()
	res, err := d.Run(context.Background(), stmt)
	require.NoError(t, err, stmt)
	return res
}

func TestRun_QueryAndExec(t *testing.T) {
	d := openMemory(t)

	res := mustRun(t, d, "create table t(a integer, b text, c real, d blob)")
	assert.False(t, res.HasRows())

	res = mustRun(t, d, "insert into t values (1, 'one', 1.5, x'6869'), (2, null, 2, null);")
	assert.Equal(t, int64(2), res.RowsAffected)

	res = mustRun(t, d, "select a, b, c, d from t order by a;")
	require.True(t, res.HasRows())
	assert.Equal(t, []string{"a", "b", "c", "d"}, res.Columns)
	assert.Equal(t, [][]Cell{
		{{Text: "1"}, {Text: "one"}, {Text: "1.5"}, {Text: "hi"}},
		{{Text: "2"}, {Null: true}, {Text: "2"}, {Null: true}},
	}, res.Rows)
}

func TestRun_EmptyResultKeepsColumns(t *testing.T) {
	d := openMemory(t)
	mustRun(t, d, "create table t(a)")

	res := mustRun(t, d, "select a from t")
	assert.True(t, res.HasRows())
	assert.Equal(t, []string{"a"}, res.Columns)
	assert.Empty(t, res.Rows)
}

func TestRun_Returning(t *testing.T) {
	d := openMemory(t)
	mustRun(t, d, "create table t(id integer primary key, v text)")

	res := mustRun(t, d, "insert into t(v) values ('x') returning id")
	require.True(t, res.HasRows())
	assert.Equal(t, [][]Cell{{{Text: "1"}}}, res.Rows)
}

func TestRun_EmptyStatement(t *testing.T) {
	d := openMemory(t)
	for _, stmt := range []string{"", "  ", ";"} {
		res := mustRun(t, d, stmt)
		assert.False(t, res.HasRows())
	}
}

func TestRun_SyntaxError(t *testing.T) {
	d := openMemory(t)
	_, err := d.Run(context.Background(), "selec 1")
	assert.Error(t, err)
}

func TestReturnsRows(t *testing.T) {
	tests := []struct {
		stmt string
		want bool
	}{
		{"select 1", true},
		{"  SELECT 1", true},
		{"with x as (select 1) select * from x", true},
		{"pragma table_info(t)", true},
		{"values (1)", true},
		{"explain select 1", true},
		{"insert into t values (1)", false},
		{"delete from t returning *", true},
		{"create table t(a)", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, returnsRows(tt.stmt), tt.stmt)
	}
}

func TestTablesAndIndexes(t *testing.T) {
	d := openMemory(t)
	ctx := context.Background()
	mustRun(t, d, "create table users(id integer primary key, email text unique)")
	mustRun(t, d, "create table orders(id integer, user_id integer)")
	mustRun(t, d, "create index orders_user on orders(user_id)")
	mustRun(t, d, "create view active_users as select * from users")

	tables, err := d.Tables(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"active_users", "orders", "users"}, tables)

	tables, err = d.Tables(ctx, "u%")
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, tables)

	tables, err = d.Tables(ctx, "nothing%")
	require.NoError(t, err)
	assert.Empty(t, tables)

	indexes, err := d.Indexes(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders_user"}, indexes)

	indexes, err = d.Indexes(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, indexes, "orders_user")
	assert.Len(t, indexes, 2) // plus the automatic unique index on users.email
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.db")

	d, err := Open(path, nil)
	require.NoError(t, err)
	mustRun(t, d, "create table kept(a)")
	require.NoError(t, d.Close())

	d, err = Open(path, nil)
	require.NoError(t, err)
	defer d.Close()
	tables, err := d.Tables(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, tables)
	assert.Equal(t, path, d.Path())
}

func TestClosed(t *testing.T) {
	d := openMemory(t)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	_, err := d.Run(context.Background(), "select 1")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = d.Tables(context.Background(), "")
	assert.ErrorIs(t, err, ErrClosed)
}
