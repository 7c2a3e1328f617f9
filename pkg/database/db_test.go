package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	assert.False(t, ConfigFromEnv().Enabled())

	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/grocery?sslmode=disable")
	t.Setenv("DATABASE_TIMEZONE", "UTC")
	cfg := ConfigFromEnv()
	assert.True(t, cfg.Enabled())
	assert.Equal(t, "UTC", cfg.TimeZone)
}

func TestSessionSettings(t *testing.T) {
	assert.Empty(t, sessionSettings(Config{}))
	assert.Equal(t,
		[]string{"SET TIME ZONE 'Asia/Shanghai'", "SET client_encoding = 'UTF8'"},
		sessionSettings(Config{TimeZone: "Asia/Shanghai", ClientEncoding: "UTF8"}),
	)
	assert.Equal(t, []string{"SET TIME ZONE 'it''s'"}, sessionSettings(Config{TimeZone: "it's"}))
}

// fakeConn records statements executed on it.
type fakeConn struct {
	execs  []string
	closed bool
	fail   error
}

func (c *fakeConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("not supported")
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func (c *fakeConn) Begin() (driver.Tx, error) {
	return nil, errors.New("not supported")
}

func (c *fakeConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	if c.fail != nil {
		return nil, c.fail
	}
	c.execs = append(c.execs, query)
	return driver.RowsAffected(0), nil
}

type fakeConnector struct {
	conns []*fakeConn
	fail  error
}

func (f *fakeConnector) Connect(context.Context) (driver.Conn, error) {
	c := &fakeConn{fail: f.fail}
	f.conns = append(f.conns, c)
	return c, nil
}

func (f *fakeConnector) Driver() driver.Driver { return nil }

func TestSessionConnectorAppliesSettingsToEveryConnection(t *testing.T) {
	inner := &fakeConnector{}
	stmts := sessionSettings(Config{TimeZone: "UTC", ClientEncoding: "UTF8"})
	c := sessionConnector{Connector: inner, stmts: stmts}

	for i := 0; i < 3; i++ {
		_, err := c.Connect(context.Background())
		require.NoError(t, err)
	}
	require.Len(t, inner.conns, 3)
	for _, conn := range inner.conns {
		assert.Equal(t, stmts, conn.execs)
	}
}

func TestSessionConnectorClosesConnOnFailure(t *testing.T) {
	boom := errors.New("invalid value for parameter \"TimeZone\"")
	inner := &fakeConnector{fail: boom}
	c := sessionConnector{Connector: inner, stmts: sessionSettings(Config{TimeZone: "Mars/Olympus"})}

	conn, err := c.Connect(context.Background())
	assert.Nil(t, conn)
	assert.ErrorIs(t, err, boom)
	require.Len(t, inner.conns, 1)
	assert.True(t, inner.conns[0].closed)
}
