package app

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/roster/internal/config"
	"github.com/five82/roster/internal/mirror"
	"github.com/five82/roster/internal/roster"
	"github.com/five82/roster/internal/sheets"
)

func testSession(t *testing.T, cfg config.Config) *session {
	t.Helper()
	sess, err := newSession(cfg, zerolog.Nop())
	require.NoError(t, err)
	return sess
}

func TestNewSession_SimulatesWritesWithoutEndpoint(t *testing.T) {
	sess := testSession(t, config.Default())

	assert.True(t, sess.simulated)
	assert.Equal(t, testSheetID, sess.poller.Source().SpreadsheetID)
	assert.Equal(t, roster.Sample(), sess.writer.WorkingSet().Records())
	assert.False(t, sess.store.Snapshot().Connected)
}

func TestNewSession_WriteEndpoint(t *testing.T) {
	cfg := config.Default()
	cfg.WriteURL = "https://script.google.com/macros/s/abc/exec"
	sess := testSession(t, cfg)
	assert.False(t, sess.simulated)

	cfg.WriteURL = "ftp://example.com/exec"
	_, err := newSession(cfg, zerolog.Nop())
	require.Error(t, err)
}

func TestNewSession_InvalidSheetIsNotFatal(t *testing.T) {
	cfg := config.Default()
	cfg.SpreadsheetURL = "https://example.com/not-a-sheet"

	sess := testSession(t, cfg)
	require.ErrorIs(t, sess.poller.Source().Validate(), sheets.ErrInvalidSource)
}

func TestSession_ReconcileFollowsGenerations(t *testing.T) {
	sess := testSession(t, config.Default())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sess.reconcile(ctx)

	remote := []roster.Record{{ID: 1, Name: "Ana", Department: "Ops"}}
	sess.store.Publish(remote, "CSV", 1)
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(remote, sess.writer.WorkingSet().Records())
	}, time.Second, 5*time.Millisecond)

	// A local edit that never reached the sheet.
	require.True(t, sess.writer.Gate().Unlock(mirror.DefaultAccessCode))
	cancelled, stop := context.WithCancel(context.Background())
	stop()
	res := sess.writer.Apply(cancelled, mirror.ActionAdd, roster.Record{Name: "Ben"}, 0)
	require.Equal(t, mirror.PartialSuccess, res.Outcome)

	// Liveness-only updates keep it.
	sess.store.Touch("CSV", 2)
	assert.Never(t, func() bool {
		return sess.writer.WorkingSet().Len() != 2
	}, 100*time.Millisecond, 5*time.Millisecond)

	// New data replaces it.
	sess.store.Publish([]roster.Record{{ID: 1, Name: "Ana"}, {ID: 2, Name: "Cy"}, {ID: 3, Name: "Dee"}}, "CSV", 3)
	require.Eventually(t, func() bool {
		return sess.writer.WorkingSet().Len() == 3
	}, time.Second, 5*time.Millisecond)
}

func TestSession_ApplyConfigSwitchesSheet(t *testing.T) {
	sess := testSession(t, config.Default())

	cfg := config.Default()
	cfg.SpreadsheetURL = "https://docs.google.com/spreadsheets/d/2BKpCl_newSheetIdentifier1234567890/edit"
	cfg.SheetName = "Team B"
	sess.applyConfig(cfg)

	src := sess.poller.Source()
	assert.Equal(t, "2BKpCl_newSheetIdentifier1234567890", src.SpreadsheetID)
	assert.Equal(t, "Team B", src.SheetName)
}
