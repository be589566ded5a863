package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daydots/internal/markers"
)

func TestDoctorCmdHealthy(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, &DoctorCmd{})
	assert.Contains(t, out, "✓ Database reachable: OK")
	assert.Contains(t, out, "✓ Schema version: OK")
	assert.Contains(t, out, "⚠ Backups present: WARNING")
	assert.Contains(t, out, "✓ Journal entries: OK")
	assert.Contains(t, out, "✓ Marker cache: OK")
	assert.Contains(t, out, "All diagnostics passed!")
}

func TestDoctorCmdUnreachableDatabase(t *testing.T) {
	f := newUninitializedFixture(t)

	err := (&DoctorCmd{}).Run(f.ctx)
	require.Error(t, err)

	out := f.out.String()
	assert.Contains(t, out, "❌ Database reachable: FAIL")
	assert.Contains(t, out, "⊘ Schema version: SKIPPED")
	assert.Contains(t, out, "⊘ Journal entries: SKIPPED")
}

func TestDoctorCmdUnreadableMarkerSnapshot(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctx.Cache.Write(markers.Key(2024), []byte("{not json")))

	err := (&DoctorCmd{}).Run(f.ctx)
	require.Error(t, err)
	assert.Contains(t, f.out.String(), "❌ Marker cache: FAIL")
}

func TestDoctorCmdWithBackup(t *testing.T) {
	f := newFixture(t)
	f.run(t, &BackupCreateCmd{})

	out := f.run(t, &DoctorCmd{})
	assert.Contains(t, out, "✓ Backups present: OK")
	assert.False(t, strings.Contains(out, "FAIL"))
}
