package ledger

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/testis/internal/check"
	"github.com/roach88/testis/internal/energy"
	"github.com/roach88/testis/internal/testutil"
)

// createTestLedger opens a ledger in a temp dir with deterministic IDs and time.
func createTestLedger(t *testing.T) *Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	l, err := Open(path,
		WithIDGenerator(testutil.NewSequentialIDGenerator("")),
		WithClock(testutil.NewDeterministicClock()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func runCase(t *testing.T, dir string) *check.Result {
	t.Helper()
	result, _ := check.Run(context.Background(), check.DefaultCase(dir))
	require.NotNil(t, result)
	return result
}

func TestOpenIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	l1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l1.Close())

	l2, err := Open(path)
	require.NoError(t, err)
	defer l2.Close()

	version, err := l2.schemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpenInMemory(t *testing.T) {
	l, err := Open(":memory:")
	require.NoError(t, err)
	defer l.Close()

	runs, err := l.History(context.Background(), "", 0)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestDefaultIDsAreUUIDv7(t *testing.T) {
	l, err := Open(":memory:")
	require.NoError(t, err)
	defer l.Close()

	run, err := l.RecordRun(context.Background(), runCase(t, testutil.PassingCase(t)))
	require.NoError(t, err)

	parsed, err := uuid.Parse(run.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestRecordPassingRun(t *testing.T) {
	l := createTestLedger(t)
	ctx := context.Background()
	result := runCase(t, testutil.PassingCase(t))

	run, err := l.RecordRun(ctx, result)
	require.NoError(t, err)

	assert.Equal(t, "run-0001", run.ID)
	assert.Equal(t, int64(1), run.Seq)
	assert.True(t, run.Pass)
	assert.Equal(t, testutil.Epoch, run.RecordedAt)
	require.NotNil(t, run.MaxDeviation)
	assert.Equal(t, 0.0, *run.MaxDeviation)

	runs, err := l.History(ctx, "rs1.0-7occ-26virt", 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run, runs[0])

	deltas, err := l.Deltas(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, deltas, 3)
	assert.Equal(t, "steps.1.out.energy.correlation", deltas[0].Key)
	assert.Equal(t, energy.StatusOK, deltas[0].Status)
	require.NotNil(t, deltas[0].Reference)
	assert.Equal(t, testutil.Correlation, *deltas[0].Reference)
}

func TestRecordDryRun(t *testing.T) {
	l := createTestLedger(t)
	ctx := context.Background()
	dir := testutil.PassingCase(t)
	testutil.WriteFiles(t, dir, map[string]string{"cc4s.out": testutil.RunSummary(1)})

	run, err := l.RecordRun(ctx, runCase(t, dir))
	require.NoError(t, err)

	assert.False(t, run.Pass)
	assert.Equal(t, string(check.KindDryRun), run.Kind)
	assert.Equal(t, "We should not be doing dryRuns now", run.Message)
	assert.Nil(t, run.MaxDeviation)

	deltas, err := l.Deltas(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, deltas)
}

func TestRecordMismatchKeepsMissingEntries(t *testing.T) {
	l := createTestLedger(t)
	ctx := context.Background()
	dir := testutil.PassingCase(t)
	testutil.WriteFiles(t, dir, map[string]string{
		"cc4s.out.yaml": `steps:
  - name: CoupledCluster
    out:
      energy:
        correlation: -0.1
`,
	})

	run, err := l.RecordRun(ctx, runCase(t, dir))
	require.NoError(t, err)
	assert.Equal(t, string(check.KindEnergy), run.Kind)

	deltas, err := l.Deltas(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, deltas, 4)

	byKey := map[string]Delta{}
	for _, d := range deltas {
		byKey[d.Key] = d
	}
	missing := byKey["steps.1.out.energy.direct"]
	assert.Equal(t, energy.StatusMissingActual, missing.Status)
	assert.Nil(t, missing.Actual)
	assert.Nil(t, missing.Deviation)

	extra := byKey["steps.0.out.energy.correlation"]
	assert.Equal(t, energy.StatusMissingReference, extra.Status)
	assert.Nil(t, extra.Reference)
}

func TestRecordNonFiniteEnergiesAsNull(t *testing.T) {
	ctx := context.Background()
	l := createTestLedger(t)

	inf := math.Inf(1)
	result := &check.Result{
		Case: check.DefaultCase(t.TempDir()),
		Kind: check.KindEnergy,
		Energy: &energy.Report{
			Accuracy: energy.DefaultAccuracy,
			Entries: []energy.Entry{
				{Key: "energy.total", Reference: &inf, Actual: &inf, Status: energy.StatusMismatch},
			},
		},
	}

	run, err := l.RecordRun(ctx, result)
	require.NoError(t, err)

	deltas, err := l.Deltas(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Nil(t, deltas[0].Reference)
	assert.Nil(t, deltas[0].Actual)
	assert.Nil(t, deltas[0].Deviation)
	assert.Equal(t, energy.StatusMismatch, deltas[0].Status)
}

func TestHistoryOrderingAndLimit(t *testing.T) {
	l := createTestLedger(t)
	ctx := context.Background()
	dir := testutil.PassingCase(t)

	for i := 0; i < 3; i++ {
		_, err := l.RecordRun(ctx, runCase(t, dir))
		require.NoError(t, err)
	}

	runs, err := l.History(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-0003", runs[0].ID)
	assert.Equal(t, "run-0001", runs[2].ID)

	limited, err := l.History(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "run-0003", limited[0].ID)

	other, err := l.History(ctx, "some-other-case", 0)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRepeatedRunsHaveIdenticalVerdicts(t *testing.T) {
	l := createTestLedger(t)
	ctx := context.Background()
	dir := testutil.PassingCase(t)

	first, err := l.RecordRun(ctx, runCase(t, dir))
	require.NoError(t, err)
	second, err := l.RecordRun(ctx, runCase(t, dir))
	require.NoError(t, err)

	assert.Equal(t, first.Pass, second.Pass)
	assert.Equal(t, first.OutputDigest, second.OutputDigest)
	assert.Equal(t, first.ReferenceDigest, second.ReferenceDigest)
	assert.Equal(t, first.ActualDigest, second.ActualDigest)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRecordRunNil(t *testing.T) {
	l := createTestLedger(t)

	_, err := l.RecordRun(context.Background(), nil)
	assert.Error(t, err)
}
