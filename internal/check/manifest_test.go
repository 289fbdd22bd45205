package check

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/testis/internal/energy"
	"github.com/roach88/testis/internal/testutil"
)

func TestLoadCaseWithoutManifest(t *testing.T) {
	dir := testutil.PassingCase(t)

	c, err := LoadCase(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultCase(dir), c)
}

func TestLoadCaseYAMLManifest(t *testing.T) {
	dir := testutil.PassingCase(t)
	testutil.WriteFiles(t, dir, map[string]string{
		ManifestYAML: `
name: ueg-rs1
description: "UEG, rs=1.0, 7 occupied and 26 virtual orbitals"
accuracy: 1e-6
reference: golden/correct.out.yaml
`,
	})

	c, err := LoadCase(dir)
	require.NoError(t, err)

	assert.Equal(t, "ueg-rs1", c.Name)
	assert.Equal(t, "UEG, rs=1.0, 7 occupied and 26 virtual orbitals", c.Description)
	assert.Equal(t, 1e-6, c.Accuracy)
	assert.Equal(t, "golden/correct.out.yaml", c.Reference)
	assert.Equal(t, DefaultOutput, c.Output)
	assert.Equal(t, DefaultActual, c.Actual)
	assert.Equal(t, DefaultDryRunKey, c.DryRunKey)
	assert.Equal(t, filepath.Join(dir, "golden", "correct.out.yaml"), c.Path(c.Reference))
}

func TestLoadCaseTOMLManifest(t *testing.T) {
	dir := testutil.PassingCase(t)
	testutil.WriteFiles(t, dir, map[string]string{
		ManifestTOML: `
name = "ueg-rs1"
accuracy = 1e-5
dry_run_key = "dryRun"
output = "cc4s.out"
`,
	})

	c, err := LoadCase(dir)
	require.NoError(t, err)

	assert.Equal(t, "ueg-rs1", c.Name)
	assert.Equal(t, 1e-5, c.Accuracy)
}

func TestLoadCaseIntegerAccuracy(t *testing.T) {
	dir := testutil.PassingCase(t)
	testutil.WriteFiles(t, dir, map[string]string{ManifestYAML: "accuracy: 1\n"})

	c, err := LoadCase(dir)
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Accuracy)
}

func TestLoadCaseEmptyManifest(t *testing.T) {
	dir := testutil.PassingCase(t)
	testutil.WriteFiles(t, dir, map[string]string{ManifestYAML: ""})

	c, err := LoadCase(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultCase(dir), c)
}

func TestLoadCaseInvalidManifest(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{"unknown field", ManifestYAML, "acuracy: 1e-7\n", "acuracy"},
		{"zero accuracy", ManifestYAML, "accuracy: 0\n", "invalid manifest"},
		{"negative accuracy", ManifestYAML, "accuracy: -1e-7\n", "invalid manifest"},
		{"accuracy as string", ManifestYAML, "accuracy: small\n", "invalid manifest"},
		{"empty path", ManifestYAML, "reference: \"\"\n", "invalid manifest"},
		{"malformed yaml", ManifestYAML, "name: [\n", "failed to parse manifest"},
		{"malformed toml", ManifestTOML, "name = \n", "failed to parse manifest"},
		{"unknown toml table", ManifestTOML, "[extra]\nkey = 1\n", "extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.PassingCase(t)
			testutil.WriteFiles(t, dir, map[string]string{tt.file: tt.content})

			_, err := LoadCase(dir)
			require.Error(t, err)

			var manifestErr *ManifestError
			require.True(t, errors.As(err, &manifestErr))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadCaseBothManifests(t *testing.T) {
	dir := testutil.PassingCase(t)
	testutil.WriteFiles(t, dir, map[string]string{
		ManifestYAML: "name: a\n",
		ManifestTOML: "name = \"b\"\n",
	})

	_, err := LoadCase(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keep one")
}

func TestLoadCaseManifestDrivesRun(t *testing.T) {
	dir := testutil.PassingCase(t)
	testutil.WriteFiles(t, dir, map[string]string{
		"cc4s.out.yaml": testutil.EnergyResults(testutil.Correlation+5e-7, testutil.Direct, testutil.Exchange),
	})

	c, err := LoadCase(dir)
	require.NoError(t, err)
	_, err = Run(context.Background(), c)
	var mismatch *energy.MismatchError
	require.True(t, errors.As(err, &mismatch))

	testutil.WriteFiles(t, dir, map[string]string{ManifestYAML: "accuracy: 1e-6\n"})
	c, err = LoadCase(dir)
	require.NoError(t, err)
	_, err = Run(context.Background(), c)
	assert.NoError(t, err)
}
