package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func changeDomainFlags() []string {
	return []string{
		"apply", "--action", "ChangeDomain", "-m", "TEST",
		"--element-definition", "testElementDefinition",
		"--parameters", "testParameter,testParameter2,P_mean",
		"--domain", "testDomain", "--to-domain", "testDomain2",
	}
}

func TestApplyChangeDomain(t *testing.T) {
	w := newWorkspace(t)
	f := w.withFixture(t)

	out, stderr, code := w.exec(t, changeDomainFlags()...)
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, out, "10 transactions built")
	assert.Contains(t, out, "10 committed, 0 failed, 0 skipped")

	snap := w.load(t, "TEST")
	ed, err := snap.Iteration.ElementDefinition(f.TestElementDefinition.ID)
	require.NoError(t, err)
	assert.Equal(t, f.Domain2.ID, ed.Owner)
	p, err := snap.Iteration.Parameter(f.TestParameter.ID)
	require.NoError(t, err)
	assert.Equal(t, f.Domain2.ID, p.Owner)
	p, err = snap.Iteration.Parameter(f.Color.ID)
	require.NoError(t, err)
	assert.Equal(t, f.Domain.ID, p.Owner, "unlisted parameter keeps its owner")

	out, stderr, code = w.exec(t, changeDomainFlags()...)
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, out, "no changes")
}

func TestApplyDryRun(t *testing.T) {
	w := newWorkspace(t)
	f := w.withFixture(t)

	out, stderr, code := w.exec(t, append(changeDomainFlags(), "--dry-run")...)
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, out, "10 transactions built")
	assert.Contains(t, out, "dry run: nothing committed")

	snap := w.load(t, "TEST")
	ed, err := snap.Iteration.ElementDefinition(f.TestElementDefinition.ID)
	require.NoError(t, err)
	assert.Equal(t, f.Domain.ID, ed.Owner)
}

func TestApplyJSON(t *testing.T) {
	w := newWorkspace(t)
	f := w.withFixture(t)

	out, stderr, code := w.exec(t, "apply", "--action", "setscale", "-m", "TEST",
		"--scale", "km", "--parameters", "l",
		"--element-definition", "testElementDefinition2", "--domain", "testDomain", "--json")
	require.Equal(t, exitSuccess, code, stderr)

	var res applyResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "SetScale", res.Action)
	assert.Equal(t, "TEST", res.Model)
	assert.Equal(t, "built", res.State)
	assert.Equal(t, 1, res.Transactions)
	require.NotNil(t, res.Commit)
	assert.Equal(t, 1, res.Commit.Committed)

	p, err := w.load(t, "TEST").Iteration.Parameter(f.Length.ID)
	require.NoError(t, err)
	assert.Equal(t, f.KilometerScale.ID, p.Scale)
}

func TestApplyAborted(t *testing.T) {
	tests := []struct {
		name  string
		flags []string
	}{
		{
			name:  "unresolved scale",
			flags: []string{"apply", "--action", "SetScale", "-m", "TEST", "--scale", "kmBad",
				"--parameters", "l", "--element-definition", "testElementDefinition2", "--domain", "testDomain"},
		},
		{
			name:  "invalid where predicate",
			flags: append(changeDomainFlags(), "--where", "shortName =="),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorkspace(t)
			w.withFixture(t)

			out, stderr, code := w.exec(t, tt.flags...)
			require.Equal(t, exitSuccess, code, stderr)
			assert.Contains(t, out, "no changes: ")
			assert.Contains(t, stderr, "command aborted")
		})
	}
}

func TestApplyUserErrors(t *testing.T) {
	tests := []struct {
		name  string
		flags []string
		want  string
	}{
		{name: "missing action", flags: []string{"apply", "-m", "TEST"}, want: "action"},
		{name: "unknown action", flags: []string{"apply", "--action", "Explode", "-m", "TEST"}, want: "Explode"},
		{name: "missing model", flags: []string{"apply", "--action", "ChangeDomain"}, want: "model"},
		{name: "invalid model", flags: []string{"apply", "--action", "ChangeDomain", "-m", "../TEST"}, want: "../TEST"},
		{
			name:  "invalid value switch",
			flags: []string{"apply", "--action", "SetSubscriptionSwitch", "-m", "TEST", "--value-switch", "SOMETIMES"},
			want:  "SOMETIMES",
		},
		{name: "unknown flag", flags: []string{"apply", "--bogus"}, want: "bogus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorkspace(t)
			_, stderr, code := w.exec(t, tt.flags...)
			assert.Equal(t, exitUserError, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestApplyArchiveFS(t *testing.T) {
	w := newWorkspace(t)
	w.withFixture(t)

	out, stderr, code := w.exec(t, append(changeDomainFlags(), "--archive", "fs")...)
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, out, "archived as TEST/")

	files, err := filepath.Glob(filepath.Join(w.dataDir, "archive", "TEST", "*-ChangeDomain.jsonl"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestApplyArchiveFailureIsSystemError(t *testing.T) {
	w := newWorkspace(t)
	w.withFixture(t)
	t.Setenv("BATCHEDIT_ARCHIVE_S3_BUCKET", "")

	out, stderr, code := w.exec(t, append(changeDomainFlags(), "--archive", "s3")...)
	assert.Equal(t, exitSysError, code)
	assert.Contains(t, stderr, "s3 bucket required")
	assert.Contains(t, out, "10 committed", "commit happens before archiving")
}

func TestApplyUsesConfig(t *testing.T) {
	w := newWorkspace(t)
	f := w.withFixture(t)
	metricsFile := filepath.Join(t.TempDir(), "batchedit.prom")
	w.writeConfig(t, `model: TEST
metrics_file: `+metricsFile+`
generic_owners:
  - parameter_type: P_on
    domain: THE
`)

	out, stderr, code := w.exec(t, "apply", "--action", "SetGenericOwners",
		"--element-definition", "testElementDefinition4", "--domain", "testDomain")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, out, "1 transactions built")

	snap := w.load(t, "TEST")
	p, err := snap.Iteration.Parameter(f.Parameter7.ID)
	require.NoError(t, err)
	assert.Equal(t, f.THE.ID, p.Owner)
	p, err = snap.Iteration.Parameter(f.Parameter5.ID)
	require.NoError(t, err)
	assert.Equal(t, f.Domain.ID, p.Owner, "types missing from the table are left alone")

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `batchedit_commands_total{action="SetGenericOwners",state="built"} 1`)
	assert.Contains(t, string(data), `batchedit_commit_transactions_total{status="committed"} 1`)
}
