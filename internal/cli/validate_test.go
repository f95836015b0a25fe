package cli

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venicegeo/ets-gpkg12/internal/catalog"
	"github.com/venicegeo/ets-gpkg12/internal/testutil"
)

func setupValidate(format string, args ...string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format})
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	return cmd, out, errOut
}

func TestValidateConformantContainer(t *testing.T) {
	path := testutil.NewGeoPackage(t)

	cmd, out, _ := setupValidate("text", path)
	err := cmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, out.String(), "CONFORMANT")
	assert.NotContains(t, out.String(), "NOT CONFORMANT")
	assert.Contains(t, out.String(), " 0 failed")
}

func TestValidateNonConformantContainer(t *testing.T) {
	path := testutil.NewGeoPackage(t, testutil.WithHeader(0, 10200))

	cmd, out, _ := setupValidate("text", path)
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "1 of")
	assert.Contains(t, out.String(), "core.application_id")
	assert.Contains(t, out.String(), "NOT CONFORMANT")
}

func TestValidateJSONEnvelope(t *testing.T) {
	path := testutil.NewGeoPackage(t)

	out := &bytes.Buffer{}
	cmd := newValidateCommand(&ValidateOptions{
		RootOptions: &RootOptions{Format: "json"},
		RunIDs:      testutil.NewFixedRunIDGenerator("run-42"),
	})
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status  string         `json:"status"`
		TraceID string         `json:"trace_id"`
		Data    ValidateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-42", resp.TraceID)
	assert.Len(t, resp.Data.Digest, 64)
	assert.Equal(t, true, resp.Data.Result["conformant"])
	assert.Equal(t, path, resp.Data.Result["target"])
	assert.Equal(t, float64(catalog.Default().Len()), resp.Data.Result["total"])
}

func TestValidateXMLReport(t *testing.T) {
	path := testutil.NewGeoPackage(t, testutil.WithHeader(0, 10100))

	cmd, out, _ := setupValidate("xml", path)
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var doc struct {
		Failed int `xml:"failed,attr"`
	}
	require.NoError(t, xml.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, 2, doc.Failed)
}

func TestValidateClassNotEnabled(t *testing.T) {
	path := testutil.NewGeoPackage(t)

	cmd, out, _ := setupValidate("text", path, "--ics", "Core, Features, Extension Mechanism, Schema, Metadata")
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out.String(), "Tiles:enabled")
	assert.Contains(t, out.String(), "Conformance class Tiles is not enabled")
}

func TestValidateMissingContainer(t *testing.T) {
	cmd, out, _ := setupValidate("text", filepath.Join(t.TempDir(), "missing.gpkg"))

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeContainer)
	assert.Contains(t, out.String(), "cannot open container")
}

func TestValidateNoContainer(t *testing.T) {
	cmd, _, _ := setupValidate("json")

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no container given")
}

func TestValidateTooManyArgs(t *testing.T) {
	cmd, _, _ := setupValidate("text", "a.gpkg", "b.gpkg")
	assert.Error(t, cmd.Execute())
}

func TestValidateWithConfigFile(t *testing.T) {
	path := testutil.NewGeoPackage(t)
	cfg := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(
		"iut: "+path+"\n"+
			"ics:\n"+
			"  - "+catalog.ClassCore+"\n"+
			"  - "+catalog.ClassFeatures+"\n"+
			"  - "+catalog.ClassTiles+"\n"+
			"  - "+catalog.ClassExtensions+"\n"+
			"  - "+catalog.ClassSchema+"\n"+
			"  - "+catalog.ClassMetadata+"\n",
	), 0o644))

	cmd, out, _ := setupValidate("text", "--config", cfg)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), path)
}

func TestValidateFlagOverridesConfigFile(t *testing.T) {
	good := testutil.NewGeoPackage(t)
	cfg := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("iut: "+filepath.Join(t.TempDir(), "missing.gpkg")+"\n"), 0o644))

	cmd, out, _ := setupValidate("text", good, "--config", cfg)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), good)
}

func TestValidateInvalidConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("iut: a.gpkg\nlog_level: loud\n"), 0o644))

	cmd, out, _ := setupValidate("text", "--config", cfg)
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeConfig)
	assert.Contains(t, out.String(), "invalid run configuration")
}

func TestValidateVerboseLogsToStderr(t *testing.T) {
	path := testutil.NewGeoPackage(t)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "json", Verbose: true})
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut.String(), "requirement evaluated")
	assert.Contains(t, errOut.String(), "trace_id=")

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp), "stdout must hold only the envelope")
}
