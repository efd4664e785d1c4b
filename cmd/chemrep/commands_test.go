package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmera/chemrep/errs"
	"github.com/rmera/chemrep/spline"
)

func run(Te *testing.T, config string, args ...string) (string, error) {
	dir := Te.TempDir()
	cfg := filepath.Join(dir, "chemrep.yaml")
	require.NoError(Te, os.WriteFile(cfg, []byte(config), 0o644))
	plotPath, savePath, samples, component = "", "", 1000, 0
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetArgs(append(args, "--config", cfg))
	err := rootCmd.Execute()
	return out.String(), err
}

const atomConfig = `
keys: {center_species: {}}
environment: {atom: {cutoff: 1.5}}
radial: {max_radial: 2, max_angular: 1, cutoff: 3.0, spline_accuracy: 1e-6}
`

func TestKeysCommand(Te *testing.T) {
	out, err := run(Te, atomConfig, "keys", "../../testdata/methane.xyz")
	require.NoError(Te, err)
	require.Equal(Te, "(species_center)\n[1]\n[6]\n", out)
}

func TestSamplesCommand(Te *testing.T) {
	out, err := run(Te, atomConfig, "samples", "../../testdata/water.xyz")
	require.NoError(Te, err)
	require.Equal(Te, "(structure, center)\n[0 0]\n[0 1]\n[0 2]\n", out)
}

func TestGradientsCommand(Te *testing.T) {
	out, err := run(Te, atomConfig, "gradients", "../../testdata/water.xyz")
	require.NoError(Te, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(Te, "(structure, center, neighbor, spatial)", lines[0])
	require.Len(Te, lines, 1+12)
	require.Equal(Te, "[0 0 1 0]", lines[1])
}

func TestSplineCommand(Te *testing.T) {
	dir := Te.TempDir()
	saved := filepath.Join(dir, "gto.spl")
	plotted := filepath.Join(dir, "gto.png")
	out, err := run(Te, atomConfig, "spline", "--save", saved, "--plot", plotted, "--samples", "50", "--component", "1")
	require.NoError(Te, err)
	require.Contains(Te, out, "samples: 50")
	H, err := spline.LoadFile(saved)
	require.NoError(Te, err)
	require.Equal(Te, []int{2, 2}, H.Parameters().Shape)
	_, err = os.Stat(plotted)
	require.NoError(Te, err)

	_, err = run(Te, "keys: {center_species: {}}\nenvironment: {structure: {}}", "spline")
	require.True(Te, errs.Is(err, errs.InvalidParameter))
}

func TestCommandErrors(Te *testing.T) {
	_, err := run(Te, "keys: {center_species: {}}", "keys", "../../testdata/water.xyz")
	require.True(Te, errs.Is(err, errs.InvalidParameter))
	_, err = run(Te, atomConfig, "keys", "../../testdata/missing.xyz")
	require.Error(Te, err)
	_, err = run(Te, atomConfig, "keys")
	require.Error(Te, err)
}
