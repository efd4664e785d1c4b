/*
 * commands.go, part of chemrep.
 *
 * Copyright 2024 The chemrep authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package main

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/rmera/chemrep"
	"github.com/rmera/chemrep/errs"
	"github.com/rmera/chemrep/labels"
	"github.com/rmera/chemrep/radial"
	"github.com/rmera/chemrep/spline"
	"github.com/rmera/chemrep/system"
)

var (
	configPath string
	plotPath   string
	savePath   string
	samples    int
	component  int

	rootCmd = &cobra.Command{
		Use:           "chemrep",
		Short:         "Index sets and splined radial functions for atomic descriptors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	keysCmd = &cobra.Command{
		Use:   "keys [structures.xyz]",
		Short: "Print the keys of the structures in an XYZ file",
		Args:  cobra.ExactArgs(1),
		RunE:  runKeys,
	}
	samplesCmd = &cobra.Command{
		Use:   "samples [structures.xyz]",
		Short: "Print the samples of the structures in an XYZ file",
		Args:  cobra.ExactArgs(1),
		RunE:  runSamples,
	}
	gradientsCmd = &cobra.Command{
		Use:   "gradients [structures.xyz]",
		Short: "Print the gradient rows of the structures in an XYZ file",
		Args:  cobra.ExactArgs(1),
		RunE:  runGradients,
	}
	splineCmd = &cobra.Command{
		Use:   "spline",
		Short: "Build the splined radial functions of a configuration and report their errors",
		Args:  cobra.NoArgs,
		RunE:  runSpline,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "chemrep.yaml", "configuration file")
	splineCmd.Flags().StringVar(&plotPath, "plot", "", "plot the errors of one component to this file")
	splineCmd.Flags().StringVar(&savePath, "save", "", "save the spline to this file")
	splineCmd.Flags().IntVar(&samples, "samples", 1000, "number of points where the errors are measured")
	splineCmd.Flags().IntVar(&component, "component", 0, "component plotted")
	rootCmd.AddCommand(keysCmd, samplesCmd, gradientsCmd, splineCmd)
}

//load reads the configuration and the structures in the file name.
func load(name string) (*chemrep.Calculator, []system.System, error) {
	cfg, err := chemrep.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	C, err := chemrep.NewCalculator(cfg)
	if err != nil {
		return nil, nil, err
	}
	read, err := system.ReadXYZ(name)
	if err != nil {
		return nil, nil, err
	}
	systems := make([]system.System, len(read))
	for i, s := range read {
		if n, _ := s.Size(); n == 0 {
			log.Printf("structure %d in %s has no atoms", i, name)
		}
		systems[i] = s
	}
	return C, systems, nil
}

func printLabels(w io.Writer, L *labels.Labels) {
	fmt.Fprint(w, L.String())
}

func runKeys(cmd *cobra.Command, args []string) error {
	C, systems, err := load(args[0])
	if err != nil {
		return err
	}
	K, err := C.Keys().Keys(systems)
	if err != nil {
		return err
	}
	printLabels(cmd.OutOrStdout(), K)
	return nil
}

func runSamples(cmd *cobra.Command, args []string) error {
	C, systems, err := load(args[0])
	if err != nil {
		return err
	}
	S, err := C.Environment().Samples(systems)
	if err != nil {
		return err
	}
	printLabels(cmd.OutOrStdout(), S)
	return nil
}

func runGradients(cmd *cobra.Command, args []string) error {
	C, systems, err := load(args[0])
	if err != nil {
		return err
	}
	I, err := C.Indexes(systems, nil)
	if err != nil {
		return err
	}
	printLabels(cmd.OutOrStdout(), I.Gradients)
	return nil
}

func runSpline(cmd *cobra.Command, args []string) error {
	cfg, err := chemrep.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Radial == nil {
		return errs.New(errs.InvalidParameter, "the configuration in %s has no radial section", configPath)
	}
	params := cfg.Radial.Parameters()
	gto, err := radial.NewGTO(params)
	if err != nil {
		return err
	}
	S, err := radial.NewSplined(params, cfg.Radial.Basis().Accuracy, gto)
	if err != nil {
		return err
	}
	fn := radial.Function(gto)
	R, err := spline.Diagnose(S.Spline(), fn, samples)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), R.String())
	if plotPath != "" {
		if err := spline.PlotErrors(S.Spline(), fn, samples, component, plotPath); err != nil {
			return err
		}
	}
	if savePath != "" {
		return S.Spline().SaveFile(savePath)
	}
	return nil
}
