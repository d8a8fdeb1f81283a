// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cpmech/gopost/inp"
	"github.com/cpmech/gopost/mpicomm"
	"github.com/cpmech/gopost/pp"
	"github.com/cpmech/gopost/shp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gopost",
	Short: "Element postprocessors for FE simulations",
	Long:  "gopost integrates diagnostics over blocks of cells of a finite element mesh\nand reduces them across partitions at every step of a solution history",
}

var runCmd = &cobra.Command{
	Use:   "run <file.sim|file.toml>",
	Short: "evaluate all diagnostics of a simulation",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalysis,
}

var infoCmd = &cobra.Command{
	Use:   "info <file.msh>",
	Short: "show mesh blocks, partitions and available integrands",
	Args:  cobra.ExactArgs(1),
	RunE:  showInfo,
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			if mpicomm.Rank() == 0 {
				chk.Verbose = true
				for i := 8; i > 3; i-- {
					chk.CallerInfo(i)
				}
				io.Pf("ERROR: %v\n", err)
			}
			mpicomm.Stop()
			os.Exit(1)
		}
		mpicomm.Stop()
	}()
	mpicomm.Start()

	// commands and flags
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.PersistentFlags().Bool("verbose", false, "show messages")
	runCmd.Flags().Int("nparts", 0, "number of in-process partitions (overrides simulation file)")
	runCmd.Flags().Int("workers", 0, "number of workers per partition (overrides simulation file)")
	runCmd.Flags().String("alias", "", "word to add to results file name")

	if err := rootCmd.Execute(); err != nil {
		chk.Panic("%v", err)
	}
}

// runAnalysis runs the analysis and saves the results
func runAnalysis(cmd *cobra.Command, args []string) (err error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	nparts, _ := cmd.Flags().GetInt("nparts")
	nworkers, _ := cmd.Flags().GetInt("workers")
	alias, _ := cmd.Flags().GetString("alias")
	verbose = verbose && mpicomm.Rank() == 0

	// message
	if verbose {
		io.Pf("\ngopost -- element postprocessors\n\n")
		io.Pf("%-24s = %v\n", "filename path", args[0])
		io.Pf("%-24s = %v\n", "in-process partitions", nparts)
		io.Pf("%-24s = %v\n", "workers", nworkers)
		io.Pf("%-24s = %q\n\n", "alias", alias)
	}

	// analysis
	analysis, err := NewAnalysis(args[0], alias, nparts, nworkers, verbose)
	if err != nil {
		return
	}
	err = analysis.Run()
	if err != nil {
		if pp.IsFatal(err) {
			chk.Panic("partitions are out of sync:\n%v", err)
		}
		return chk.Err("Run failed:\n%v", err)
	}

	// results
	if mpicomm.Rank() != 0 {
		return
	}
	if verbose {
		io.Pf("\n%v\n", analysis.Table)
	}
	return analysis.Save()
}

// showInfo prints information about a mesh
func showInfo(cmd *cobra.Command, args []string) (err error) {
	if mpicomm.Rank() != 0 {
		return
	}
	msh, err := inp.ReadMsh(filepath.Dir(args[0]), filepath.Base(args[0]))
	if err != nil {
		return
	}
	io.Pf("%s", meshInfo(msh))
	return
}

// meshInfo returns a summary of msh and of the available shapes and integrands
func meshInfo(msh *inp.Mesh) (l string) {
	l += io.Sf("%-12s = %d\n", "ndim", msh.Ndim)
	l += io.Sf("%-12s = %d\n", "nverts", len(msh.Verts))
	l += io.Sf("%-12s = %d\n", "ncells", len(msh.Cells))
	l += io.Sf("%-12s = [%g, %g]\n", "x range", msh.Xmin, msh.Xmax)
	l += io.Sf("%-12s = [%g, %g]\n", "y range", msh.Ymin, msh.Ymax)
	if msh.Ndim == 3 {
		l += io.Sf("%-12s = [%g, %g]\n", "z range", msh.Zmin, msh.Zmax)
	}
	vtags := make([]int, 0, len(msh.VertTag2verts))
	for tag := range msh.VertTag2verts {
		vtags = append(vtags, tag)
	}
	sort.Ints(vtags)
	for _, tag := range vtags {
		l += io.Sf("%-12s = %d verts\n", io.Sf("vert tag %d", tag), len(msh.VertTag2verts[tag]))
	}
	for _, tag := range msh.Tags {
		l += io.Sf("%-12s = %d cells\n", io.Sf("block %d", tag), len(msh.CellTag2cells[tag]))
	}
	for _, part := range msh.Parts {
		l += io.Sf("%-12s = %d cells\n", io.Sf("partition %d", part), len(msh.Part2cells[part]))
	}
	for _, ctype := range shp.Types() {
		if cells, ok := msh.Ctype2cells[ctype]; ok {
			l += io.Sf("%-12s = %d cells\n", ctype, len(cells))
		}
	}
	l += io.Sf("%-12s = %s\n", "shapes", strings.Join(shp.Types(), " "))
	l += io.Sf("%-12s = %s\n", "integrands", strings.Join(pp.IntegrandTypes(), " "))
	return
}
