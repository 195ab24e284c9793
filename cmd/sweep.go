/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cypridina/glotk/merparse"
	"github.com/cypridina/glotk/project"
	"github.com/cypridina/glotk/reporter"
	"github.com/cypridina/glotk/runner"
	"github.com/cypridina/glotk/utils"
)

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Runs a Meraculous parameter sweep in the current project",
	Long: `Reads a Meraculous config file, derives one config per point of the
requested parameter grid, and runs the assembler once per config:

1. Derived configs are written to gloTK_configs, one per combination
2. Each run gets a project-unique assembly number and its own log under gloTK_info/activity_log
3. Assemblies execute in gloTK_assemblies, up to --simultaneous at a time
4. Finished runs are collated into HTML reports under gloTK_reports

Combinations whose run name is already recorded in the project are skipped,
so re-running a sweep only adds the missing assemblies. A failed assembly is
logged and does not stop the rest of the sweep.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, cErr := cmd.Flags().GetString("inputConfig")
		if cErr != nil {
			log.Fatalf("Error getting inputConfig flag: %v", cErr)
		}
		sweepParam, sErr := cmd.Flags().GetString("sweep")
		if sErr != nil {
			log.Fatalf("Error getting sweep flag: %v", sErr)
		}
		values, lErr := cmd.Flags().GetStringSlice("list")
		if lErr != nil {
			log.Fatalf("Error getting list flag: %v", lErr)
		}
		triplet, tErr := cmd.Flags().GetBool("triplet")
		if tErr != nil {
			log.Fatalf("Error getting triplet flag: %v", tErr)
		}
		prefix, _ := cmd.Flags().GetString("prefix")
		startIndex, _ := cmd.Flags().GetInt("index")
		genus, _ := cmd.Flags().GetString("genus")
		species, _ := cmd.Flags().GetString("species")
		simultaneous, _ := cmd.Flags().GetInt("simultaneous")
		maxProcs, _ := cmd.Flags().GetInt("maxProcs")
		assembler, _ := cmd.Flags().GetString("assembler")
		cleanup, _ := cmd.Flags().GetInt("cleanup")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		if sweepParam != "mer_size" && sweepParam != "bubble_depth_threshold" {
			log.Fatalf("Sweeping %q is not supported, choose mer_size or bubble_depth_threshold", sweepParam)
		}
		if simultaneous < 1 {
			simultaneous = 1
		}
		if maxProcs < 1 {
			maxProcs = runtime.NumCPU()
		}

		cfg, err := merparse.ParseFile(configPath)
		if err != nil {
			log.Fatalf("Error reading config: %v", err)
		}

		// Each assembly gets an equal share of the available processors.
		procsPerRun := maxProcs / simultaneous
		if procsPerRun < 1 {
			procsPerRun = 1
		}
		cfg.Set("local_num_procs", strconv.Itoa(procsPerRun))

		cwd, err := os.Getwd()
		if err != nil {
			log.Fatalf("Error getting working directory: %v", err)
		}
		var layout project.Layout
		if utils.DirIsGlotk(cwd) {
			layout, err = project.Open(cwd)
		} else {
			layout, err = project.Init(cwd, cfg, configPath)
		}
		if err != nil {
			log.Fatalf("Error opening project: %v", err)
		}

		existing, err := layout.RunNames()
		if err != nil {
			log.Fatalf("Error reading run map: %v", err)
		}
		if startIndex < 0 {
			startIndex = 0
			for id := range existing {
				if id >= startIndex {
					startIndex = id + 1
				}
			}
		}

		spec := merparse.SweepSpec{Axes: []merparse.Axis{{Param: sweepParam, Values: values}}}
		if triplet {
			if sweepParam != "mer_size" {
				log.Fatalf("--triplet only applies to mer_size sweeps")
			}
			spec = merparse.TripletSpec(values)
		}
		runs, err := merparse.Plan(cfg, spec, merparse.NameSpec{
			Prefix:     prefix,
			StartIndex: startIndex,
			Genus:      genus,
			Species:    species,
		})
		if err != nil {
			log.Fatalf("Error planning sweep: %v", err)
		}
		fmt.Printf("Planned %d assemblies\n", len(runs))

		logger, logFile, err := utils.InitLogger(filepath.Join(layout.ActivityLog, "glotk.log"))
		if err != nil {
			log.Fatalf("Error opening activity log: %v", err)
		}
		defer logFile.Close()

		var records []project.RunRecord
		for _, run := range runs {
			seen, err := layout.HasRunName(run.Name)
			if err != nil {
				log.Fatalf("Error reading run map: %v", err)
			}
			if seen {
				fmt.Printf("Skipping %s, already recorded in this project\n", run.Name)
				continue
			}
			if dryRun {
				fmt.Printf("Would run %s\n", run.Name)
				continue
			}
			id, err := layout.ReserveRun(run.Name)
			if err != nil {
				log.Fatalf("Error reserving run number for %s: %v", run.Name, err)
			}
			rec := layout.RunPaths(id, run.Name)
			if err := run.Config.WriteFile(rec.ConfigPath); err != nil {
				log.Fatalf("Error writing config %s: %v", rec.ConfigPath, err)
			}
			records = append(records, rec)
		}
		if dryRun || len(records) == 0 {
			fmt.Println("Nothing to run")
			return
		}

		r := runner.Runner{
			Script:       assembler,
			CleanupLevel: cleanup,
			MaxParallel:  simultaneous,
			Logger:       logger,
		}
		results := r.RunAll(context.Background(), layout.Assemblies, records)

		failed := 0
		for _, res := range results {
			if res.Failed() {
				failed++
				fmt.Printf("Run %s FAILED (exit %d), see %s\n", res.Name, res.ExitCode, res.LogPath)
			}
		}
		fmt.Printf("%d/%d assemblies finished cleanly\n", len(results)-failed, len(results))

		entries, err := reporter.Collate(layout.Assemblies)
		if err != nil {
			log.Fatalf("Error collating assemblies: %v", err)
		}
		if err := reporter.Render(entries, layout.Reports); err != nil {
			log.Fatalf("Error rendering reports: %v", err)
		}
		fmt.Printf("Reports written to %s\n", layout.Reports)
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringP("inputConfig", "i", "", "Meraculous config file the sweep is based on")
	sweepCmd.MarkFlagRequired("inputConfig") //nolint:errcheck
	sweepCmd.Flags().StringP("sweep", "s", "mer_size", "Parameter to sweep (mer_size or bubble_depth_threshold)")
	sweepCmd.Flags().StringSliceP("list", "l", []string{}, "Candidate values for the swept parameter, e.g. 23,27,57")
	sweepCmd.Flags().Bool("triplet", false, "Also sweep diploid_mode 0,1,2 for every k-mer size")
	sweepCmd.Flags().StringP("prefix", "p", "as", "Assembly name prefix")
	sweepCmd.Flags().IntP("index", "I", -1, "Starting assembly index (default: next free number in the project)")
	sweepCmd.Flags().StringP("genus", "G", "", "Genus name used in run names")
	sweepCmd.Flags().StringP("species", "S", "", "Species name used in run names")
	sweepCmd.Flags().IntP("simultaneous", "n", 1, "Number of assemblies to run at once")
	sweepCmd.Flags().IntP("maxProcs", "M", runtime.NumCPU()-2, "Total processors shared by all running assemblies")
	sweepCmd.Flags().String("assembler", "run_meraculous.sh", "Assembler entry point")
	sweepCmd.Flags().Int("cleanup", 0, "Meraculous cleanup_level")
	sweepCmd.Flags().Bool("dry-run", false, "Plan and print run names without executing anything")
}
