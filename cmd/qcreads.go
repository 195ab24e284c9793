/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cypridina/glotk/project"
	"github.com/cypridina/glotk/utils"
	"github.com/cypridina/glotk/wrappers"
)

// qcreadsCmd represents the qcreads command
var qcreadsCmd = &cobra.Command{
	Use:   "qcreads",
	Short: "Runs read QC over a project's read set",
	Long: `Summarizes and quality-controls one read set of the current gloTK
project (gloTK_reads/reads<N>):

1. Prints read counts, base counts, GC content and mean read length per file
2. Optionally runs FastQC into gloTK_fastqc/reads<N>`,
	Run: func(cmd *cobra.Command, args []string) {
		readsNum, rErr := cmd.Flags().GetInt("readsNum")
		if rErr != nil {
			log.Fatalf("Error getting readsNum flag: %v", rErr)
		}
		threads, _ := cmd.Flags().GetInt("threads")
		runFastqc, _ := cmd.Flags().GetBool("fastqc")

		cwd, err := os.Getwd()
		if err != nil {
			log.Fatalf("Error getting working directory: %v", err)
		}
		layout, err := project.Open(cwd)
		if err != nil {
			log.Fatalf("Error opening project: %v", err)
		}

		readsDir := layout.ReadsDir(readsNum)
		dirEntries, err := os.ReadDir(readsDir)
		if err != nil {
			log.Fatalf("Error reading %s: %v", readsDir, err)
		}

		var readFiles []string
		for _, de := range dirEntries {
			if de.IsDir() {
				continue
			}
			readFiles = append(readFiles, filepath.Join(readsDir, de.Name()))
		}
		if len(readFiles) == 0 {
			fmt.Printf("No read files under %s\n", readsDir)
			return
		}

		for _, path := range readFiles {
			stats, err := utils.FastqInfo(path)
			if err != nil {
				fmt.Printf("Skipping %s: %v\n", path, err)
				continue
			}
			fmt.Printf("%s\n  reads: %d  bases: %d  GC: %.3f  mean read length: %.1f\n",
				filepath.Base(path), stats.NumReads, stats.NumBases, stats.PortionGC, stats.AvgReadLen)
		}

		if runFastqc {
			outDir := filepath.Join(layout.Fastqc, fmt.Sprintf("reads%d", readsNum))
			if err := os.MkdirAll(outDir, 0755); err != nil {
				log.Fatalf("Error creating %s: %v", outDir, err)
			}
			fq := wrappers.FastQC{Reads: readFiles, OutDir: outDir, Threads: threads}
			if err := fq.Run(); err != nil {
				log.Fatalf("Error running FastQC: %v", err)
			}
			fmt.Printf("FastQC output written to %s\n", outDir)
		}
	},
}

func init() {
	rootCmd.AddCommand(qcreadsCmd)

	qcreadsCmd.Flags().IntP("readsNum", "N", 0, "Which reads<N> set to QC")
	qcreadsCmd.Flags().IntP("threads", "t", 1, "FastQC threads")
	qcreadsCmd.Flags().Bool("fastqc", false, "Also run FastQC over the read set")
}
