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
	"github.com/cypridina/glotk/reporter"
	"github.com/cypridina/glotk/utils"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report [dir]",
	Short: "Collates Meraculous outputs into an HTML report tree",
	Long: `Scans for finished Meraculous assemblies and writes an HTML report tree:
an index page, one page per assembly with its stats and images, a scaffold
N50 comparison chart and a summary table.

Inside a gloTK project, gloTK_assemblies is scanned and reports land in
gloTK_reports. Anywhere else, the given directory (default: the current one)
is scanned and reports land in a reports/ subdirectory.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		root, err := filepath.Abs(root)
		if err != nil {
			log.Fatalf("Error resolving %s: %v", root, err)
		}
		if _, err := os.Stat(root); err != nil {
			log.Fatalf("Error reading %s: %v", root, err)
		}

		scanDir := root
		outDir := filepath.Join(root, "reports")
		if utils.DirIsGlotk(root) {
			layout, err := project.Open(root)
			if err != nil {
				log.Fatalf("Error opening project: %v", err)
			}
			scanDir = layout.Assemblies
			outDir = layout.Reports
		}

		entries, err := reporter.Collate(scanDir)
		if err != nil {
			log.Fatalf("Error collating assemblies: %v", err)
		}
		if len(entries) == 0 {
			// Maybe the directory is itself a single run.
			entries, err = reporter.CollateOne(scanDir)
			if err != nil {
				log.Fatalf("Error collating %s: %v", scanDir, err)
			}
		}
		fmt.Printf("Found %d Meraculous assemblies under %s\n", len(entries), scanDir)

		if err := reporter.Render(entries, outDir); err != nil {
			log.Fatalf("Error rendering reports: %v", err)
		}
		fmt.Printf("Reports written to %s\n", outDir)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
