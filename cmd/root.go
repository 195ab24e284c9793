/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "glotk",
	Short: "Genomes of Luminous Organisms Toolkit",
	Long: `A toolkit for organizing Meraculous genome assemblies:

1.	Project scaffolding: one directory tree per genome, with read symlinks and config snapshots
2.	Parameter sweeps: run the assembler across a grid of k-mer sizes and diploid modes
3.	HTML reports: collate assembly stats, images and k-mer histograms per run
4.	Read QC: FastQC, SeqPrep2 and seqtk subsampling over project reads
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
