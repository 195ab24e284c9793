/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/cypridina/glotk/merparse"
	"github.com/cypridina/glotk/project"
)

// projectCmd represents the project command
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Initializes a gloTK assembly project in the current directory",
	Long: `Reads a Meraculous config file and initializes a gloTK assembly project
in the current directory:

1. Creates the fixed gloTK directory tree
2. Copies the config and snapshots it as YAML under gloTK_info
3. Symlinks every read file matched by the lib_seq wildcards into gloTK_reads/reads0

Re-running in an existing project only fills in missing pieces.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, cErr := cmd.Flags().GetString("inputConfig")
		if cErr != nil {
			log.Fatalf("Error getting inputConfig flag: %v", cErr)
		}

		cfg, err := merparse.ParseFile(configPath)
		if err != nil {
			log.Fatalf("Error reading config: %v", err)
		}

		cwd, err := os.Getwd()
		if err != nil {
			log.Fatalf("Error getting working directory: %v", err)
		}

		layout, err := project.Init(cwd, cfg, configPath)
		if err != nil {
			log.Fatalf("Error initializing project: %v", err)
		}
		fmt.Printf("Initialized gloTK project at %s\n", layout.Root)
		fmt.Printf("Read libraries: %d\n", len(cfg.Libs()))
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)

	projectCmd.Flags().StringP("inputConfig", "i", "", "Meraculous config file the project is based on")
	projectCmd.MarkFlagRequired("inputConfig") //nolint:errcheck
}
