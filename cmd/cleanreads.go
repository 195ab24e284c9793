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
	"golang.org/x/sync/errgroup"

	"github.com/cypridina/glotk/project"
	"github.com/cypridina/glotk/wrappers"
)

// cleanreadsCmd represents the cleanreads command
var cleanreadsCmd = &cobra.Command{
	Use:   "cleanreads",
	Short: "Cleans or subsamples a read set into the next reads directory",
	Long: `Processes one read set of the current gloTK project into a new one:

1. Reads come from gloTK_reads/reads<readsNum>
2. By default every forward/reverse pair is adapter-trimmed with SeqPrep2
3. With --subsample, every file is downsampled with seqtk instead
4. Processed reads land in gloTK_reads/reads<outNum> with a matching
   snapshot under gloTK_info/read_configs
5. Optionally runs FastQC over the new read set

The output read set must not exist yet; read sets are never overwritten.`,
	Run: func(cmd *cobra.Command, args []string) {
		readsNum, rErr := cmd.Flags().GetInt("readsNum")
		if rErr != nil {
			log.Fatalf("Error getting readsNum flag: %v", rErr)
		}
		outNum, oErr := cmd.Flags().GetInt("outNum")
		if oErr != nil {
			log.Fatalf("Error getting outNum flag: %v", oErr)
		}
		qualCutoff, _ := cmd.Flags().GetInt("qualCutoff")
		lenCutoff, _ := cmd.Flags().GetInt("lenCutoff")
		forAdapter, _ := cmd.Flags().GetString("forAdapter")
		revAdapter, _ := cmd.Flags().GetString("revAdapter")
		subsample, _ := cmd.Flags().GetInt("subsample")
		seed, _ := cmd.Flags().GetUint64("seed")
		threads, _ := cmd.Flags().GetInt("threads")
		runFastqc, _ := cmd.Flags().GetBool("fastqc")

		if outNum == readsNum {
			log.Fatalf("outNum must differ from readsNum")
		}
		if threads < 1 {
			threads = 1
		}

		cwd, err := os.Getwd()
		if err != nil {
			log.Fatalf("Error getting working directory: %v", err)
		}
		layout, err := project.Open(cwd)
		if err != nil {
			log.Fatalf("Error opening project: %v", err)
		}

		srcDir := layout.ReadsDir(readsNum)
		dstDir := layout.ReadsDir(outNum)
		dirEntries, err := os.ReadDir(srcDir)
		if err != nil {
			log.Fatalf("Error reading read set %d: %v", readsNum, err)
		}
		if layout.HasReadSet(outNum) {
			log.Fatalf("Read set %d already exists, refusing to overwrite", outNum)
		}

		var readFiles []string
		for _, de := range dirEntries {
			if de.IsDir() {
				continue
			}
			readFiles = append(readFiles, filepath.Join(srcDir, de.Name()))
		}
		if len(readFiles) == 0 {
			log.Fatalf("No read files under %s", srcDir)
		}

		if err := os.MkdirAll(dstDir, 0755); err != nil {
			log.Fatalf("Error creating %s: %v", dstDir, err)
		}

		var g errgroup.Group
		g.SetLimit(threads)
		if subsample > 0 {
			fmt.Printf("Subsampling %d files to %d reads each\n", len(readFiles), subsample)
			for _, f := range readFiles {
				f := f
				g.Go(func() error {
					s := wrappers.Seqtk{
						Seed:       seed,
						InputFile:  f,
						ReadCount:  subsample,
						OutputFile: filepath.Join(dstDir, filepath.Base(f)),
					}
					return s.Sample()
				})
			}
		} else {
			pairs, unpaired := wrappers.PairReads(readFiles)
			for _, f := range unpaired {
				fmt.Printf("Skipping %s, no mate file found\n", filepath.Base(f))
			}
			if len(pairs) == 0 {
				log.Fatalf("No forward/reverse read pairs under %s", srcDir)
			}
			fmt.Printf("Cleaning %d read pairs with SeqPrep2\n", len(pairs))
			for _, pair := range pairs {
				pair := pair
				g.Go(func() error {
					s := wrappers.SeqPrep{
						Forward:    pair[0],
						Reverse:    pair[1],
						OutForward: filepath.Join(dstDir, filepath.Base(pair[0])),
						OutReverse: filepath.Join(dstDir, filepath.Base(pair[1])),
						QualCutoff: qualCutoff,
						LenCutoff:  lenCutoff,
						AdapterA:   forAdapter,
						AdapterB:   revAdapter,
					}
					return s.Run()
				})
			}
		}
		if err := g.Wait(); err != nil {
			log.Fatalf("Error processing reads: %v", err)
		}

		newSet, err := remapReadSet(layout, readsNum, dstDir)
		if err != nil {
			log.Fatalf("Error building read set snapshot: %v", err)
		}
		if err := layout.WriteReadSet(outNum, newSet); err != nil {
			log.Fatalf("Error writing read set snapshot: %v", err)
		}
		fmt.Printf("Processed reads written to %s\n", dstDir)

		if runFastqc {
			outDir := filepath.Join(layout.Fastqc, fmt.Sprintf("reads%d", outNum))
			if err := os.MkdirAll(outDir, 0755); err != nil {
				log.Fatalf("Error creating %s: %v", outDir, err)
			}
			var newFiles []string
			for _, paths := range newSet {
				newFiles = append(newFiles, paths...)
			}
			fq := wrappers.FastQC{Reads: newFiles, OutDir: outDir, Threads: threads}
			if err := fq.Run(); err != nil {
				log.Fatalf("Error running FastQC: %v", err)
			}
			fmt.Printf("FastQC output written to %s\n", outDir)
		}
	},
}

// remapReadSet rewrites the source read set snapshot so every path points at
// its processed counterpart under dstDir. A source set without a snapshot
// falls back to listing dstDir as a single library.
func remapReadSet(layout project.Layout, readsNum int, dstDir string) (map[string][]string, error) {
	srcSet, err := layout.ReadSet(readsNum)
	if err == nil {
		newSet := make(map[string][]string, len(srcSet))
		for lib, paths := range srcSet {
			for _, p := range paths {
				dst := filepath.Join(dstDir, filepath.Base(p))
				if _, err := os.Stat(dst); err != nil {
					continue
				}
				newSet[lib] = append(newSet[lib], dst)
			}
		}
		return newSet, nil
	}

	dirEntries, err := os.ReadDir(dstDir)
	if err != nil {
		return nil, err
	}
	newSet := make(map[string][]string)
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		newSet["reads"] = append(newSet["reads"], filepath.Join(dstDir, de.Name()))
	}
	return newSet, nil
}

func init() {
	rootCmd.AddCommand(cleanreadsCmd)

	cleanreadsCmd.Flags().IntP("readsNum", "r", 0, "Which reads<N> set to process")
	cleanreadsCmd.Flags().IntP("outNum", "n", 1, "Which reads<N> set to write")
	cleanreadsCmd.Flags().IntP("qualCutoff", "q", 13, "SeqPrep2 quality cutoff for overlap mismatches")
	cleanreadsCmd.Flags().IntP("lenCutoff", "L", 30, "SeqPrep2 minimum length of a printed read")
	cleanreadsCmd.Flags().StringP("forAdapter", "A", "AGATCGGAAGAGCACACGTC", "Forward adapter sequence to trim")
	cleanreadsCmd.Flags().StringP("revAdapter", "B", "AGATCGGAAGAGCGTCGTGT", "Reverse adapter sequence to trim")
	cleanreadsCmd.Flags().Int("subsample", 0, "Downsample each file to this many reads with seqtk instead of cleaning")
	cleanreadsCmd.Flags().Uint64("seed", 0, "seqtk sampling seed (0 picks a random one)")
	cleanreadsCmd.Flags().IntP("threads", "t", 1, "How many files or pairs to process at once")
	cleanreadsCmd.Flags().Bool("fastqc", false, "Also run FastQC over the new read set")
}
