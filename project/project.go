// Package project creates and opens gloTK project directories and hands out
// assembly run numbers.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cypridina/glotk/merparse"
	"github.com/cypridina/glotk/utils"
)

// ConflictError reports a root directory that cannot become a gloTK project.
type ConflictError struct {
	Root   string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("project root %s: %s", e.Root, e.Reason)
}

// Layout is the fixed directory tree of one gloTK project.
//
//	project_dir/
//	|-- gloTK_info/
//	|   |   project_init.config
//	|   |   input_config.yaml
//	|   |   assemblynumber_to_runname.yaml
//	|   |-- activity_log/
//	|   |-- read_configs/
//	|-- gloTK_assemblies/
//	|-- gloTK_configs/
//	|-- gloTK_reads/reads0/
//	|-- gloTK_fastqc/
//	|-- gloTK_kmers/
//	|-- gloTK_reports/
type Layout struct {
	Root        string
	Info        string
	ActivityLog string
	ReadConfigs string
	Assemblies  string
	Configs     string
	Reads       string
	Fastqc      string
	Kmers       string
	Reports     string
}

// RunRecord ties a reserved run number to the paths everything about that
// run lives at.
type RunRecord struct {
	ID          int
	Name        string
	ConfigPath  string
	AssemblyDir string
	LogPath     string
}

// NewLayout derives the tree paths without touching the filesystem.
func NewLayout(root string) Layout {
	info := filepath.Join(root, "gloTK_info")
	return Layout{
		Root:        root,
		Info:        info,
		ActivityLog: filepath.Join(info, "activity_log"),
		ReadConfigs: filepath.Join(info, "read_configs"),
		Assemblies:  filepath.Join(root, "gloTK_assemblies"),
		Configs:     filepath.Join(root, "gloTK_configs"),
		Reads:       filepath.Join(root, "gloTK_reads"),
		Fastqc:      filepath.Join(root, "gloTK_fastqc"),
		Kmers:       filepath.Join(root, "gloTK_kmers"),
		Reports:     filepath.Join(root, "gloTK_reports"),
	}
}

func (l Layout) dirs() []string {
	return []string{
		l.Info, l.ActivityLog, l.ReadConfigs, l.Assemblies, l.Configs,
		l.Reads, filepath.Join(l.Reads, "reads0"), l.Fastqc, l.Kmers, l.Reports,
	}
}

func (l Layout) runMapPath() string {
	return filepath.Join(l.Info, "assemblynumber_to_runname.yaml")
}

func (l Layout) readSetPath(num int) string {
	return filepath.Join(l.ReadConfigs, fmt.Sprintf("reads%d.yaml", num))
}

// ReadsDir is the directory holding read set num.
func (l Layout) ReadsDir(num int) string {
	return filepath.Join(l.Reads, fmt.Sprintf("reads%d", num))
}

// ReadSet loads the read_configs snapshot for read set num: library name to
// read file paths.
func (l Layout) ReadSet(num int) (map[string][]string, error) {
	data, err := os.ReadFile(l.readSetPath(num))
	if err != nil {
		return nil, err
	}
	readSet := make(map[string][]string)
	if err := yaml.Unmarshal(data, &readSet); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", l.readSetPath(num), err)
	}
	return readSet, nil
}

// WriteReadSet persists a read set snapshot as read_configs/reads<num>.yaml.
func (l Layout) WriteReadSet(num int, readSet map[string][]string) error {
	data, err := yaml.Marshal(readSet)
	if err != nil {
		return err
	}
	return os.WriteFile(l.readSetPath(num), data, 0644)
}

// HasReadSet reports whether read set num exists: both its reads directory
// and its read_configs snapshot.
func (l Layout) HasReadSet(num int) bool {
	return utils.Exists(l.ReadsDir(num)) && utils.Exists(l.readSetPath(num))
}

// Init creates the project tree under root, snapshots the originating config
// and symlinks the read files named by its lib_seq globs into
// gloTK_reads/reads0. Re-running Init on an existing project only fills in
// missing directories; existing run records are left alone. A non-empty root
// that is not a gloTK project is a ConflictError.
func Init(root string, cfg *merparse.Config, configPath string) (Layout, error) {
	layout := NewLayout(root)

	if fi, err := os.Stat(root); err == nil {
		if !fi.IsDir() {
			return Layout{}, &ConflictError{Root: root, Reason: "exists and is not a directory"}
		}
		if !utils.DirIsGlotk(root) {
			empty, err := utils.DirIsEmpty(root)
			if err != nil {
				return Layout{}, err
			}
			if !empty {
				return Layout{}, &ConflictError{Root: root, Reason: "directory is not empty and not a gloTK project"}
			}
		}
	}

	for _, dir := range layout.dirs() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Layout{}, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	initCopy := filepath.Join(layout.Info, "project_init.config")
	if !utils.Exists(initCopy) {
		if err := utils.CopyFile(configPath, initCopy); err != nil {
			return Layout{}, fmt.Errorf("copying project config: %w", err)
		}
	}

	snapshot := filepath.Join(layout.Info, "input_config.yaml")
	if !utils.Exists(snapshot) {
		if err := writeConfigYAML(cfg, snapshot); err != nil {
			return Layout{}, err
		}
	}

	if !utils.Exists(layout.runMapPath()) {
		if err := os.WriteFile(layout.runMapPath(), []byte("{}\n"), 0644); err != nil {
			return Layout{}, err
		}
	}

	if err := linkReads(layout, cfg); err != nil {
		return Layout{}, err
	}
	return layout, nil
}

// Open returns the layout of an existing project.
func Open(root string) (Layout, error) {
	if !utils.DirIsGlotk(root) {
		return Layout{}, &ConflictError{Root: root, Reason: "not a gloTK project (no gloTK_info directory)"}
	}
	return NewLayout(root), nil
}

// RunPaths derives the on-disk locations for a reserved run.
func (l Layout) RunPaths(id int, name string) RunRecord {
	return RunRecord{
		ID:          id,
		Name:        name,
		ConfigPath:  filepath.Join(l.Configs, name+".config"),
		AssemblyDir: filepath.Join(l.Assemblies, name),
		LogPath:     filepath.Join(l.ActivityLog, name+".log"),
	}
}

// RunNames reads the persisted run-number map.
func (l Layout) RunNames() (map[int]string, error) {
	data, err := os.ReadFile(l.runMapPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[int]string{}, nil
		}
		return nil, err
	}
	runs := make(map[int]string)
	if err := yaml.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", l.runMapPath(), err)
	}
	return runs, nil
}

// HasRunName reports whether a run by this name was already reserved.
func (l Layout) HasRunName(name string) (bool, error) {
	runs, err := l.RunNames()
	if err != nil {
		return false, err
	}
	for _, n := range runs {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// linkReads symlinks every file matched by the lib_seq wildcards into
// gloTK_reads/reads0 and snapshots the resulting read set as reads0.yaml.
// An existing symlink of the same name means the same reads file was listed
// twice, which Meraculous would double-count.
func linkReads(l Layout, cfg *merparse.Config) error {
	reads0 := l.ReadsDir(0)
	readSet := make(map[string][]string)
	for _, lib := range cfg.Libs() {
		matches, err := filepath.Glob(lib.Wildcard)
		if err != nil {
			return fmt.Errorf("bad lib_seq wildcard %q: %w", lib.Wildcard, err)
		}
		for _, src := range matches {
			abs, err := filepath.Abs(src)
			if err != nil {
				return err
			}
			dst := filepath.Join(reads0, filepath.Base(src))
			if utils.Exists(dst) {
				continue
			}
			if err := os.Symlink(abs, dst); err != nil {
				return fmt.Errorf("linking reads file %s: %w", src, err)
			}
			readSet[lib.Name] = append(readSet[lib.Name], dst)
		}
	}
	if len(readSet) == 0 || utils.Exists(l.readSetPath(0)) {
		return nil
	}
	return l.WriteReadSet(0, readSet)
}

// writeConfigYAML snapshots the config as YAML, keeping the parameters in
// their original file order.
func writeConfigYAML(cfg *merparse.Config, path string) error {
	params := &yaml.Node{Kind: yaml.MappingNode}
	seen := make(map[string]bool)
	for _, key := range cfg.Keys() {
		if key == "lib_seq" || seen[key] {
			continue
		}
		seen[key] = true
		value, err := cfg.Get(key)
		if err != nil {
			return err
		}
		params.Content = append(params.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value},
		)
	}
	doc := struct {
		Params *yaml.Node        `yaml:"params"`
		Libs   []merparse.LibSeq `yaml:"lib_seq"`
	}{
		Params: params,
		Libs:   cfg.Libs(),
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
