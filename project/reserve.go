package project

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
	"gopkg.in/yaml.v3"
)

// ReserveRun allocates the next unused run number and records it against
// name in assemblynumber_to_runname.yaml before returning. The
// read-increment-write is guarded by an exclusive flock so parallel sweeps
// sharing a project never hand out the same number. Numbers are never
// reused, even for runs that later fail.
func (l Layout) ReserveRun(name string) (int, error) {
	lock, err := acquireLock(filepath.Join(l.Info, ".runmap.lock"))
	if err != nil {
		return 0, err
	}
	defer lock.release()

	runs, err := l.RunNames()
	if err != nil {
		return 0, err
	}
	next := 0
	for id := range runs {
		if id >= next {
			next = id + 1
		}
	}
	runs[next] = name

	data, err := yaml.Marshal(runs)
	if err != nil {
		return 0, err
	}
	// Write-then-rename keeps the map readable if we die mid-write.
	tmp := l.runMapPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp, l.runMapPath()); err != nil {
		return 0, err
	}
	return next, nil
}

type fileLock struct {
	f *os.File
}

func acquireLock(path string) (*fileLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	return &fileLock{f: f}, nil
}

func (fl *fileLock) release() {
	unix.Flock(int(fl.f.Fd()), unix.LOCK_UN) //nolint:errcheck
	fl.f.Close()
}
