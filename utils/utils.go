package utils

import (
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
)

// DirIsGlotk reports whether dir already holds a gloTK project.
func DirIsGlotk(dir string) bool {
	fi, err := os.Stat(filepath.Join(dir, "gloTK_info"))
	return err == nil && fi.IsDir()
}

// Exists reports whether path exists at all.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DirIsEmpty reports whether dir has no entries.
func DirIsEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()
	_, err = f.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	}
	return false, err
}

// InitLogger builds the project logger: human-readable lines on stderr plus
// a JSON activity log appended to logPath. The caller closes the returned
// file when done.
func InitLogger(logPath string) (*slog.Logger, *os.File, error) {
	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, err
	}
	handler := slogmulti.Fanout(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	return slog.New(handler), logFile, nil
}

// CopyFile copies src to dst, truncating dst if it exists.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// RunBashCmdVerbose runs a shell command with stdout/stderr passed through.
func RunBashCmdVerbose(cmdStr string) error {
	cmd := exec.Command("bash", "-c", cmdStr)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
