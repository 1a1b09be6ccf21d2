// Package workfile saves scene files under the next version number.
package workfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/VSPipe/colorbleed-config/internal/submit"
)

// versionPattern matches the last _v### or .v### token of a file name.
var versionPattern = regexp.MustCompile(`(?i)^(.*[._]v)(\d+)(.*)$`)

// VersionUp returns path with its version token incremented, keeping the
// digit padding: shot_v006.ma becomes shot_v007.ma and shot_v999.ma becomes
// shot_v1000.ma. A name without a version token gets _v001 appended before
// the extension.
func VersionUp(path string) string {
	dir, file := filepath.Split(path)
	ext := filepath.Ext(file)
	stem := strings.TrimSuffix(file, ext)

	m := versionPattern.FindStringSubmatch(stem)
	if m == nil {
		return dir + stem + "_v001" + ext
	}

	n, err := strconv.Atoi(m[2])
	if err != nil {
		// Only digits can match; overflow is the only failure.
		return dir + stem + "_v001" + ext
	}
	next := fmt.Sprintf("%0*d", len(m[2]), n+1)
	return dir + m[1] + next + m[3] + ext
}

// NextFree returns the first version of path, after path itself, that does
// not exist on disk.
func NextFree(path string) string {
	next := VersionUp(path)
	for {
		if _, err := os.Stat(next); os.IsNotExist(err) {
			return next
		}
		next = VersionUp(next)
	}
}

// Increment copies the scene at path to its next free version and returns the
// new path. It refuses when any report failed, so a scene whose submission
// failed keeps its version.
func Increment(path string, reports ...submit.StepReport) (string, error) {
	if err := submit.CheckUpstream(reports); err != nil {
		return "", fmt.Errorf("not incrementing %s: %w", filepath.Base(path), err)
	}

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening work file: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("reading work file: %w", err)
	}

	dest := NextFree(path)
	dir := filepath.Dir(dest)

	// Atomic write: temp file + rename.
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		return "", fmt.Errorf("copying work file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return "", fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return dest, nil
}
