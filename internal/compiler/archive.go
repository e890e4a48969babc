package compiler

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"
)

// WorkflowEntry is the name of the workflow document inside an archive.
const WorkflowEntry = "pipeline.yaml"

// archiveModTime is stamped on every archive entry so that archives do not
// change with the wall clock.
var archiveModTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// WriteArchive stores workflow as the single entry of a zip archive at path.
// The archive is written next to path and renamed into place, so a failed
// write never leaves a truncated archive behind.
func WriteArchive(path string, workflow []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".sagegrid-*.zip")
	if err != nil {
		return fmt.Errorf("creating temporary archive: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	zw := zip.NewWriter(tmp)
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     WorkflowEntry,
		Method:   zip.Deflate,
		Modified: archiveModTime,
	})
	if err != nil {
		return fmt.Errorf("adding %s to archive: %w", WorkflowEntry, err)
	}
	if _, err = w.Write(workflow); err != nil {
		return fmt.Errorf("writing %s: %w", WorkflowEntry, err)
	}
	if err = zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("setting archive permissions: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving archive into place: %w", err)
	}
	return nil
}

// ReadArchive returns the workflow document stored in the archive at path.
func ReadArchive(path string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != WorkflowEntry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s: no %s entry", path, WorkflowEntry)
}
