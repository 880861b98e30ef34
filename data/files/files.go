package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/amhafiz/timetabler/internal/projectpath"
	"github.com/google/uuid"
)

const masterTimetableDir = "master_timetables"

// UploadRoot is where raw source files land, overridable so deployments
// can point it at a mounted volume
func UploadRoot() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(projectpath.Root, "uploads")
}

// SaveMasterTimetable writes an uploaded schedule JSON under a fresh
// uuid name and returns the path stored on the source row
func SaveMasterTimetable(r io.Reader, originalName string) (string, error) {
	dir := filepath.Join(UploadRoot(), masterTimetableDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create upload dir: %w", err)
	}

	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = ".json"
	}
	path := filepath.Join(dir, uuid.NewString()+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("could not write upload file: %w", err)
	}
	return path, nil
}

// ReadMasterTimetable resolves a source's stored path to its raw bytes
func ReadMasterTimetable(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("source has no file attached")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read source file: %w", err)
	}
	return data, nil
}

// Remove deletes a stored source file, ignoring it already being gone
func Remove(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
