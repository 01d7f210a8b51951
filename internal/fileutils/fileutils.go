// Package fileutils provides common file operations used throughout the application.
package fileutils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// ScanSourceFiles walks the source directory and splits the spreadsheet
// files into charity ledgers and holding rosters by filename marker:
// ledgers carry the charity marker and end in .xls or .xlsx, rosters carry
// the holding marker and end in .xlsx. Results come back sorted so runs are
// deterministic. A missing source directory yields two empty lists.
func ScanSourceFiles(sourceDir, charityMarker, holdingMarker string) (charity, holding []string, err error) {
	if !DirectoryExists(sourceDir) {
		return nil, nil, nil
	}

	err = filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			log.WithError(walkErr).WithField("path", path).Warn("Error walking source directory")
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if strings.Contains(name, charityMarker) && (ext == ".xls" || ext == ".xlsx") {
			charity = append(charity, path)
		}
		if strings.Contains(name, holdingMarker) && ext == ".xlsx" {
			holding = append(holding, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan source directory %s: %w", sourceDir, err)
	}

	sort.Strings(charity)
	sort.Strings(holding)
	return charity, holding, nil
}

// BuildNonConflictPath returns targetPath unchanged when overwriting is
// allowed or nothing is in the way; otherwise it appends _2, _3, ... to the
// stem until the name is free.
func BuildNonConflictPath(targetPath string, overwrite bool) string {
	if overwrite || !FileExists(targetPath) {
		return targetPath
	}
	ext := filepath.Ext(targetPath)
	stem := strings.TrimSuffix(targetPath, ext)
	for idx := 2; ; idx++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, idx, ext)
		if !FileExists(candidate) {
			return candidate
		}
	}
}
