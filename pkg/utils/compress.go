/*
This file provides the results archive of the testcase command. It includes:

- A walk of the results directory into a single ZIP file
- Optional password protection of every entry
- Error handling for the file operations involved
*/

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/alexmullins/zip"
)

// ArchiveDirectory writes every regular file under sourceDir into a zip
// file at destPath, keeping paths relative to sourceDir. Entries are
// encrypted when password is not empty. The archive itself is skipped
// when it lives inside sourceDir.
func ArchiveDirectory(sourceDir, destPath, password string) error {
	if !DirExists(sourceDir) {
		return fmt.Errorf("source directory %s does not exist", sourceDir)
	}

	absDest, err := filepath.Abs(destPath)
	if err != nil {
		return fmt.Errorf("failed to resolve archive path: %v", err)
	}

	var files []string
	err = filepath.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if abs, _ := filepath.Abs(path); abs == absDest {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to list %s: %v", sourceDir, err)
	}
	sort.Strings(files)

	if err := CreateDirIfNotExists(filepath.Dir(destPath)); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	zipFile, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)
	for _, path := range files {
		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		if err := addFile(zipWriter, path, filepath.ToSlash(rel), password); err != nil {
			zipWriter.Close()
			return err
		}
	}

	if err := zipWriter.Close(); err != nil {
		return fmt.Errorf("failed to finalize zip: %v", err)
	}
	return nil
}

func addFile(zw *zip.Writer, path, name, password string) error {
	source, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open source file: %v", err)
	}
	defer source.Close()

	var writer io.Writer
	if password != "" {
		writer, err = zw.Encrypt(name, password)
	} else {
		writer, err = zw.Create(name)
	}
	if err != nil {
		return fmt.Errorf("failed to create entry %s: %v", name, err)
	}

	if _, err := io.Copy(writer, source); err != nil {
		return fmt.Errorf("failed to write %s to zip: %v", name, err)
	}
	return nil
}
