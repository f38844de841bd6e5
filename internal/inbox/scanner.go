package inbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"docextract/internal/source"
)

// ScannedFile represents a document found during an inbox scan.
type ScannedFile struct {
	RelPath string // Relative path from the inbox root (e.g., "2024/class-a.pdf")
	Folder  string // Folder path (path components except filename, e.g., "2024")
	AbsPath string // Absolute file path
}

// Scan walks root and returns every supported document, sorted by RelPath.
// Hidden directories and files are skipped.
func Scan(ctx context.Context, root string) ([]ScannedFile, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve inbox %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to access inbox %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox %s is not a directory", root)
	}

	var files []ScannedFile
	err = filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}

		// Check for context cancellation
		if err := ctx.Err(); err != nil {
			return err
		}

		hidden := strings.HasPrefix(d.Name(), ".") && path != absRoot
		if d.IsDir() {
			if hidden {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden || !source.Supported(path) {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		folder := filepath.ToSlash(filepath.Dir(relPath))
		if folder == "." {
			folder = ""
		}

		files = append(files, ScannedFile{
			RelPath: relPath,
			Folder:  folder,
			AbsPath: path,
		})
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("failed to scan inbox %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// OutputPath returns the workbook path for f under outDir, mirroring the
// inbox folder layout: "2024/class-a.pdf" becomes outDir/2024/class-a.xlsx.
func OutputPath(outDir string, f ScannedFile) string {
	rel := strings.TrimSuffix(f.RelPath, filepath.Ext(f.RelPath)) + ".xlsx"
	return filepath.Join(outDir, filepath.FromSlash(rel))
}
