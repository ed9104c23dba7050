package analyzer

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile reads a source file with automatic encoding detection.
// Visual Studio saves files as UTF-8 with BOM or as UTF-16 with BOM
// depending on project settings, so both are handled transparently.
func ReadFile(path string) (string, error) {
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return DecodeSource(rawBytes)
}

// DecodeSource converts raw file bytes to a UTF-8 string, stripping any BOM.
func DecodeSource(data []byte) (string, error) {
	// UTF-16 BOMs first, they are never valid UTF-8 starts
	if len(data) >= 2 {
		var dec *encoding.Decoder
		switch {
		case data[0] == 0xFF && data[1] == 0xFE:
			dec = utf16Decoder(unicode.LittleEndian)
		case data[0] == 0xFE && data[1] == 0xFF:
			dec = utf16Decoder(unicode.BigEndian)
		}
		if dec != nil {
			decoded, _, err := transform.Bytes(dec, data)
			if err != nil {
				return "", fmt.Errorf("utf-16 decode failed: %w", err)
			}
			return string(decoded), nil
		}
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("unsupported encoding: not valid UTF-8 or UTF-16")
	}
	return string(data), nil
}

// ScanDirectory walks the root directory and finds .cs source files.
// It excludes directories matching excludePatterns along with build output
// and VCS directories that never hold hand-written controllers.
func ScanDirectory(root string, excludePatterns []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			switch d.Name() {
			case ".git", ".svn", "bin", "obj":
				return filepath.SkipDir
			}

			relPath, _ := filepath.Rel(root, path)
			relPath = filepath.ToSlash(relPath)

			for _, pat := range excludePatterns {
				if matchGlob(relPath, pat) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if IsSourceFile(path) {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	return files, nil
}

// IsSourceFile checks whether path is a C# source file. Generated
// designer/assembly-info files are skipped.
func IsSourceFile(path string) bool {
	lower := strings.ToLower(path)
	if !strings.HasSuffix(lower, ".cs") {
		return false
	}
	base := filepath.Base(lower)
	if strings.HasSuffix(base, ".designer.cs") || strings.HasSuffix(base, ".g.cs") {
		return false
	}
	return base != "assemblyinfo.cs"
}

func utf16Decoder(endian unicode.Endianness) *encoding.Decoder {
	return unicode.UTF16(endian, unicode.UseBOM).NewDecoder()
}

// matchGlob matches a relative path against a ** exclusion pattern. The
// literal part must land on path-separator boundaries, so "**/bin/**"
// skips "src/bin" but never "cabin".
func matchGlob(path, pattern string) bool {
	if strings.Contains(pattern, "**") {
		clean := strings.ReplaceAll(pattern, "**", "")
		clean = strings.Trim(clean, "/")
		if clean == "" {
			return false
		}
		return path == clean ||
			strings.HasPrefix(path, clean+"/") ||
			strings.HasSuffix(path, "/"+clean) ||
			strings.Contains(path, "/"+clean+"/")
	}
	ok, _ := filepath.Match(pattern, path)
	return ok
}
