package codeforge

import (
	"os"
	"path/filepath"
	"strings"
)

// Banner returns the generated-file banner with every line, including the
// last, terminated by lineEnding.
func Banner(lineEnding string) string {
	var b strings.Builder
	for _, line := range bannerLines {
		b.WriteString(line)
		b.WriteString(lineEnding)
	}
	return b.String()
}

// AssembleOutput builds the final text of a generated file: body trimmed of
// surrounding whitespace, preceded by the banner when header is true.
func AssembleOutput(body string, header bool, lineEnding string) string {
	body = strings.TrimSpace(body)
	if !header {
		return body
	}
	return Banner(lineEnding) + body
}

// WriteOutput writes text to path, creating missing parent directories and
// replacing any existing file.
func WriteOutput(path, text string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, OutputDirPermissions); err != nil {
			return NewOutputWriteError(path, err)
		}
	}
	if err := os.WriteFile(path, []byte(text), OutputFilePermissions); err != nil {
		return NewOutputWriteError(path, err)
	}
	return nil
}
