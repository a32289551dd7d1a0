package config

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// scanSettings reads the [settings] section line by line for files that are
// not valid TOML, such as hand-edited files with unquoted values. Recognized
// keys are applied; only the offending lines are reported.
func scanSettings(data []byte, settings *Settings) []string {
	var warnings []string
	section := ""
	scanner := bufio.NewScanner(bytes.NewReader(bytes.TrimPrefix(data, []byte("\ufeff"))))
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				warnings = append(warnings, fmt.Sprintf("parse settings: line %d: unterminated section header", n))
				section = ""
				continue
			}
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}
		if section != settingsTable {
			continue
		}
		sep := strings.IndexAny(line, "=:")
		if sep <= 0 {
			warnings = append(warnings, fmt.Sprintf("parse settings: line %d: expected key = value", n))
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:sep]))
		apply, known := fieldSetters[key]
		if !known {
			continue
		}
		if err := apply(settings, unquote(strings.TrimSpace(line[sep+1:]))); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if err := scanner.Err(); err != nil {
		warnings = append(warnings, fmt.Sprintf("parse settings: %v", err))
	}
	return warnings
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}
