package pdbex

import (
	"fmt"
	"strings"
)

// TypeRecord is one line of list-mode output.
type TypeRecord struct {
	Kind string // e.g. "struct", "union", "enum"
	Name string
}

// ParseTypeList parses list-mode output of the form "<kind> <name>;" per
// line. Blank lines are skipped; a record without a kind is an error.
func ParseTypeList(out string) ([]TypeRecord, error) {
	var records []TypeRecord
	for i, line := range strings.Split(strings.TrimSpace(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kind, name, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("malformed type record at line %d: %q", i+1, line)
		}
		name = strings.TrimSpace(strings.TrimRight(name, ";"))
		if name == "" {
			return nil, fmt.Errorf("empty type name at line %d: %q", i+1, line)
		}
		records = append(records, TypeRecord{Kind: kind, Name: name})
	}
	return records, nil
}
