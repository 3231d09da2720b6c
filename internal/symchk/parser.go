package symchk

import (
	"errors"
	"fmt"
	"strings"
)

const (
	imageMarker  = "ImageName:"
	symbolMarker = "PDB:"
)

// ErrProtocol indicates symchk output whose marker lines are out of order or
// malformed. The run must stop rather than pair a symbol file with the wrong
// binary.
var ErrProtocol = errors.New("symchk protocol violation")

// ProtocolError locates a protocol violation in the tool output.
type ProtocolError struct {
	Line   int // 1-indexed
	Text   string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s at line %d: %s: %q", ErrProtocol, e.Line, e.Reason, e.Text)
}

func (e *ProtocolError) Unwrap() error { return ErrProtocol }

type parseState int

const (
	awaitingImage parseState = iota
	awaitingSymbol
)

// ParseAssociations scans symchk output for ImageName:/PDB: marker pairs and
// returns them in encounter order. Unrelated lines are ignored and an image
// left without a PDB line at the end of input is dropped.
func ParseAssociations(lines []string) ([]Association, error) {
	state := awaitingImage
	var pendingBinary string
	associations := []Association{}

	for i, line := range lines {
		if idx := strings.Index(line, imageMarker); idx >= 0 {
			if state != awaitingImage {
				return nil, &ProtocolError{Line: i + 1, Text: line, Reason: "image name while a symbol file is pending"}
			}
			path := strings.TrimSpace(line[idx+len(imageMarker):])
			if path == "" {
				return nil, &ProtocolError{Line: i + 1, Text: line, Reason: "empty image name"}
			}
			pendingBinary = path
			state = awaitingSymbol
		}

		if strings.Contains(line, symbolMarker) {
			if state != awaitingSymbol {
				return nil, &ProtocolError{Line: i + 1, Text: line, Reason: "symbol file without an image name"}
			}
			path, ok := quoted(line)
			if !ok || path == "" {
				return nil, &ProtocolError{Line: i + 1, Text: line, Reason: "symbol file path is not quoted"}
			}
			associations = append(associations, Association{BinaryPath: pendingBinary, SymbolPath: path})
			pendingBinary = ""
			state = awaitingImage
		}
	}

	return associations, nil
}

// quoted returns the first double-quoted substring of s.
func quoted(s string) (string, bool) {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return "", false
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return "", false
	}
	return s[start+1 : start+1+end], true
}
