package symchk

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultSymbolServer is the public Microsoft symbol server.
const DefaultSymbolServer = "http://msdl.microsoft.com/download/symbols"

// Request describes one symchk run.
type Request struct {
	BinaryRoot string // searched recursively
	CacheDir   string // downstream store for downloaded symbols
	Server     string // symbol server URL
}

// BuildArgs constructs the symchk argv for a recursive, verbose lookup
// against SRV*<cache>*<server>.
func BuildArgs(req Request) ([]string, error) {
	if strings.TrimSpace(req.BinaryRoot) == "" {
		return nil, errors.New("binary root is required")
	}
	if strings.TrimSpace(req.CacheDir) == "" {
		return nil, errors.New("symbol cache directory is required")
	}
	server := req.Server
	if server == "" {
		server = DefaultSymbolServer
	}

	return []string{
		"/r", req.BinaryRoot,
		"/s", fmt.Sprintf("SRV*%s*%s", req.CacheDir, server),
		"/v",
	}, nil
}
