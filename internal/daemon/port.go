package daemon

import (
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

const maxPort = 65535

// ReadPort reads a decimal TCP port from path. The file is read on every
// call; a daemon restart on a new port is picked up without caching.
func ReadPort(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.CombineErrors(ErrNoEndpoint, err)
	}

	return ParsePort(string(data))
}

// ParsePort accepts surrounding whitespace and nothing else.
func ParsePort(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, errors.Wrap(ErrNoEndpoint, "port file is empty")
	}

	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, errors.Wrapf(ErrNoEndpoint, "port %q is not a number", text)
		}
	}

	port, err := strconv.Atoi(text)
	if err != nil {
		return 0, errors.Wrapf(ErrNoEndpoint, "port %q is not a number", text)
	}

	if port < 1 || port > maxPort {
		return 0, errors.Wrapf(ErrNoEndpoint, "port %d out of range", port)
	}

	return port, nil
}
