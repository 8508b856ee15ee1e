// Package hookresponse builds hook outputs and writes them to stdout.
package hookresponse

import (
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

// Write encodes out as a single JSON line. A nil output writes nothing.
func Write(w io.Writer, out *hook.Output) error {
	if out == nil {
		return nil
	}

	data, err := json.Marshal(out)
	if err != nil {
		return errors.Wrap(err, "encoding hook output")
	}

	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "writing hook output")
	}

	return nil
}
