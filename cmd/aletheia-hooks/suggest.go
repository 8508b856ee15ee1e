package main

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sahilm/fuzzy"

	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

// suggest returns the best fuzzy match for input among candidates, or "".
func suggest(input string, candidates []string) string {
	matches := fuzzy.Find(strings.ToLower(input), candidates)
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}

func unknownEventError(name string) error {
	names := make([]string, 0, len(hook.Events))
	for _, e := range hook.Events {
		names = append(names, string(e))
	}

	err := errors.Wrapf(hook.ErrUnknownEvent, "%q", name)

	if s := suggest(name, names); s != "" {
		return errors.WithHintf(err, "did you mean %s?", s)
	}

	return errors.WithHintf(err, "valid types: %s", strings.Join(names, ", "))
}
