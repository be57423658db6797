package bucket

import (
	"slices"
	"strconv"
	"strings"

	"github.com/rezkam/fieldsched/internal/domain"
)

// GroupKeys returns the column keys of a day view: every group present in tasks
// plus every known team, so empty teams still get a column.
// Keys are ordered numerically, non-numeric keys follow in lexical order and
// domain.Unassigned is always last.
func GroupKeys(tasks []domain.Task, teams []domain.Team) []string {
	seen := make(map[string]struct{}, len(tasks)+len(teams))
	for _, t := range tasks {
		seen[t.GroupKey()] = struct{}{}
	}
	for _, team := range teams {
		if team.ID == "" {
			continue
		}
		seen[team.ID.String()] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareGroupKeys)
	return keys
}

func compareGroupKeys(a, b string) int {
	if a == b {
		return 0
	}
	if a == domain.Unassigned {
		return 1
	}
	if b == domain.Unassigned {
		return -1
	}

	an, aErr := strconv.ParseInt(a, 10, 64)
	bn, bErr := strconv.ParseInt(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		if an < bn {
			return -1
		}
		if an > bn {
			return 1
		}
		// "05" and "5"
		return strings.Compare(a, b)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
