package filter

import (
	"slices"

	"github.com/rezkam/fieldsched/internal/domain"
)

// OptionKind tells what a group option refers to.
type OptionKind string

const (
	OptionUnassigned OptionKind = "unassigned"
	OptionTeam       OptionKind = "team"
	OptionEmployee   OptionKind = "employee"
)

// Option is one entry of the group picker.
type Option struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Kind  OptionKind `json:"kind"`
}

// UnassignedLabel is the label shown for the unassigned sentinel.
const UnassignedLabel = "Nieprzypisane"

// GroupOptions returns the group picker entries compatible with the selected types.
//
// Crew types (inspection, installation) are worked by teams and the training type by
// employees. When only one category is selected, only its ids are offered; when both
// or neither are, everything is offered. The unassigned sentinel always comes first.
func GroupOptions(selectedTypes []string, teams []domain.Team, employees []domain.Employee) []Option {
	var crew, training bool
	for _, t := range selectedTypes {
		t = domain.NormalizeType(t)
		if slices.Contains(domain.CrewTypes, t) {
			crew = true
		}
		if slices.Contains(domain.EmployeeTypes, t) {
			training = true
		}
	}
	all := crew == training

	opts := make([]Option, 0, 1+len(teams)+len(employees))
	opts = append(opts, Option{Key: domain.Unassigned, Label: UnassignedLabel, Kind: OptionUnassigned})
	if all || crew {
		for _, team := range teams {
			opts = append(opts, Option{Key: team.ID.String(), Label: team.Name, Kind: OptionTeam})
		}
	}
	if all || training {
		for _, e := range employees {
			opts = append(opts, Option{Key: e.ID.String(), Label: e.FullName(), Kind: OptionEmployee})
		}
	}
	return opts
}

// TypeOptions returns the open set of type tags: the conventional ones, those
// present on tasks and any the user appended. Tags are normalized, de-duplicated
// and sorted.
func TypeOptions(tasks []domain.Task, extra []string) []string {
	tags := make([]string, 0, len(domain.CrewTypes)+len(domain.EmployeeTypes)+len(extra))
	tags = append(tags, domain.CrewTypes...)
	tags = append(tags, domain.EmployeeTypes...)
	for _, t := range tasks {
		tags = append(tags, domain.NormalizeType(t.Type))
	}
	for _, e := range extra {
		tags = append(tags, domain.NormalizeType(e))
	}
	return NormalizeSet(tags)
}
