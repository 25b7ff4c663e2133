package catalog

import (
	"fmt"
	"slices"

	"github.com/poiesic/ector/core"
)

// MessageKey is the key under which WorkflowResult.Map reports the
// informational message of an empty result.
const MessageKey = "message"

// WorkflowResult holds the tables assigned to each requested workflow.
// When no requested label matched any table, Assignments is empty and
// Message explains that nothing was processed.
type WorkflowResult struct {
	Region      string
	Assignments map[core.Label][]string
	Labels      []core.Label // Labels in the order they were first assigned
	Message     string
}

// Empty reports whether no table was assigned to any workflow.
func (wr *WorkflowResult) Empty() bool {
	return len(wr.Assignments) == 0
}

// Map flattens the result into label -> descriptions, or
// MessageKey -> [message] for an empty result.
func (wr *WorkflowResult) Map() map[string][]string {
	if wr.Empty() {
		return map[string][]string{MessageKey: {wr.Message}}
	}
	out := make(map[string][]string, len(wr.Assignments))
	for label, descriptions := range wr.Assignments {
		out[string(label)] = slices.Clone(descriptions)
	}
	return out
}

// FilterWorkflow assigns the tables of a region to the requested workflows.
//
// Tables are visited in registration order and, for each table, the
// requested labels in argument order; every match appends a description
// under that label. If nothing matches (including when no labels are given)
// the result carries only an informational message.
//
// Returns core.ErrInvalidRegion or core.ErrUnknownSchema from the lookups.
func (r *Registry) FilterWorkflow(code string, labels ...core.Label) (*WorkflowResult, error) {
	schema, err := r.ResolveRegion(code)
	if err != nil {
		return nil, err
	}
	tables, err := r.LookupTables(schema)
	if err != nil {
		return nil, err
	}

	result := &WorkflowResult{
		Region:      code,
		Assignments: make(map[core.Label][]string),
	}
	for _, table := range tables {
		for _, label := range labels {
			if !table.HasLabel(label) {
				continue
			}
			if _, seen := result.Assignments[label]; !seen {
				result.Labels = append(result.Labels, label)
			}
			result.Assignments[label] = append(result.Assignments[label], describe(label, table.Name, code))
		}
	}

	if result.Empty() {
		result.Message = fmt.Sprintf("No specific args provided for region %s. No processing done.", code)
	}
	return result, nil
}

func describe(label core.Label, table, region string) string {
	return fmt.Sprintf("Processing %s data from '%s' for region %s", label, table, region)
}
