package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/ganttline/internal/domain"
)

// DateUpdateRequest changes a task's planned dates. Each field has three
// states on the wire: absent (unchanged), null (clear) or a date (set).
type DateUpdateRequest struct {
	PlannedStartDate *string
	PlannedEndDate   *string
	ClearStart       bool
	ClearEnd         bool
}

type dateField struct {
	key   string
	value *string
	clear bool
}

func (r DateUpdateRequest) fields() []dateField {
	return []dateField{
		{key: "planned_start_date", value: r.PlannedStartDate, clear: r.ClearStart},
		{key: "planned_end_date", value: r.PlannedEndDate, clear: r.ClearEnd},
	}
}

// MarshalJSON writes clears as explicit nulls and omits unchanged fields.
func (r DateUpdateRequest) MarshalJSON() ([]byte, error) {
	out := make(map[string]*string, 2)
	for _, f := range r.fields() {
		switch {
		case f.clear:
			out[f.key] = nil
		case f.value != nil:
			out[f.key] = f.value
		}
	}
	return json.Marshal(out)
}

func (r *DateUpdateRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = DateUpdateRequest{}
	decode := func(key string, value **string, clear *bool) error {
		msg, ok := raw[key]
		if !ok {
			return nil
		}
		if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			*clear = true
			return nil
		}
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*value = &s
		return nil
	}
	if err := decode("planned_start_date", &r.PlannedStartDate, &r.ClearStart); err != nil {
		return err
	}
	return decode("planned_end_date", &r.PlannedEndDate, &r.ClearEnd)
}

// Validate returns every problem found, not just the first.
func (r DateUpdateRequest) Validate() []error {
	var errs []error
	changed := false
	for _, f := range r.fields() {
		if f.clear && f.value != nil {
			errs = append(errs, fmt.Errorf("%s: cannot both set and clear", f.key))
		}
		if f.value != nil {
			if _, err := ParseDate(*f.value); err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", f.key, *f.value))
			}
		}
		changed = changed || f.clear || f.value != nil
	}
	if !changed {
		errs = append(errs, fmt.Errorf("date update changes nothing"))
	}
	if r.PlannedStartDate != nil && r.PlannedEndDate != nil {
		start, startErr := ParseDate(*r.PlannedStartDate)
		end, endErr := ParseDate(*r.PlannedEndDate)
		if startErr == nil && endErr == nil && end.Before(start) {
			errs = append(errs, fmt.Errorf("planned_end_date %q must not be before planned_start_date %q",
				*r.PlannedEndDate, *r.PlannedStartDate))
		}
	}
	return errs
}

// DependencyRequest creates or deletes one dependency edge.
type DependencyRequest struct {
	PredecessorID  string `json:"predecessor_id"`
	SuccessorID    string `json:"successor_id"`
	DependencyType string `json:"dependency_type"`
	LagDays        int    `json:"lag_days"`
}

func (r DependencyRequest) Validate() []error {
	var errs []error
	if strings.TrimSpace(r.PredecessorID) == "" {
		errs = append(errs, fmt.Errorf("predecessor_id is required"))
	}
	if strings.TrimSpace(r.SuccessorID) == "" {
		errs = append(errs, fmt.Errorf("successor_id is required"))
	}
	if r.PredecessorID != "" && r.PredecessorID == r.SuccessorID {
		errs = append(errs, fmt.Errorf("task %q cannot depend on itself", r.PredecessorID))
	}
	if _, err := domain.ParseDependencyType(r.DependencyType); err != nil {
		errs = append(errs, fmt.Errorf("dependency_type: %w", err))
	}
	return errs
}

// Edge resolves the request into a domain edge. Call Validate first.
func (r DependencyRequest) Edge() domain.DependencyEdge {
	dt, err := domain.ParseDependencyType(r.DependencyType)
	if err != nil {
		dt = domain.DepFinishToStart
	}
	return domain.DependencyEdge{
		PredecessorID: r.PredecessorID,
		SuccessorID:   r.SuccessorID,
		Type:          dt,
		LagDays:       r.LagDays,
	}
}

// BaselineRequest snapshots the planned dates of a set of tasks.
type BaselineRequest struct {
	TaskIDs      []string `json:"task_ids"`
	BaselineName *string  `json:"baseline_name,omitempty"`
}

func (r BaselineRequest) Validate() []error {
	var errs []error
	if len(r.TaskIDs) == 0 {
		errs = append(errs, fmt.Errorf("task_ids must not be empty"))
	}
	seen := make(map[string]bool, len(r.TaskIDs))
	for i, id := range r.TaskIDs {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, fmt.Errorf("task_ids[%d] is empty", i))
			continue
		}
		if seen[id] {
			errs = append(errs, fmt.Errorf("task_ids[%d]: duplicate id %q", i, id))
		}
		seen[id] = true
	}
	if r.BaselineName != nil && len(*r.BaselineName) > 200 {
		errs = append(errs, fmt.Errorf("baseline_name exceeds 200 characters"))
	}
	return errs
}

// JoinErrors flattens a validation result into one error, or nil.
func JoinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}
