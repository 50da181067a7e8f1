package contract

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

// --- DateUpdateRequest wire format ---

func TestDateUpdateRequest_MarshalThreeStates(t *testing.T) {
	data, err := json.Marshal(DateUpdateRequest{PlannedStartDate: strp("2024-01-02"), ClearEnd: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"planned_start_date": "2024-01-02", "planned_end_date": null}`, string(data))

	data, err = json.Marshal(DateUpdateRequest{PlannedEndDate: strp("2024-01-09")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"planned_end_date": "2024-01-09"}`, string(data))
}

func TestDateUpdateRequest_UnmarshalDistinguishesNullFromAbsent(t *testing.T) {
	var r DateUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"planned_start_date": null}`), &r))

	assert.True(t, r.ClearStart)
	assert.Nil(t, r.PlannedStartDate)
	assert.False(t, r.ClearEnd)
	assert.Nil(t, r.PlannedEndDate)

	require.NoError(t, json.Unmarshal([]byte(`{"planned_end_date": "2024-05-01"}`), &r))
	assert.False(t, r.ClearStart, "decoding resets prior state")
	assert.Equal(t, "2024-05-01", *r.PlannedEndDate)

	assert.Error(t, json.Unmarshal([]byte(`{"planned_end_date": 12}`), &r))
}

func TestDateUpdateRequest_Validate(t *testing.T) {
	assert.Empty(t, DateUpdateRequest{PlannedStartDate: strp("2024-01-01")}.Validate())
	assert.Empty(t, DateUpdateRequest{ClearStart: true, ClearEnd: true}.Validate())

	assert.Len(t, DateUpdateRequest{}.Validate(), 1)

	errs := DateUpdateRequest{
		PlannedStartDate: strp("2024-02-01"),
		PlannedEndDate:   strp("2024-01-01"),
	}.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "must not be before")

	errs = DateUpdateRequest{PlannedStartDate: strp("01/02/2024"), ClearStart: true}.Validate()
	assert.Len(t, errs, 2, "reports every problem")
}

// --- DependencyRequest ---

func TestDependencyRequest_Validate(t *testing.T) {
	assert.Empty(t, DependencyRequest{PredecessorID: "a", SuccessorID: "b"}.Validate())

	errs := DependencyRequest{PredecessorID: "a", SuccessorID: "a", DependencyType: "XY"}.Validate()
	assert.Len(t, errs, 2)

	errs = DependencyRequest{}.Validate()
	assert.Len(t, errs, 2)
}

func TestDependencyRequest_Edge(t *testing.T) {
	e := DependencyRequest{PredecessorID: "a", SuccessorID: "b", DependencyType: "ff", LagDays: -1}.Edge()

	assert.Equal(t, "FF", string(e.Type))
	assert.Equal(t, -1, e.LagDays)
}

// --- BaselineRequest ---

func TestBaselineRequest_Validate(t *testing.T) {
	assert.Empty(t, BaselineRequest{TaskIDs: []string{"a", "b"}}.Validate())
	assert.Len(t, BaselineRequest{}.Validate(), 1)
	assert.Len(t, BaselineRequest{TaskIDs: []string{"a", "", "a"}}.Validate(), 2)
}

func TestBaselineRequest_OmitsNilName(t *testing.T) {
	data, err := json.Marshal(BaselineRequest{TaskIDs: []string{"a"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"task_ids": ["a"]}`, string(data))
}

func TestJoinErrors(t *testing.T) {
	assert.NoError(t, JoinErrors(nil))

	err := JoinErrors(DependencyRequest{}.Validate())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
	assert.Contains(t, err.Error(), "predecessor_id is required; successor_id is required")
}
