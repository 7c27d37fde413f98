package transactions

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"LabCV-backend/internal/ledger"
	"LabCV-backend/internal/platform/apierr"
	"LabCV-backend/internal/platform/metrics"
)

type applied struct {
	student, name string
	action        ledger.Action
	delta         int
}

type fakeRepo struct {
	students  map[string]int
	equipment map[string]bool
	applied   []applied
	failOn    string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		students:  map[string]int{"TEST001": 0},
		equipment: map[string]bool{"Beaker": true, "Funnel": true, "Graduated Cylinder": true},
	}
}

func (f *fakeRepo) StudentExists(_ context.Context, id string) (bool, error) {
	_, ok := f.students[id]
	return ok, nil
}

func (f *fakeRepo) EquipmentExists(_ context.Context, name string) (bool, error) {
	return f.equipment[name], nil
}

func (f *fakeRepo) EquipmentCount(_ context.Context, id string) (int, error) {
	return f.students[id], nil
}

func (f *fakeRepo) ApplyItem(_ context.Context, id, name string, action ledger.Action, delta int) (int, error) {
	if name == f.failOn {
		return 0, errors.New("disk full")
	}
	f.applied = append(f.applied, applied{id, name, action, delta})
	n := f.students[id] + delta
	if n < 0 {
		n = 0
	}
	f.students[id] = n
	return n, nil
}

type fakeRecognizer struct {
	names []string
	err   error
}

func (fakeRecognizer) Enabled() bool { return true }
func (f fakeRecognizer) Recognize(context.Context, []byte, string) ([]string, error) {
	return f.names, f.err
}

func newFakeService(repo Repository, rec Recognizer) (*Service, *metrics.Metrics) {
	m := metrics.New()
	return NewService(repo, rec, m, zap.NewNop()), m
}

func TestSubmitWholeRequestErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFakeService(newFakeRepo(), nil)
	items := []Item{{EquipmentName: "Beaker", Quantity: 1}}

	cases := []struct {
		name string
		req  Request
		code apierr.Code
	}{
		{"empty id", Request{StudentID: "  ", Action: "borrow", Items: items}, apierr.CodeInvalidArgument},
		{"unknown student", Request{StudentID: "NOPE", Action: "borrow", Items: items}, apierr.CodeNotFound},
		{"bad action", Request{StudentID: "TEST001", Action: "steal", Items: items}, apierr.CodeInvalidArgument},
		{"no items", Request{StudentID: "TEST001", Action: "borrow"}, apierr.CodeInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tc.req)
			require.Error(t, err)
			assert.Equal(t, tc.code, apierr.CodeOf(err))
		})
	}
}

func TestSubmitPartialBatch(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, m := newFakeService(repo, nil)

	res, err := svc.Submit(ctx, Request{
		StudentID: " TEST001 ",
		Action:    "borrow",
		Items: []Item{
			{EquipmentName: " Beaker ", Quantity: 2},
			{EquipmentName: "Nonexistent", Quantity: 1},
			{EquipmentName: "Funnel", Quantity: 0},
			{EquipmentName: "  ", Quantity: 1},
			{EquipmentName: "Funnel", Quantity: 3},
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 5)

	assert.True(t, res.Items[0].OK)
	assert.Equal(t, "Beaker", res.Items[0].EquipmentName)
	assert.Equal(t, "Borrowed 2 x Beaker", res.Items[0].Message)
	assert.Equal(t, apierr.CodeNotFound, res.Items[1].Code)
	assert.Equal(t, "equipment", res.Items[1].Message)
	assert.Equal(t, apierr.CodeInvalidArgument, res.Items[2].Code)
	assert.Equal(t, "quantity must be at least 1", res.Items[2].Message)
	assert.Equal(t, apierr.CodeInvalidArgument, res.Items[3].Code)
	assert.True(t, res.Items[4].OK)

	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 3, res.Failed)
	assert.Equal(t, 5, res.EquipmentCount)
	assert.Equal(t, "Borrow partially logged (2 of 5 items)", res.Summary)

	// 失敗した明細は適用されない
	require.Len(t, repo.applied, 2)
	assert.Equal(t, applied{"TEST001", "Beaker", ledger.ActionBorrow, 2}, repo.applied[0])
	assert.Equal(t, applied{"TEST001", "Funnel", ledger.ActionBorrow, 3}, repo.applied[1])

	const want = `
# HELP labcv_transaction_units_total Units of equipment successfully borrowed or returned.
# TYPE labcv_transaction_units_total counter
labcv_transaction_units_total{action="borrow"} 5
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(want), "labcv_transaction_units_total"))
}

func TestSubmitCommaSeparatedEquipment(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, _ := newFakeService(repo, nil)

	res, err := svc.Submit(ctx, Request{StudentID: "TEST001", Action: "borrow", Equipment: "Beaker, Funnel,,"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 2, res.EquipmentCount)
}

func TestSubmitStorageFailureIsPerItem(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.failOn = "Funnel"
	svc, _ := newFakeService(repo, nil)

	res, err := svc.Submit(ctx, Request{
		StudentID: "TEST001",
		Action:    "borrow",
		Items:     []Item{{EquipmentName: "Funnel", Quantity: 1}, {EquipmentName: "Beaker", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, apierr.CodeInternal, res.Items[0].Code)
	assert.Equal(t, "internal error", res.Items[0].Message)
	assert.True(t, res.Items[1].OK)
	assert.Equal(t, 1, res.EquipmentCount)
}

func TestSubmitAllFailedReportsCurrentCount(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.students["TEST001"] = 4
	svc, _ := newFakeService(repo, nil)

	res, err := svc.Submit(ctx, Request{
		StudentID: "TEST001",
		Action:    "return",
		Items:     []Item{{EquipmentName: "Nonexistent", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Succeeded)
	assert.Equal(t, 4, res.EquipmentCount)
	assert.Equal(t, "Return failed for all 1 items", res.Summary)
}

func TestSubmitDetected(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, _ := newFakeService(repo, fakeRecognizer{names: []string{"Beaker", "Funnel"}})

	res, err := svc.SubmitDetected(ctx, "TEST001", "borrow", []byte("img"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded)
	for _, it := range res.Items {
		assert.Equal(t, 1, it.Quantity)
	}

	_, err = svc.SubmitDetected(ctx, "NOPE", "borrow", []byte("img"), "image/png")
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))

	empty, _ := newFakeService(repo, fakeRecognizer{})
	_, err = empty.SubmitDetected(ctx, "TEST001", "borrow", []byte("img"), "image/png")
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))

	none, _ := newFakeService(repo, nil)
	_, err = none.SubmitDetected(ctx, "TEST001", "borrow", []byte("img"), "image/png")
	assert.True(t, apierr.Is(err, apierr.CodeUnavailable))
}
