package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trally-server/internal/domain"
	"trally-server/internal/service"
)

func num(n int) *int        { return &n }
func str(s string) *string { return &s }

func TestSchedule_CRUDNormalizesBlanks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sc := &domain.Schedule{Number: num(1), Presenter: str("민구"), Guest: str("")}
	require.NoError(t, f.sched.Create(ctx, sc))
	require.NotEmpty(t, sc.ID)
	assert.Nil(t, sc.Guest)

	require.NoError(t, f.sched.Update(ctx, sc.ID, &domain.Schedule{Number: num(0), Topic: str("주제")}))
	list, err := f.sched.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Number)
	assert.Nil(t, list[0].Presenter)
	assert.Equal(t, "주제", *list[0].Topic)

	require.NoError(t, f.sched.Delete(ctx, sc.ID))
	list, err = f.sched.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, f.sched.Delete(ctx, sc.ID), domain.ErrNotFound)
	assert.ErrorIs(t, f.sched.Update(ctx, sc.ID, &domain.Schedule{Number: num(2)}), domain.ErrNotFound)
}

func TestSchedule_ReplaceIgnoresRowsAlreadyGone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sc := &domain.Schedule{Number: num(1)}
	require.NoError(t, f.sched.Create(ctx, sc))
	loaded, err := f.sched.List(ctx)
	require.NoError(t, err)
	require.NoError(t, f.sched.Delete(ctx, sc.ID))

	n, err := f.sched.BulkImport(ctx, loaded, []domain.Schedule{{Number: num(2)}}, service.ImportReplace)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSchedule_BulkImportMergeSkipsLoadedNumbers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.sched.Create(ctx, &domain.Schedule{Number: num(5), Presenter: str("기존")}))
	loaded, err := f.sched.List(ctx)
	require.NoError(t, err)

	n, err := f.sched.BulkImport(ctx, loaded, []domain.Schedule{{Number: num(5), Presenter: str("새")}}, service.ImportMerge)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	list, err := f.sched.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "기존", *list[0].Presenter)
}

func TestSchedule_BulkImportReplaceInsertsAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.sched.Create(ctx, &domain.Schedule{Number: num(5), Presenter: str("기존")}))
	require.NoError(t, f.sched.Create(ctx, &domain.Schedule{Number: num(9)}))
	loaded, err := f.sched.List(ctx)
	require.NoError(t, err)

	rows := []domain.Schedule{
		{Number: num(5), Presenter: str("새")},
		{Number: num(6)},
		{Presenter: str("회차 없음")},
	}
	n, err := f.sched.BulkImport(ctx, loaded, rows, service.ImportReplace)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := f.sched.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 6, *list[0].Number, "number desc")
	assert.Equal(t, "새", *list[1].Presenter)
}

func TestSchedule_BulkImportNoValidRows(t *testing.T) {
	f := newFixture(t)
	_, err := f.sched.BulkImport(context.Background(), nil, []domain.Schedule{{Topic: str("x")}}, service.ImportMerge)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseImportMode(t *testing.T) {
	m, err := service.ParseImportMode("Replace")
	require.NoError(t, err)
	assert.Equal(t, service.ImportReplace, m)
	m, err = service.ParseImportMode("")
	require.NoError(t, err)
	assert.Equal(t, service.ImportMerge, m)
	_, err = service.ParseImportMode("upsert")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
