package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trally-server/internal/core/database/dbtest"
	"trally-server/internal/domain"
	"trally-server/internal/repo"
)

func seedYear(t *testing.T, r *repo.AttendanceRepo, year int) (*domain.AttendanceYear, *domain.AttendanceMember, *domain.AttendanceScheduleEntry) {
	t.Helper()
	ctx := context.Background()
	y := &domain.AttendanceYear{Year: year}
	require.NoError(t, r.CreateYear(ctx, y))
	m := &domain.AttendanceMember{YearID: y.ID, Name: "민구", SortOrder: 1}
	require.NoError(t, r.CreateMember(ctx, m))
	e := &domain.AttendanceScheduleEntry{YearID: y.ID, ScheduleDate: "1/11", SortOrder: 1}
	require.NoError(t, r.CreateEntry(ctx, e))
	require.NoError(t, r.UpsertRecord(ctx, &domain.AttendanceRecord{ScheduleID: e.ID, MemberID: m.ID, Attendance: domain.MarkPresent}))
	return y, m, e
}

func TestAttendanceRepo_UpsertRecordKeepsOneRowPerCell(t *testing.T) {
	ctx := context.Background()
	r := repo.NewAttendanceRepo(dbtest.Open(t))
	_, m, e := seedYear(t, r, 2025)

	require.NoError(t, r.UpsertRecord(ctx, &domain.AttendanceRecord{
		ScheduleID: e.ID, MemberID: m.ID, Attendance: domain.MarkAbsent, Reason: "출장", RecordDate: "1/10",
	}))

	recs, err := r.ListRecords(ctx, []string{e.ID})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, domain.MarkAbsent, recs[0].Attendance)
	assert.Equal(t, "출장", recs[0].Reason)
	assert.Equal(t, "1/10", recs[0].RecordDate)

	found, err := r.FindRecord(ctx, e.ID, m.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, recs[0].ID, found.ID)
}

func TestAttendanceRepo_FindRecordMissingIsNil(t *testing.T) {
	r := repo.NewAttendanceRepo(dbtest.Open(t))
	rec, err := r.FindRecord(context.Background(), "nope", "nope")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestAttendanceRepo_ListRecordsEmptyIDs(t *testing.T) {
	r := repo.NewAttendanceRepo(dbtest.Open(t))
	recs, err := r.ListRecords(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestAttendanceRepo_DeleteYearCascades(t *testing.T) {
	ctx := context.Background()
	r := repo.NewAttendanceRepo(dbtest.Open(t))
	y, _, e := seedYear(t, r, 2025)
	other, _, otherEntry := seedYear(t, r, 2026)

	require.NoError(t, r.DeleteYear(ctx, y.ID))

	years, err := r.ListYears(ctx)
	require.NoError(t, err)
	require.Len(t, years, 1)
	assert.Equal(t, other.ID, years[0].ID)

	members, err := r.ListMembers(ctx, y.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
	entries, err := r.ListEntries(ctx, y.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
	recs, err := r.ListRecords(ctx, []string{e.ID, otherEntry.ID})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, otherEntry.ID, recs[0].ScheduleID)

	require.ErrorIs(t, r.DeleteYear(ctx, y.ID), domain.ErrNotFound)
}

func TestAttendanceRepo_FindMemberAndEntry(t *testing.T) {
	ctx := context.Background()
	r := repo.NewAttendanceRepo(dbtest.Open(t))
	y, m, e := seedYear(t, r, 2025)

	gotM, err := r.FindMember(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, gotM)
	assert.Equal(t, y.ID, gotM.YearID)
	gotE, err := r.FindEntry(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, gotE)
	assert.Equal(t, y.ID, gotE.YearID)

	gotM, err = r.FindMember(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, gotM)
	gotE, err = r.FindEntry(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, gotE)
}

func TestAttendanceRepo_DeleteMemberAndEntryRemoveRecords(t *testing.T) {
	ctx := context.Background()
	r := repo.NewAttendanceRepo(dbtest.Open(t))
	y, m, e := seedYear(t, r, 2025)

	require.NoError(t, r.DeleteMember(ctx, m.ID))
	recs, err := r.ListRecords(ctx, []string{e.ID})
	require.NoError(t, err)
	assert.Empty(t, recs)

	m2 := &domain.AttendanceMember{YearID: y.ID, Name: "다흰", SortOrder: 2}
	require.NoError(t, r.CreateMember(ctx, m2))
	require.NoError(t, r.UpsertRecord(ctx, &domain.AttendanceRecord{ScheduleID: e.ID, MemberID: m2.ID, Attendance: domain.MarkPresent}))
	require.NoError(t, r.DeleteEntry(ctx, e.ID))
	recs, err = r.ListRecords(ctx, []string{e.ID})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestAttendanceRepo_OrderBySortOrderAndYear(t *testing.T) {
	ctx := context.Background()
	r := repo.NewAttendanceRepo(dbtest.Open(t))
	y := &domain.AttendanceYear{Year: 2024}
	require.NoError(t, r.CreateYear(ctx, y))
	require.NoError(t, r.CreateYear(ctx, &domain.AttendanceYear{Year: 2026}))
	require.NoError(t, r.CreateMember(ctx, &domain.AttendanceMember{YearID: y.ID, Name: "b", SortOrder: 2}))
	require.NoError(t, r.CreateMember(ctx, &domain.AttendanceMember{YearID: y.ID, Name: "a", SortOrder: 1}))

	years, err := r.ListYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2026, years[0].Year)

	members, err := r.ListMembers(ctx, y.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "a", members[0].Name)

	got, err := r.FindYear(ctx, y.ID)
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year)
	missing, err := r.FindYear(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
