package service

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"trally-server/internal/domain"
)

type ImportMode string

const (
	ImportReplace ImportMode = "replace"
	ImportMerge   ImportMode = "merge"
)

func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case ImportReplace, "replaceall":
		return ImportReplace, nil
	case ImportMerge, "":
		return ImportMerge, nil
	}
	return "", domain.Validationf("unknown import mode %q", s)
}

var importedRows = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "trally_schedule_import_rows_total", Help: "Schedule rows inserted by spreadsheet import"},
	[]string{"mode"},
)

func init() { prometheus.MustRegister(importedRows) }

type ScheduleService struct {
	repo domain.ScheduleRepository
	l    *zap.Logger
}

func NewScheduleService(repo domain.ScheduleRepository, l *zap.Logger) *ScheduleService {
	return &ScheduleService{repo: repo, l: l}
}

func (s *ScheduleService) List(ctx context.Context) ([]domain.Schedule, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, domain.Store("list schedules", err)
	}
	if list == nil {
		list = []domain.Schedule{}
	}
	return list, nil
}

func (s *ScheduleService) Create(ctx context.Context, sc *domain.Schedule) error {
	normalizeSchedule(sc)
	return domain.Store("create schedule", s.repo.Create(ctx, sc))
}

func (s *ScheduleService) Update(ctx context.Context, id string, sc *domain.Schedule) error {
	normalizeSchedule(sc)
	sc.ID = id
	return domain.Store("update schedule", s.repo.Update(ctx, id, sc))
}

func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	return domain.Store("delete schedule", s.repo.Delete(ctx, id))
}

// BulkImport 행 단위 순차 저장. 중간 실패 시 이미 들어간 행은 그대로 남는다.
// merge: loaded 에 같은 회차가 있으면 건너뜀. replace: loaded 를 먼저 전부 삭제
func (s *ScheduleService) BulkImport(ctx context.Context, loaded, rows []domain.Schedule, mode ImportMode) (int, error) {
	valid := make([]domain.Schedule, 0, len(rows))
	for _, r := range rows {
		if r.Number != nil && *r.Number != 0 {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return 0, domain.Validation(`업로드할 유효한 데이터가 없습니다. 엑셀 첫 행에 "회차, 발제자, 사회자, 날짜, 주제, 장소, 게스트, 비고" 헤더가 있어야 합니다.`)
	}

	existing := map[int]struct{}{}
	if mode == ImportReplace {
		for _, sc := range loaded {
			// 다른 곳에서 이미 지운 행은 무시
			if err := s.repo.Delete(ctx, sc.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
				return 0, domain.Store("clear schedules", err)
			}
		}
	} else {
		for _, sc := range loaded {
			if sc.Number != nil {
				existing[*sc.Number] = struct{}{}
			}
		}
	}

	count := 0
	for i := range valid {
		row := valid[i]
		if mode != ImportReplace {
			if _, dup := existing[*row.Number]; dup {
				continue
			}
		}
		row.ID = ""
		normalizeSchedule(&row)
		if err := s.repo.Create(ctx, &row); err != nil {
			importedRows.WithLabelValues(string(mode)).Add(float64(count))
			s.l.Warn("schedule import stopped", zap.Int("inserted", count), zap.Error(err))
			return count, domain.Store("import schedule", err)
		}
		count++
	}
	importedRows.WithLabelValues(string(mode)).Add(float64(count))
	return count, nil
}

// normalizeSchedule 빈 문자열은 NULL 로 저장
func normalizeSchedule(sc *domain.Schedule) {
	for _, p := range []**string{&sc.Presenter, &sc.Moderator, &sc.Date, &sc.Topic, &sc.Location, &sc.Guest, &sc.Remarks} {
		if *p != nil && **p == "" {
			*p = nil
		}
	}
	if sc.Number != nil && *sc.Number == 0 {
		sc.Number = nil
	}
}
