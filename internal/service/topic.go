package service

import (
	"context"
	"strings"

	"trally-server/internal/domain"
	"trally-server/internal/feature/topic"
	"trally-server/internal/validation"
)

type TopicInput struct {
	Author    string  `json:"author" validate:"max=128"`
	Topic     string  `json:"topic" validate:"notblank"`
	Keywords  *string `json:"keywords" validate:"omitempty,max=255"`
	Date      *string `json:"date" validate:"omitempty,max=64"`
	Completed bool    `json:"completed"`
}

func (in TopicInput) toDomain() *domain.Topic {
	return &domain.Topic{
		Author:    strings.TrimSpace(in.Author),
		Topic:     strings.TrimSpace(in.Topic),
		Keywords:  blankToNil(in.Keywords),
		Date:      blankToNil(in.Date),
		Completed: in.Completed,
	}
}

type TopicService struct {
	repo     domain.TopicRepository
	ranks    map[string]int
	validate *validation.Validator
}

// NewTopicService ranks: 제안자 → 우선순위 (작을수록 먼저)
func NewTopicService(repo domain.TopicRepository, ranks map[string]int) *TopicService {
	return &TopicService{repo: repo, ranks: ranks, validate: validation.New()}
}

func (s *TopicService) List(ctx context.Context) ([]domain.Topic, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, domain.Store("list topics", err)
	}
	if list == nil {
		list = []domain.Topic{}
	}
	return list, nil
}

func (s *TopicService) Create(ctx context.Context, in TopicInput) (*domain.Topic, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	t := in.toDomain()
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, domain.Store("create topic", err)
	}
	return t, nil
}

func (s *TopicService) Update(ctx context.Context, id string, in TopicInput) error {
	if err := s.validate.Validate(in); err != nil {
		return err
	}
	return domain.Store("update topic", s.repo.Update(ctx, id, in.toDomain()))
}

func (s *TopicService) Delete(ctx context.Context, id string) error {
	return domain.Store("delete topic", s.repo.Delete(ctx, id))
}

// Grouped 제안자별 게시판 구성
func (s *TopicService) Grouped(topics []domain.Topic, filter string) topic.Board {
	return topic.Build(topics, filter, s.ranks)
}

func blankToNil(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
