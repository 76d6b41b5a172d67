package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"trally-server/internal/core/cache"
	"trally-server/internal/core/config"
	"trally-server/internal/domain"
	"trally-server/internal/notify"
	"trally-server/internal/validation"
	"trally-server/pkg/utils"
)

type RegisterInput struct {
	Name            string `json:"name" validate:"notblank,max=64"`
	Username        string `json:"username" validate:"notblank,max=64"`
	Password        string `json:"password" validate:"required,max=72"`
	PasswordConfirm string `json:"password_confirm"`
	Email           string `json:"email" validate:"omitempty,email,max=191"`
	Intro           string `json:"intro" validate:"max=2000"`
}

// Identity 토큰 검증 후 미들웨어가 확인하는 현재 상태
type Identity struct {
	ID       string `json:"id"`
	Role     string `json:"role"`
	Approved bool   `json:"approved"`
}

type DirectoryService struct {
	users     domain.UserRepository
	notifier  notify.Gateway
	cache     *cache.Cache
	validate  *validation.Validator
	l         *zap.Logger
	statusTTL time.Duration
	now       func() time.Time
}

func NewDirectoryService(users domain.UserRepository, notifier notify.Gateway, c *cache.Cache, l *zap.Logger, statusTTL time.Duration) *DirectoryService {
	return &DirectoryService{
		users:     users,
		notifier:  notifier,
		cache:     c,
		validate:  validation.New(),
		l:         l,
		statusTTL: statusTTL,
		now:       time.Now,
	}
}

func statusKey(id string) string { return "user:status:" + id }

// CheckUsernameExists 승인 여부와 무관하게 전체 사용자 대상
func (s *DirectoryService) CheckUsernameExists(ctx context.Context, username string) (bool, error) {
	ok, err := s.users.UsernameExists(ctx, strings.TrimSpace(username))
	return ok, domain.Store("check username", err)
}

func (s *DirectoryService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	if in.Password != in.PasswordConfirm {
		return nil, domain.Validation("비밀번호가 일치하지 않습니다.")
	}
	username := strings.TrimSpace(in.Username)
	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, domain.Store("check username", err)
	}
	if exists {
		return nil, domain.Validation("이미 사용중인 아이디입니다.")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, domain.Validationf("password: %v", err)
	}
	u := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Username:     username,
		PasswordHash: hash,
		Email:        strings.TrimSpace(in.Email),
		Intro:        in.Intro,
		Role:         domain.RoleMember,
		Approved:     false,
		RequestDate:  s.now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, domain.Store("create user", err)
	}

	if err := s.notifier.NotifyAdmin(ctx, u); err != nil {
		s.l.Warn("admin notification failed", zap.String("username", u.Username), zap.Error(err))
	}
	return u, nil
}

// Authenticate 승인된 사용자 + 비밀번호 일치일 때만 반환, 아니면 (nil, nil)
func (s *DirectoryService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.users.FindApproved(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, domain.Store("find user", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, nil
	}
	return u, nil
}

func (s *DirectoryService) Approve(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetApproved(ctx, id, true); err != nil {
		return nil, domain.Store("approve user", err)
	}
	u.Approved = true
	s.invalidate(ctx, id)

	if err := s.notifier.NotifyUser(ctx, u, true); err != nil {
		s.l.Warn("approval notification failed", zap.String("user_id", id), zap.Error(err))
	}
	return u, nil
}

// Reject 가입 신청 삭제. 알림은 삭제 전에 읽어 둔 사본으로 보낸다
func (s *DirectoryService) Reject(ctx context.Context, id string) (*domain.User, error) {
	snapshot, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return nil, domain.Store("reject user", err)
	}
	s.invalidate(ctx, id)

	if err := s.notifier.NotifyUser(ctx, snapshot, false); err != nil {
		s.l.Warn("rejection notification failed", zap.String("user_id", id), zap.Error(err))
	}
	return snapshot, nil
}

func (s *DirectoryService) Unapprove(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetApproved(ctx, id, false); err != nil {
		return nil, domain.Store("unapprove user", err)
	}
	u.Approved = false
	s.invalidate(ctx, id)
	return u, nil
}

func (s *DirectoryService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return domain.Store("delete user", err)
	}
	s.invalidate(ctx, id)
	return nil
}

// ListApproved 관리자 계정은 회원 목록에서 제외
func (s *DirectoryService) ListApproved(ctx context.Context) ([]domain.User, error) {
	all, err := s.users.ListByApproval(ctx, true)
	if err != nil {
		return nil, domain.Store("list users", err)
	}
	out := make([]domain.User, 0, len(all))
	for _, u := range all {
		if u.Role == domain.RoleMember {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *DirectoryService) ListPending(ctx context.Context) ([]domain.User, error) {
	list, err := s.users.ListByApproval(ctx, false)
	if err != nil {
		return nil, domain.Store("list pending users", err)
	}
	if list == nil {
		list = []domain.User{}
	}
	return list, nil
}

func (s *DirectoryService) Find(ctx context.Context, id string) (*domain.User, error) {
	return s.mustFind(ctx, id)
}

// Active 미들웨어용: 승인 상태를 캐시에서 조회. 삭제/미승인이면 nil
func (s *DirectoryService) Active(ctx context.Context, id string) (*Identity, error) {
	st, err := cache.GetOrLoadJSON(s.cache, ctx, statusKey(id), s.statusTTL, func(ctx context.Context) (*Identity, error) {
		u, err := s.users.FindByID(ctx, id)
		if err != nil || u == nil {
			return nil, err
		}
		return &Identity{ID: u.ID, Role: u.Role, Approved: u.Approved}, nil
	})
	if err != nil {
		return nil, domain.Store("load user status", err)
	}
	if st == nil || !st.Approved {
		return nil, nil
	}
	return st, nil
}

// EnsureAdmin bootstrap.admin 계정이 없으면 승인된 관리자로 만든다
func (s *DirectoryService) EnsureAdmin(ctx context.Context, a config.BootstrapAdmin) (bool, error) {
	username := strings.TrimSpace(a.Username)
	if username == "" || a.Password == "" {
		return false, nil
	}
	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return false, domain.Store("check admin", err)
	}
	if exists {
		return false, nil
	}
	name := a.Name
	if name == "" {
		name = username
	}
	hash, err := utils.HashPassword(a.Password)
	if err != nil {
		return false, err
	}
	u := &domain.User{
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		Email:        a.Email,
		Role:         domain.RoleAdmin,
		Approved:     true,
		RequestDate:  s.now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return false, domain.Store("create admin", err)
	}
	return true, nil
}

func (s *DirectoryService) mustFind(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Store("find user", err)
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}
	return u, nil
}

func (s *DirectoryService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, statusKey(id)); err != nil {
		s.l.Warn("status cache invalidate failed", zap.String("user_id", id), zap.Error(err))
	}
}
