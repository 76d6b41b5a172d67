// Package notify sends registration and approval mails through EmailJS.
package notify

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"trally-server/internal/domain"
)

// Gateway 알림 발송. 실패는 호출자가 로그만 남기고 삼킨다
type Gateway interface {
	Send(ctx context.Context, templateID string, vars map[string]string) error
	NotifyAdmin(ctx context.Context, u *domain.User) error
	NotifyUser(ctx context.Context, u *domain.User, approved bool) error
}

const (
	StatusApproved = "승인"
	StatusRejected = "거부"

	msgApproved = "TRally 회원 가입이 승인되었습니다! 이제 로그인하실 수 있습니다."
	msgRejected = "TRally 회원 가입이 승인되지 않았습니다."
)

var sent = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "trally_notifications_total", Help: "Notification sends by template and result"},
	[]string{"template", "result"},
)

func init() { prometheus.MustRegister(sent) }

var seoul = loadSeoul()

func loadSeoul() *time.Location {
	if loc, err := time.LoadLocation("Asia/Seoul"); err == nil {
		return loc
	}
	return time.FixedZone("KST", 9*60*60)
}

// AdminVars 가입 신청 알림 템플릿 변수
func AdminVars(adminEmail string, u *domain.User) map[string]string {
	return map[string]string{
		"to_email":     adminEmail,
		"user_name":    u.Name,
		"user_id":      u.Username,
		"user_email":   u.Email,
		"user_intro":   u.Intro,
		"request_date": koreanTimestamp(u.RequestDate),
	}
}

// UserVars 승인/거부 결과 알림 템플릿 변수
func UserVars(u *domain.User, approved bool) map[string]string {
	status, msg := StatusRejected, msgRejected
	if approved {
		status, msg = StatusApproved, msgApproved
	}
	return map[string]string{
		"to_email":  u.Email,
		"user_name": u.Name,
		"status":    status,
		"message":   msg,
	}
}

// koreanTimestamp ko-KR 로캘 표기: "2025. 3. 5. 오후 2:07:09"
func koreanTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(seoul)
	ampm, h := "오전", t.Hour()
	if h >= 12 {
		ampm = "오후"
	}
	if h = h % 12; h == 0 {
		h = 12
	}
	return t.Format("2006. 1. 2. ") + ampm + " " + strconv.Itoa(h) + t.Format(":04:05")
}

// Noop mail.enabled=false 일 때
type Noop struct{ L *zap.Logger }

func (n Noop) Send(_ context.Context, templateID string, _ map[string]string) error {
	if n.L != nil {
		n.L.Debug("notification skipped", zap.String("template", templateID))
	}
	sent.WithLabelValues(templateID, "skipped").Inc()
	return nil
}

func (n Noop) NotifyAdmin(ctx context.Context, _ *domain.User) error {
	return n.Send(ctx, "admin", nil)
}

func (n Noop) NotifyUser(ctx context.Context, _ *domain.User, _ bool) error {
	return n.Send(ctx, "user", nil)
}
