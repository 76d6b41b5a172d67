package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trally-server/internal/core/config"
	"trally-server/internal/domain"
)

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// EmailJS REST 클라이언트 (https://www.emailjs.com/docs/rest-api/send/)
type EmailJS struct {
	cfg         config.Mail
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	l           *zap.Logger
}

func NewEmailJS(cfg config.Mail, l *zap.Logger) *EmailJS {
	return &EmailJS{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		// EmailJS 는 초당 1건 제한
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
		l:           l,
	}
}

// New mail.enabled 에 따라 EmailJS 또는 Noop
func New(cfg config.Mail, l *zap.Logger) Gateway {
	if !cfg.Enabled || cfg.ServiceID == "" {
		return Noop{L: l}
	}
	return NewEmailJS(cfg, l)
}

func (c *EmailJS) Send(ctx context.Context, templateID string, vars map[string]string) error {
	err := c.send(ctx, templateID, vars)
	result := "ok"
	if err != nil {
		result = "error"
	}
	sent.WithLabelValues(templateID, result).Inc()
	return err
}

func (c *EmailJS) send(ctx context.Context, templateID string, vars map[string]string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}
	body, err := json.Marshal(emailJSRequest{
		ServiceID:      c.cfg.ServiceID,
		TemplateID:     templateID,
		UserID:         c.cfg.PublicKey,
		AccessToken:    c.cfg.PrivateKey,
		TemplateParams: vars,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("emailjs: status %d: %s", res.StatusCode, bytes.TrimSpace(msg))
	}
	c.l.Debug("notification sent", zap.String("template", templateID))
	return nil
}

func (c *EmailJS) NotifyAdmin(ctx context.Context, u *domain.User) error {
	return c.Send(ctx, c.cfg.AdminTemplateID, AdminVars(c.cfg.AdminEmail, u))
}

func (c *EmailJS) NotifyUser(ctx context.Context, u *domain.User, approved bool) error {
	return c.Send(ctx, c.cfg.UserTemplateID, UserVars(u, approved))
}
