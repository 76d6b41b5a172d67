package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestRead_AppliesDefaults(t *testing.T) {
	p := writeConfig(t, `
db:
  driver: sqlite
  dsn: "file::memory:"
jwt:
  secret: s3cret
`)
	c, err := Read(p)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, "s3cret", c.JWT.Secret)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, 8081, c.App.Admin.Port)
	assert.Equal(t, 86400, c.Static.MaxAgeSec)
	assert.Equal(t, "template_user_notify", c.Mail.UserTemplateID)
	assert.Equal(t, []string{"민구", "다흰", "아름", "승종", "원혁", "동원"}, c.Topics.AuthorPriority)
}

func TestRead_FileOverridesDefaults(t *testing.T) {
	p := writeConfig(t, `
app:
  http:
    port: 9090
topics:
  authorpriority: ["B", "A"]
mail:
  enabled: true
  serviceid: svc
  admintemplateid: tpl_admin
  adminemail: admin@example.com
`)
	c, err := Read(p)
	require.NoError(t, err)

	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.True(t, c.Mail.Enabled)
	assert.Equal(t, "svc", c.Mail.ServiceID)
	assert.Equal(t, "tpl_admin", c.Mail.AdminTemplateID)
	assert.Equal(t, map[string]int{"B": 0, "A": 1}, c.Topics.AuthorRanks())
}

func TestRead_EnvOverride(t *testing.T) {
	p := writeConfig(t, "db:\n  driver: sqlite\n")
	t.Setenv("APP_DB_DRIVER", "postgres")

	c, err := Read(p)
	require.NoError(t, err)
	assert.Equal(t, "postgres", c.DB.Driver)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestAuthorRanks_KeepsFirstOccurrence(t *testing.T) {
	ranks := Topics{AuthorPriority: []string{"a", "b", "a"}}.AuthorRanks()
	assert.Equal(t, 0, ranks["a"])
	assert.Equal(t, 1, ranks["b"])
}
