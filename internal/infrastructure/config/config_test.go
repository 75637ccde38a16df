package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFrom(t *testing.T) {
	t.Run("最小配置使用默认值", func(t *testing.T) {
		cfg, err := LoadFrom(writeConfig(t, "server:\n  port: 9090\n"))
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, DriverMySQL, cfg.Database.Driver)
		assert.Equal(t, 12, cfg.Catalog.DefaultPageSize)
		assert.Equal(t, 50, cfg.Catalog.MaxPageSize)
		assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenExpire)
		assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
	})

	t.Run("环境变量覆盖文件", func(t *testing.T) {
		t.Setenv("SBOOKS_DATABASE_DRIVER", "sqlite")
		t.Setenv("SBOOKS_DATABASE_PATH", "/tmp/x.db")

		cfg, err := LoadFrom(writeConfig(t, "database:\n  driver: postgres\n"))
		require.NoError(t, err)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, "/tmp/x.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", cfg.Database.DSN())
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"端口越界", "server:\n  port: 70000\n"},
		{"未知驱动", "database:\n  driver: oracle\n"},
		{"生产环境默认密钥", "server:\n  mode: release\n"},
		{"最大分页超过50", "catalog:\n  max_page_size: 100\n"},
		{"最大分页小于默认分页", "catalog:\n  default_page_size: 20\n  max_page_size: 10\n"},
		{"启用MQ但没有URL", "mq:\n  enabled: true\n  url: \"\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("mysql对loc编码", func(t *testing.T) {
		d := DatabaseConfig{
			Driver: DriverMySQL, User: "root", Password: "pw", Host: "db", Port: 3306,
			DBName: "sbooks", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
		}
		assert.Equal(t, "root:pw@tcp(db:3306)/sbooks?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", d.DSN())
	})

	t.Run("postgres", func(t *testing.T) {
		d := DatabaseConfig{Driver: DriverPostgres, Host: "pg", Port: 5432, User: "u", Password: "p", DBName: "sbooks", SSLMode: "disable"}
		assert.Equal(t, "host=pg port=5432 user=u password=p dbname=sbooks sslmode=disable", d.DSN())
	})
}
