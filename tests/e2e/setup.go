//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"autoshop/cmd/bootstrap"
	"autoshop/cmd/bootstrap/components"
	"autoshop/internal/infra/catalog"
	"autoshop/internal/infra/db"
	sqlc "autoshop/internal/infra/sqlc/generated"
	"autoshop/internal/infra/uow"
	"autoshop/internal/pkg/config"
	"autoshop/internal/pkg/jwt"
	"autoshop/internal/usecase/shared"
	"autoshop/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgUser     = "test"
	pgPassword = "testpass"
	pgPort     = nat.Port("5432/tcp")

	migrationFile = "migrations/001_initial_schema.sql"
)

var (
	containerOnce sync.Once
	container     testcontainers.Container
	containerErr  error
)

// ------------------------------------------------------------
// PostgreSQLコンテナ（テストプロセス内で共有）
// ------------------------------------------------------------
func sharedContainer(t *testing.T) (host string, port nat.Port) {
	t.Helper()

	containerOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		container, containerErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "postgres:17",
				ExposedPorts: []string{string(pgPort)},
				Env: map[string]string{
					"POSTGRES_USER":     pgUser,
					"POSTGRES_PASSWORD": pgPassword,
					"POSTGRES_DB":       "postgres",
				},
				// 耐久性は不要なのでデータはRAMに置き、fsyncを切る
				Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=256m"},
				Cmd: []string{
					"postgres",
					"-c", "fsync=off",
					"-c", "synchronous_commit=off",
					"-c", "full_page_writes=off",
					"-c", "max_connections=200",
				},
				WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
					return adminDSN(host, port)
				}).WithStartupTimeout(time.Minute),
				Labels: map[string]string{"purpose": "autoshop-e2e"},
			},
			Started: true,
		})
	})
	require.NoError(t, containerErr, "PostgreSQLコンテナの起動に失敗")

	ctx := context.Background()
	mapped, err := container.MappedPort(ctx, pgPort)
	require.NoError(t, err, "ポート取得に失敗")
	host, err = container.Host(ctx)
	require.NoError(t, err, "ホスト取得に失敗")
	return host, mapped
}

func adminDSN(host string, port nat.Port) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable", pgUser, pgPassword, host, port.Port())
}

// ------------------------------------------------------------
// スイートごとに専用データベースを作成してスキーマを適用
// ------------------------------------------------------------
func prepareDatabase(t *testing.T, host string, port nat.Port) (*pgxpool.Pool, config.DBConfig) {
	t.Helper()

	dbName := "autoshop_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	execAdmin(t, host, port, "CREATE DATABASE "+dbName)
	t.Cleanup(func() {
		execAdmin(t, host, port, "DROP DATABASE IF EXISTS "+dbName+" WITH (FORCE)")
	})

	dbConfig := config.DBConfig{
		Host:     host,
		Port:     port.Port(),
		User:     pgUser,
		Password: pgPassword,
		DBName:   dbName,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 20,
	}
	pool, closePool, err := db.Connect(dbConfig)
	require.NoError(t, err, "データベース接続に失敗")
	t.Cleanup(closePool)

	schema, err := os.ReadFile(findUp(t, migrationFile))
	require.NoError(t, err, "マイグレーションファイルの読み込みに失敗")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err, "マイグレーションの適用に失敗")

	return pool, dbConfig
}

func execAdmin(t *testing.T, host string, port nat.Port, sql string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, adminDSN(host, port))
	if err != nil {
		slog.Warn("管理者接続に失敗しました", "error", err.Error())
		return
	}
	defer admin.Close()

	// コンテナ起動直後は接続が不安定なことがあるため数回試す
	for attempt := range 5 {
		if _, err = admin.Exec(ctx, sql); err == nil {
			return
		}
		time.Sleep(time.Duration(attempt+1) * 300 * time.Millisecond)
	}
	require.NoError(t, err, "管理SQLの実行に失敗: %s", sql)
}

// resolves a repo-relative path from the package directory go test runs in
func findUp(t *testing.T, rel string) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		candidate := filepath.Join(dir, rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		require.NotEqual(t, dir, parent, "%s が見つかりません", rel)
		dir = parent
	}
}

// ------------------------------------------------------------
// E2Eテスト用アプリケーション構築
// カタログはメモリ実装に差し替え、耐久ストアはテスト用DBのPostgreSQLを使う
// ------------------------------------------------------------
type e2eApp struct {
	router  *gin.Engine
	cfg     config.Config
	tokens  *jwt.Service
	catalog *catalog.Memory
}

func buildE2EApp(t *testing.T, pool *pgxpool.Pool, dbConfig config.DBConfig) *e2eApp {
	t.Helper()

	cfg := config.NewTestConfig()
	cfg.DB = dbConfig
	built := &e2eApp{catalog: catalog.NewMemory()}

	app := fx.New(
		fx.Supply(cfg, cfg.AutoShop),
		fx.Provide(
			func() *gin.Engine { return gin.New() },
			func() shared.UnitOfWork { return uow.NewPostgresUoW(pool, sqlc.New()) },
			func() shared.ProductCatalog { return built.catalog },
		),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.SchedulerModule,
		components.HandlerModule,

		fx.Populate(&built.router, &built.cfg, &built.tokens),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "fxアプリケーションの起動に失敗")

	// スケジューラのタイマーを止めてからDBを閉じる
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("fxアプリケーションの停止に失敗しました", "error", err.Error())
		}
	})

	return built
}

// ------------------------------------------------------------
// E2Eテストスイートで共通のセットアップ
// ------------------------------------------------------------
type SharedSuite struct {
	suite.Suite
	Router  *gin.Engine
	DB      *pgxpool.Pool // 各テストで使う DB 接続
	Config  config.Config
	Tokens  *jwt.Service
	Catalog *catalog.Memory // テストごとに商品を差し替える
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	gin.SetMode(gin.TestMode)

	host, port := sharedContainer(t)
	pool, dbConfig := prepareDatabase(t, host, port)
	built := buildE2EApp(t, pool, dbConfig)

	s.DB = pool
	s.Router = built.router
	s.Config = built.cfg
	s.Tokens = built.tokens
	s.Catalog = built.catalog
	require.NotNil(t, s.Router, "Routerのセットアップに失敗")
}

func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "Failed to reset database state")
	s.Catalog.Replace(nil)
}

// SignIn issues a bearer token for a new user and returns it with the user key.
func (s *SharedSuite) SignIn() (token string, userKey string) {
	t := s.T()
	userID := uuid.New()
	token, err := s.Tokens.GenerateToken(userID)
	require.NoError(t, err, "トークンの発行に失敗")
	return token, "user:" + userID.String()
}
