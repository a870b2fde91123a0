package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fintrack/config"
	"fintrack/database"
	"fintrack/middleware"
	"fintrack/router"

	"github.com/spf13/cobra"
)

// @title 记账系统 API
// @version 1.0
// @description 个人记账 API：收支类别、交易、类别月度预算校验、月度统计和储蓄目标
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const version = "v1.0.0"

var (
	configFile  string
	port        string
	showVersion bool
)

var rootCmd = &cobra.Command{
	Use:           "fintrack",
	Short:         "记账系统",
	Long:          "个人记账服务：类别、交易、月度预算、统计和储蓄目标",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServer,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "仅执行数据库迁移",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if _, err := database.Open(cfg); err != nil {
			return err
		}
		log.Println("数据库迁移完成")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "外部配置文件路径（可选）")
	rootCmd.Flags().StringVarP(&port, "port", "p", "", "监听端口，如: 8080 或 :8080")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "显示版本信息")

	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig 加载配置（内置配置 + 可选的外部配置覆盖）
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	config.PrintConfig()
	return cfg, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	if showVersion {
		log.Printf("记账系统 %s", version)
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		// 自动添加冒号前缀
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("数据库初始化失败: %w", err)
	}

	// 初始化 JWT
	middleware.InitJWT(cfg)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router.SetupRouter(cfg, db),
	}

	log.Printf("==========================================")
	log.Printf("  💰 记账系统已启动")
	log.Printf("==========================================")
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API接口:  http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("==========================================")

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Println("正在关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("服务器关闭失败: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("服务器已关闭")
	return nil
}
