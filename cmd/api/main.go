package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"supplychain-agent/internal/app"
	"supplychain-agent/internal/app/api"
	"supplychain-agent/pkg/config"
)

func main() {
	var configPath, envFile string
	cmd := &cobra.Command{
		Use:   "sca-api",
		Short: "Supply Chain Risk Analyst HTTP API",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			serve(configPath, envFile)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("SCA_CONFIG"), "config file (yaml)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(configPath, envFile string) {
	if err := config.LoadDotEnv(envFile); err != nil {
		log.Fatalf("加载 .env 失败: %v", err)
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	bootstrap, err := app.NewBootstrap(context.Background(), cfg)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	application, err := api.NewApp(bootstrap)
	if err != nil {
		log.Fatalf("创建 API 应用失败: %v", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	if cfg.API.Port <= 0 {
		addr = ":8080"
	}

	go func() {
		if err := application.Run(addr); err != nil && err != http.ErrServerClosed {
			log.Printf("API 服务异常退出: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := application.Shutdown(ctx); err != nil {
		log.Printf("关闭失败: %v", err)
	}
	log.Println("API 服务已关闭")
}
