package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/bridge-scorer/internal/app"
	"github.com/palemoky/bridge-scorer/internal/config"
	"github.com/palemoky/bridge-scorer/internal/logger"
	"github.com/palemoky/bridge-scorer/internal/sound"
	"github.com/palemoky/bridge-scorer/internal/storage"
	"github.com/palemoky/bridge-scorer/internal/ui"
	"github.com/palemoky/bridge-scorer/internal/ui/model"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	backend := flag.String("storage", "", "存储后端 (sqlite, postgres, redis, memory)")
	modeFlag := flag.String("mode", "", "默认计分方式 (kitchen, rubber, chicago, bonus)")
	mute := flag.Bool("mute", false, "关闭提示音")
	flag.Parse()

	config.LoadDotEnv()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
	}
	if *backend != "" {
		cfg.Storage.Backend = *backend
	}
	if *modeFlag != "" {
		cfg.Game.DefaultMode = *modeFlag
	}
	if *mute {
		cfg.UI.Mute = true
	}

	if err := logger.Init(config.DataDir()); err != nil {
		log.Printf("日志初始化失败: %v", err)
	}
	defer logger.Close()

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.Storage, cfg.Session.MaxAgeDuration())
	if err != nil {
		log.Fatalf("打开存储失败: %v", err)
	}
	defer func() { _ = store.Close() }()

	a, err := app.New(cfg, store)
	if err != nil {
		log.Fatalf("创建计分器失败: %v", err)
	}
	if err := a.Start(ctx); err != nil {
		log.Fatalf("启动计分器失败: %v", err)
	}

	// 收到信号时保存后退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.LogInfo("signal received, saving session")
		a.Close()
		_ = store.Close()
		logger.Close()
		os.Exit(0)
	}()

	var player model.Player
	if !cfg.UI.Mute {
		sp := sound.NewPlayer(filepath.Join(config.DataDir(), "sounds"))
		defer sp.Close()
		player = sp
	}

	p := tea.NewProgram(ui.NewScorer(a, player), tea.WithAltScreen())
	_, runErr := p.Run()
	a.Close()
	if runErr != nil {
		log.Fatalf("运行计分器时出错: %v", runErr)
	}
}
