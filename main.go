package main

import (
	"flag"
	"log"

	"github.com/decker502/planetdrop/pkg/app"
	"github.com/decker502/planetdrop/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用 debug 日志")
	configPath := flag.String("config", app.DefaultConfigPath, "游戏配置文件路径")
	flag.Parse()

	// 初始化嵌入资源（磁盘上没有配置文件时使用）
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}
	logger := gameApp.Logger()
	defer func() { _ = logger.Sync() }()

	window := gameApp.GameConfig().Window
	ebiten.SetWindowSize(window.Width, window.Height)
	ebiten.SetWindowTitle(window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(window.TPS)

	// Update 返回 ebiten.Termination 时 RunGame 返回 nil
	if err := ebiten.RunGame(gameApp); err != nil {
		logger.Fatal("game loop exited with error", zap.Error(err))
	}
	logger.Info("bye")
}
