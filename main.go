package main

import (
	"embed"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/chazu/flatlay/internal/log"
	"github.com/chazu/flatlay/pkg/config"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, err := config.Load(os.Getenv("FLATLAY_CONFIG"))
	if err != nil {
		log.L().Error("config load failed", "err", err)
		os.Exit(1)
	}
	log.Init(cfg.Logging)

	app := NewApp(cfg)

	err = wails.Run(&options.App{
		Title:  "flatlay",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.L().Error("wails run failed", "err", err)
		os.Exit(1)
	}
}
