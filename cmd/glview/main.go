// Package main is the entry point for the glview model viewer.
package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/glview/internal/config"
	"github.com/Faultbox/glview/internal/engine/importer"
	"github.com/Faultbox/glview/internal/logger"
	"github.com/Faultbox/glview/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== glview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Error("failed to save config", zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("dir", config.ConfigDir()))
		return
	}

	v, err := viewer.New(cfg)
	if err != nil {
		var ie *importer.ImportError
		if errors.As(err, &ie) {
			logger.Error("cannot load model", zap.String("path", ie.Path), zap.String("reason", ie.Reason), zap.Error(ie.Err))
		} else {
			logger.Error("failed to start viewer", zap.Error(err))
		}
		logger.Sync()
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		v.Close()
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
