package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	instance *zap.SugaredLogger
	once     sync.Once
)

type Config struct {
	Development bool
	Level       string
}

// New builds the process-wide logger. Level accepts the zap level names
// (debug, info, warn, error); empty or unknown values keep the preset
// default.
func New(cfg Config) (*zap.SugaredLogger, error) {
	var err error
	once.Do(func() {
		var zcfg zap.Config
		if cfg.Development {
			zcfg = zap.NewDevelopmentConfig()
		} else {
			zcfg = zap.NewProductionConfig()
		}
		if cfg.Level != "" {
			if lvl, perr := zapcore.ParseLevel(cfg.Level); perr == nil {
				zcfg.Level = zap.NewAtomicLevelAt(lvl)
			}
		}
		var l *zap.Logger
		l, err = zcfg.Build()
		if err != nil {
			return
		}
		instance = l.Sugar()
	})
	return instance, err
}
