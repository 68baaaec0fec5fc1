package logger

import (
	"go.uber.org/zap"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

var Sugar *zap.SugaredLogger

// InitLogger builds the global sugared logger for the given environment.
// Anything other than "production" gets the development config.
func InitLogger(env string) *zap.SugaredLogger {
	var (
		l   *zap.Logger
		err error
	)
	if env == EnvProduction {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		l = zap.NewNop()
	}
	Sugar = l.Sugar()
	return Sugar
}

func GetLogger() *zap.SugaredLogger {
	if Sugar == nil {
		logger, _ := zap.NewDevelopment()
		Sugar = logger.Sugar()
	}
	return Sugar
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func Sync() {
	if Sugar != nil {
		_ = Sugar.Sync()
	}
}
