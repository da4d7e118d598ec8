package contract

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns the diagnostic logger. Debug output goes to stderr only
// when verbose is set; otherwise everything is discarded.
func NewLogger(verbose bool) *zap.SugaredLogger {
	if !verbose {
		return zap.NewNop().Sugar()
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	l, err := zcfg.Build()
	if err != nil {
		LogWarn("Cannot build verbose logger", err)
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}
