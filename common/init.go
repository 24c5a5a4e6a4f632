package common

import (
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/Laisky/zap"

	"github.com/widgetly/chat-api/common/config"
	"github.com/widgetly/chat-api/common/logger"
)

var (
	Port   = flag.Int("port", 3000, "the listening port")
	LogDir = flag.String("log-dir", "", "specify the log directory")
)

var StartTime = time.Now().Unix()

// Version is stamped at build time via -ldflags.
var Version = "dev"

func Init() {
	flag.Parse()

	SQLitePath = config.SQLitePath

	if *LogDir != "" {
		expanded, err := filepath.Abs(*LogDir)
		if err != nil {
			logger.Logger.Fatal("failed to get absolute log dir", zap.Error(err))
		}
		if err = os.MkdirAll(expanded, 0o777); err != nil {
			logger.Logger.Fatal("failed to create log dir", zap.Error(err))
		}
		logger.LogDir = expanded
		*LogDir = expanded
	}
}
