// Package log writes application logs to a dated file under where.Logs.
// Nothing is logged unless logs.write is enabled.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/swapfs/swapfs/filesystem"
	"github.com/swapfs/swapfs/key"
	"github.com/swapfs/swapfs/where"
)

var enabled bool

// Setup opens the log file and configures the standard logrus logger.
// The same logger receives facade dispatch diagnostics.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		logrus.SetOutput(io.Discard)
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	filename := fmt.Sprintf("%s.log", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, filename)

	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{PrettyPrint: true})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{})
	}

	lvl := viper.GetString(key.LogsLevel)
	parsed, err := logrus.ParseLevel(lvl)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	return nil
}

func Panic(args ...any) {
	if enabled {
		logrus.Panic(args...)
	}
}
func Panicf(format string, args ...any) {
	if enabled {
		logrus.Panicf(format, args...)
	}
}
func Fatal(args ...any) {
	if enabled {
		logrus.Fatal(args...)
	}
}
func Fatalf(format string, args ...any) {
	if enabled {
		logrus.Fatalf(format, args...)
	}
}
func Error(args ...any) {
	if enabled {
		logrus.Error(args...)
	}
}
func Errorf(format string, args ...any) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}
func Warn(args ...any) {
	if enabled {
		logrus.Warn(args...)
	}
}
func Warnf(format string, args ...any) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}
func Info(args ...any) {
	if enabled {
		logrus.Info(args...)
	}
}
func Infof(format string, args ...any) {
	if enabled {
		logrus.Infof(format, args...)
	}
}
func Debug(args ...any) {
	if enabled {
		logrus.Debug(args...)
	}
}
func Debugf(format string, args ...any) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}
func Trace(args ...any) {
	if enabled {
		logrus.Trace(args...)
	}
}
func Tracef(format string, args ...any) {
	if enabled {
		logrus.Tracef(format, args...)
	}
}
