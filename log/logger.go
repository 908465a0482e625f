package log

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	glog "github.com/labstack/gommon/log"
	rotatelogs "github.com/mrnim94/file-rotatelogs"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

// InitLogger configures the process-wide logger. When toFile is true, output
// is additionally written to per-level rotating files under logs/<APP_NAME>/.
func InitLogger(toFile bool) *logrus.Logger {
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if toFile {
		logger.AddHook(newRotateFileHook())
	}
	return logger
}

func newRotateFileHook() logrus.Hook {
	appName := os.Getenv("APP_NAME")
	if appName == "" {
		appName = "app"
	}
	logDir := filepath.Join("logs", appName)

	writer := func(level string) io.Writer {
		w, err := rotatelogs.New(
			filepath.Join(logDir, level+".%Y%m%d.log"),
			rotatelogs.WithLinkName(filepath.Join(logDir, level+".log")),
			rotatelogs.WithMaxAge(7*24*time.Hour),
			rotatelogs.WithRotationTime(24*time.Hour),
		)
		if err != nil {
			logger.Errorf("Cannot create rotate writer for %s: %v", level, err)
			return os.Stdout
		}
		return w
	}

	return lfshook.NewHook(lfshook.WriterMap{
		logrus.DebugLevel: writer("debug"),
		logrus.InfoLevel:  writer("info"),
		logrus.WarnLevel:  writer("warn"),
		logrus.ErrorLevel: writer("error"),
	}, &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// GetLogLevel maps the level named by the given environment variable to a
// logrus level. Unknown or empty values fall back to Info.
func GetLogLevel(env string) logrus.Level {
	switch strings.ToUpper(os.Getenv(env)) {
	case "DEBUG":
		return logrus.DebugLevel
	case "WARN", "WARNING":
		return logrus.WarnLevel
	case "ERROR":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// GetGommonLogLevel maps the same environment variable onto echo's gommon
// levels so the HTTP server logs at the same threshold as the app.
func GetGommonLogLevel(env string) glog.Lvl {
	switch strings.ToUpper(os.Getenv(env)) {
	case "DEBUG":
		return glog.DEBUG
	case "WARN", "WARNING":
		return glog.WARN
	case "ERROR":
		return glog.ERROR
	default:
		return glog.INFO
	}
}

func Debug(args ...interface{})                 { logger.Debug(args...) }
func Debugf(format string, args ...interface{}) { logger.Debugf(format, args...) }
func Info(args ...interface{})                  { logger.Info(args...) }
func Infof(format string, args ...interface{})  { logger.Infof(format, args...) }
func Warn(args ...interface{})                  { logger.Warn(args...) }
func Warnf(format string, args ...interface{})  { logger.Warnf(format, args...) }
func Error(args ...interface{})                 { logger.Error(args...) }
func Errorf(format string, args ...interface{}) { logger.Errorf(format, args...) }
func Fatal(args ...interface{})                 { logger.Fatal(args...) }
func Fatalf(format string, args ...interface{}) { logger.Fatalf(format, args...) }
