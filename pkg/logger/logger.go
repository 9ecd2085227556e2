package logger

import (
	"fmt"

	"go.uber.org/zap"
)

var base = zap.NewNop()

var serviceName = "signal_bot"

// Init подменяет no-op логгер настоящим. Зовётся один раз из main.
func Init(l *zap.Logger) {
	if l != nil {
		base = l
	}
}

func SetServiceName(newName string) string {
	oldName := serviceName
	serviceName = newName

	return oldName
}

func Info(format string, args ...interface{}) {
	base.With(zap.String("service", serviceName)).Info(fmt.Sprintf(format, args...))
}

func Warn(format string, args ...interface{}) {
	base.With(zap.String("service", serviceName)).Warn(fmt.Sprintf(format, args...))
}

func Error(format string, args ...interface{}) {
	base.With(zap.String("service", serviceName)).Error(fmt.Sprintf(format, args...))
}

func Fatal(format string, args ...interface{}) {
	base.With(zap.String("service", serviceName)).Fatal(fmt.Sprintf(format, args...))
}
