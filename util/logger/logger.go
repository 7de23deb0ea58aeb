package logger

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// New returns new configured logger writing to stderr
func New(lvl logrus.Level) *logrus.Logger {
	return NewWithWriter(lvl, os.Stderr)
}

// NewWithWriter returns new configured logger writing to <out>
func NewWithWriter(lvl logrus.Level, out io.Writer) *logrus.Logger {
	formatter := prefixed.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.Stamp,
		ForceFormatting: true,
	}
	log := logrus.Logger{
		Out:       out,
		Formatter: &formatter,
		Level:     lvl,
		Hooks:     make(logrus.LevelHooks),
	}
	return &log
}

// ParseLevel returns logging level by it's name such as "debug" or number from 0 (panic) to 6 (trace)
func ParseLevel(inp string) (logrus.Level, error) {
	inp = strings.TrimSpace(inp)
	if num, err := strconv.Atoi(inp); err == nil {
		if num < int(logrus.PanicLevel) || num > int(logrus.TraceLevel) {
			return logrus.InfoLevel, errors.Newf("Logging level is out of range: %v", num)
		}
		return logrus.Level(num), nil
	}
	lvl, err := logrus.ParseLevel(inp)
	if err != nil {
		return logrus.InfoLevel, errors.Wrap(err, "Parse logging level")
	}
	return lvl, nil
}
