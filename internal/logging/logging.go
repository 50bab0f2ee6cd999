// Package logging configures logrus for the command-line tools.
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// formatter renders entries as single timestamped lines, with the level
// colored when the output is a terminal.
type formatter struct {
	name    string
	colored bool
}

const timeFormat = "2006/01/02 15:04:05.000000"

func (f *formatter) Format(e *logrus.Entry) ([]byte, error) {
	level := strings.ToUpper(e.Level.String())
	if f.colored {
		level = colorize(e.Level, level)
	}

	str := fmt.Sprintf("%s %s[%d] <%s>: %s",
		e.Time.Format(timeFormat),
		f.name,
		os.Getpid(),
		level,
		e.Message)

	if len(e.Data) != 0 {
		str += fmt.Sprintf(" %v", e.Data)
	}

	return []byte(str + "\n"), nil
}

func colorize(level logrus.Level, s string) string {
	switch level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return "\033[31m" + s + "\033[0m"
	case logrus.WarnLevel:
		return "\033[33m" + s + "\033[0m"
	case logrus.DebugLevel, logrus.TraceLevel:
		return "\033[90m" + s + "\033[0m"
	default:
		return s
	}
}

// New returns a logger named name, writing to stderr at InfoLevel.
func New(name string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&formatter{
		name:    name,
		colored: isatty.IsTerminal(os.Stderr.Fd()),
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}
