package logging

import "fmt"

// Printf adapts a Logger to the printf-style logger accepted by
// pkg/client, so that the registry client logs through zap.
type Printf struct {
	l Logger
}

// NewPrintf wraps l.
func NewPrintf(l Logger) Printf { return Printf{l: l} }

func (p Printf) Debugf(format string, args ...interface{}) { p.l.Debug(fmt.Sprintf(format, args...)) }
func (p Printf) Infof(format string, args ...interface{})  { p.l.Info(fmt.Sprintf(format, args...)) }
func (p Printf) Errorf(format string, args ...interface{}) { p.l.Error(fmt.Sprintf(format, args...)) }
