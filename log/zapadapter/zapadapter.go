// Package zapadapter bridges a zap logger to the SDK's log.Logger.
package zapadapter

import (
	"go.uber.org/zap"

	"github.com/dukahq/go-duka/log"
)

type Adapter struct {
	s *zap.SugaredLogger
}

func New(l *zap.Logger) *Adapter {
	if l == nil {
		l = zap.NewNop()
	}
	// Skip the adapter frame so call sites resolve to SDK code.
	return &Adapter{s: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (a *Adapter) Debugf(format string, args ...any) { a.s.Debugf(format, args...) }
func (a *Adapter) Infof(format string, args ...any)  { a.s.Infof(format, args...) }
func (a *Adapter) Warnf(format string, args ...any)  { a.s.Warnf(format, args...) }
func (a *Adapter) Errorf(format string, args ...any) { a.s.Errorf(format, args...) }

var _ log.Logger = (*Adapter)(nil)
