package glove

import "github.com/kydenul/log"

var _ Logger = (*kydenulLogger)(nil)

// kydenulLogger adapts github.com/kydenul/log's zap-backed Logger to
// this package's Logger interface, the way the teacher's examples/main.go
// wires the same library in as its production logger.
type kydenulLogger struct {
	l log.Logger
}

// NewLogger builds a production Logger backed by github.com/kydenul/log,
// configured from the YAML/JSON options file at path (log level, output
// paths, rotation). Pass "" to use the library's built-in defaults.
func NewLogger(path string) (Logger, error) {
	if path == "" {
		return &kydenulLogger{l: log.NewLog(log.NewOptions())}, nil
	}

	opt, err := log.LoadFromFile(path)
	if err != nil {
		return nil, IOError(path, err)
	}
	return &kydenulLogger{l: log.NewLog(opt)}, nil
}

func (k *kydenulLogger) Debug(args ...any) { k.l.Debug(args...) }
func (k *kydenulLogger) Info(args ...any)  { k.l.Info(args...) }
func (k *kydenulLogger) Warn(args ...any)  { k.l.Warn(args...) }
func (k *kydenulLogger) Error(args ...any) { k.l.Error(args...) }

func (k *kydenulLogger) Debugf(template string, args ...any) { k.l.Debugf(template, args...) }
func (k *kydenulLogger) Infof(template string, args ...any)  { k.l.Infof(template, args...) }
func (k *kydenulLogger) Warnf(template string, args ...any)  { k.l.Warnf(template, args...) }
func (k *kydenulLogger) Errorf(template string, args ...any) { k.l.Errorf(template, args...) }
