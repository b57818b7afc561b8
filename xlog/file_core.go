package xlog

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/safeopen"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	_ xLogCore  = (*fileCore)(nil)
	_ io.Closer = (*fileCore)(nil)
)

// fileCore appends the entries to a single log file. The file is opened
// beneath its directory, a filename escaping it is rejected.
type fileCore struct {
	*commonCore
	file *os.File
}

func (fc *fileCore) Close() error {
	if fc.file == nil {
		return nil
	}
	_ = fc.file.Sync()
	err := fc.file.Close()
	fc.file = nil
	return err
}

func (fc *fileCore) With(fields []zap.Field) zapcore.Core {
	return fc.commonCore.With(fields)
}

type FileCoreConfig struct {
	FilePath string `json:"filePath" yaml:"filePath"`
	Filename string `json:"filename" yaml:"filename"`
}

func newFileCore(cfg *FileCoreConfig) xLogCoreConstructor {
	return func(
		lvlEnabler zapcore.LevelEnabler,
		encoder logEncoderType,
		lvlEnc zapcore.LevelEncoder,
		tsEnc zapcore.TimeEncoder,
	) (xLogCore, error) {
		if cfg == nil {
			cfg = &FileCoreConfig{
				Filename: filepath.Base(os.Args[0]) + "_xlog.log",
				FilePath: os.TempDir(),
			}
		}
		if cfg.FilePath == "" {
			cfg.FilePath = os.TempDir()
		}
		if err := os.MkdirAll(cfg.FilePath, 0o755); err != nil {
			return nil, infra.WrapErrorStackWithMessage(err, "unable to create log dir: "+cfg.FilePath)
		}
		f, err := safeopen.OpenFileBeneath(cfg.FilePath, cfg.Filename, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, infra.WrapErrorStackWithMessage(err, "unable to open log file: "+cfg.Filename)
		}

		config := zapcore.EncoderConfig{
			MessageKey:    "msg",
			LevelKey:      "lvl",
			TimeKey:       "ts",
			CallerKey:     "callAt",
			EncodeCaller:  zapcore.ShortCallerEncoder,
			FunctionKey:   "fn",
			NameKey:       "component",
			EncodeName:    zapcore.FullNameEncoder,
			StacktraceKey: coreKeyIgnored,
		}
		return &fileCore{
			commonCore: newCommonCore(lvlEnabler, zapcore.Lock(f), getEncoderByType(encoder), lvlEnc, tsEnc, config),
			file:       f,
		}, nil
	}
}
