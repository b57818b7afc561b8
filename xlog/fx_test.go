package xlog

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func TestFxXLogger_App(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(WithXLoggerWriter(buf), WithXLoggerLevel(LogLevelDebug))

	type runner struct{ name string }
	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return NewFxXLogger(logger)
		}),
		fx.Supply(runner{name: "bench"}),
		fx.Invoke(func(lc fx.Lifecycle, r runner) {
			lc.Append(fx.StartStopHook(
				func() error { return nil },
				func() error { return nil },
			))
		}),
	)
	require.NoError(t, app.Err())
	require.NoError(t, app.Start(context.Background()))
	require.NoError(t, app.Stop(context.Background()))

	entries := testEntries(t, buf)
	require.NotEmpty(t, entries)
	msgs := make([]any, 0, len(entries))
	for _, e := range entries {
		require.Equal(t, "Fx", e["component"])
		msgs = append(msgs, e["msg"])
	}
	require.Contains(t, msgs, "started")
	require.Contains(t, msgs, "hook stop executed")
}

func TestFxXLogger_Errors(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewFxXLogger(NewXLogger(WithXLoggerWriter(buf), WithXLoggerLevel(LogLevelDebug)))
	boom := errors.New("boom")
	events := []fxevent.Event{
		&fxevent.OnStartExecuted{FunctionName: "start", Err: boom},
		&fxevent.OnStopExecuted{FunctionName: "stop", Err: boom},
		&fxevent.Supplied{TypeName: "runner", Err: boom},
		&fxevent.Provided{ConstructorName: "ctor", OutputTypeNames: []string{"T"}, Err: boom, ModuleName: "bench"},
		&fxevent.Replaced{OutputTypeNames: []string{"T"}, Err: boom},
		&fxevent.Decorated{DecoratorName: "deco", OutputTypeNames: []string{"T"}, Err: boom},
		&fxevent.Invoked{FunctionName: "run", Err: boom},
		&fxevent.Stopped{Err: boom},
		&fxevent.RollingBack{StartErr: boom},
		&fxevent.RolledBack{Err: boom},
		&fxevent.Started{Err: boom},
		&fxevent.LoggerInitialized{Err: boom},
	}
	for _, e := range events {
		logger.LogEvent(e)
	}
	failed := 0
	for _, e := range testEntries(t, buf) {
		if e["error"] == "boom" {
			failed++
		}
	}
	require.Equal(t, len(events), failed)

	var nilLogger *FxXLogger
	require.NotPanics(t, func() {
		nilLogger.LogEvent(&fxevent.Started{})
	})
}
