package logging

import (
	"log/slog"
	"time"
)

// Shared field names so log output stays greppable across packages.
const (
	FieldComponent = "component"
	FieldProject   = "project"
	FieldChapter   = "chapter"
	FieldBatch     = "batch"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Component(name string) Attr { return slog.String(FieldComponent, name) }

func Project(id string) Attr { return slog.String(FieldProject, id) }

func Chapter(id string) Attr { return slog.String(FieldChapter, id) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

func Args(attrs ...Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}
