package console

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/zirconconsole/zircon/internal/log"
	"github.com/zirconconsole/zircon/internal/registry"
	"github.com/zirconconsole/zircon/internal/ui/styles"
)

// LevelEnum is the enum naming log levels for log.write.
const LevelEnum = "LogLevel"

// RegisterBuiltins adds the console's own commands to b.
func RegisterBuiltins(b *registry.Builder) *registry.Builder {
	return b.
		AddFunction(registry.Function{
			Name:        "help",
			Description: "Show every command",
			Handler: func(ctx context.Context, _ []any) (any, error) {
				return nil, emit(ctx, helpEffect{})
			},
		}).
		AddFunction(registry.Function{
			Name:        "clear",
			Description: "Clear the output",
			Handler: func(ctx context.Context, _ []any) (any, error) {
				return nil, emit(ctx, clearEffect{})
			},
		}).
		AddFunction(registry.Function{
			Name:        "history",
			Description: "List recent input",
			Params:      []registry.Param{{Name: "limit", Type: registry.ParamNumber, Optional: true}},
			Handler: func(ctx context.Context, args []any) (any, error) {
				limit := 20
				if len(args) > 0 && args[0] != nil {
					limit = int(args[0].(float64))
				}
				if limit <= 0 {
					return nil, fmt.Errorf("%w: limit must be positive", registry.ErrInvalidArgument)
				}
				return nil, emit(ctx, historyEffect{limit: limit})
			},
		}).
		AddFunction(registry.Function{
			Name:        "theme",
			Description: "List themes, or switch to a preset",
			Params:      []registry.Param{{Name: "preset", Type: registry.ParamString, Optional: true}},
			Handler: func(ctx context.Context, args []any) (any, error) {
				if len(args) == 0 || args[0] == nil {
					return nil, emit(ctx, themeEffect{})
				}
				preset := registry.FormatValue(args[0])
				if _, ok := styles.Presets[preset]; !ok {
					names := slices.Sorted(maps.Keys(styles.Presets))
					return nil, fmt.Errorf("%w: unknown preset %q (available: %s)", registry.ErrInvalidArgument, preset, strings.Join(names, ", "))
				}
				return nil, emit(ctx, themeEffect{preset: preset})
			},
		}).
		AddFunction(registry.Function{
			Name:        "print",
			Description: "Print values separated by spaces",
			Params:      []registry.Param{{Name: "values", Type: registry.ParamAny, Optional: true}},
			Variadic:    true,
			Handler: func(_ context.Context, args []any) (any, error) {
				parts := make([]string, len(args))
				for i, a := range args {
					parts[i] = registry.FormatValue(a)
				}
				return strings.Join(parts, " "), nil
			},
		}).
		AddEnum(registry.Enum{
			Name:        LevelEnum,
			Description: "Log levels for log.write",
			Members:     LevelNames(),
		}).
		AddNamespace(registry.Namespace{
			Name:        "log",
			Description: "Write structured log messages. Templates fill {Name} or {0} holes from the values.",
			Functions: []registry.Function{
				logFunction("verbose", LevelVerbose),
				logFunction("debug", LevelDebug),
				logFunction("info", LevelInfo),
				logFunction("warn", LevelWarning),
				logFunction("error", LevelError),
				{
					Name:        "write",
					Description: "Log at a LogLevel member",
					Params: []registry.Param{
						{Name: "level", Type: registry.ParamString, Validator: levelValidator},
						{Name: "template", Type: registry.ParamString},
						{Name: "values", Type: registry.ParamAny, Optional: true},
					},
					Variadic: true,
					Handler: func(ctx context.Context, args []any) (any, error) {
						level, _ := levelArg(args[0])
						return nil, writeLog(ctx, level, args[1:])
					},
				},
			},
		})
}

// levelValidator accepts LogLevel members and level names.
var levelValidator = registry.ValidatorFunc{
	Name: LevelEnum,
	Fn: func(v any) bool {
		_, ok := levelArg(v)
		return ok
	},
}

func levelArg(v any) (Level, bool) {
	switch v := v.(type) {
	case registry.EnumItem:
		if v.Enum != LevelEnum {
			return 0, false
		}
		return ParseLevel(v.Name)
	case string:
		return ParseLevel(v)
	}
	return 0, false
}

func logFunction(name string, level Level) registry.Function {
	return registry.Function{
		Name:        name,
		Description: fmt.Sprintf("Log a %s message", strings.ToLower(level.String())),
		Params: []registry.Param{
			{Name: "template", Type: registry.ParamString},
			{Name: "values", Type: registry.ParamAny, Optional: true},
		},
		Variadic: true,
		Handler: func(ctx context.Context, args []any) (any, error) {
			return nil, writeLog(ctx, level, args)
		},
	}
}

// writeLog takes the template followed by its values.
func writeLog(ctx context.Context, level Level, args []any) error {
	ev := LogEvent{
		Level:     level,
		Template:  registry.FormatValue(args[0]),
		Variables: args[1:],
		Tag:       "script",
	}
	log.Debug(log.CatConsole, "script log", "level", level, "text", Format(ev.Template, ev.Variables))
	return emit(ctx, appendEffect{msg: StructuredLog(ContextClient, ev)})
}
