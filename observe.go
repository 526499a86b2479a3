package valigo

import "go.uber.org/zap"

// ZapIssueLogger returns a callback that logs discarded issues at warn level,
// one entry per issue. It fits dsl.OnFallback.
func ZapIssueLogger(l *zap.Logger, msg string) func(Issues) {
	if l == nil {
		l = zap.NewNop()
	}
	return func(iss Issues) {
		for _, it := range iss {
			fields := []zap.Field{
				zap.String("kind", string(it.Kind)),
				zap.String("type", it.Type),
				zap.String("message", it.Message),
			}
			if key, ok := GetDotPath(it); ok {
				fields = append(fields, zap.String("path", key))
			}
			l.Warn(msg, fields...)
		}
	}
}
