package logsvc

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyplan/core"
)

func TestZeroLogger(t *testing.T) {
	tests := []struct {
		name    string
		log     func(l *ZeroLogger)
		wantMsg string
		want    map[string]interface{}
	}{
		{
			name:    "message only",
			log:     func(l *ZeroLogger) { l.Info("started") },
			wantMsg: "started",
			want:    map[string]interface{}{"level": "info"},
		},
		{
			name:    "error & fields",
			log:     func(l *ZeroLogger) { l.Error("failed", errors.New("boom"), map[string]interface{}{"path": "/v1/gpa"}) },
			wantMsg: "failed",
			want:    map[string]interface{}{"level": "error", "error": "boom", "path": "/v1/gpa"},
		},
		{
			name:    "extra args",
			log:     func(l *ZeroLogger) { l.Warn("odd", 42, "x") },
			wantMsg: "odd",
			want:    map[string]interface{}{"level": "warn", "args": []interface{}{"42", "x"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewZeroLogger(NewZerolog(&buf, core.LogConfig{Level: "debug", Format: "json"}))
			tt.log(l)

			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
			assert.Equal(t, tt.wantMsg, got["message"])
			for k, v := range tt.want {
				assert.Equal(t, v, got[k], k)
			}
			assert.Contains(t, got, "time")
		})
	}
}

func TestNewZerolog_level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{level: "debug", want: zerolog.DebugLevel},
		{level: "warn", want: zerolog.WarnLevel},
		{level: "", want: zerolog.InfoLevel},
		{level: "lol", want: zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			zl := NewZerolog(&bytes.Buffer{}, core.LogConfig{Level: tt.level, Format: "json"})
			if got := zl.GetLevel(); got != tt.want {
				t.Errorf("NewZerolog().GetLevel() = %v, want %v", got, tt.want)
			}
		})
	}

	var buf bytes.Buffer
	l := NewZeroLogger(NewZerolog(&buf, core.LogConfig{Level: "warn", Format: "json"}))
	l.Info("hidden")
	assert.Zero(t, buf.Len())
}
