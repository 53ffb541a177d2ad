package main

import (
	"log/slog"
	"testing"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(options) bool
		wantErr bool
	}{
		{"defaults", nil, func(o options) bool {
			return o.width == 1280 && o.height == 720 && o.vsync && o.msaa == 4 && !o.profile
		}, false},
		{"overrides", []string{"-width", "800", "-height", "600", "-vsync=false", "-msaa", "1", "-seed", "7", "-hdri", "sky.hdr"}, func(o options) bool {
			return o.width == 800 && o.height == 600 && !o.vsync && o.msaa == 1 && o.seed == 7 && o.hdri == "sky.hdr"
		}, false},
		{"bad msaa", []string{"-msaa", "3"}, nil, true},
		{"unknown flag", []string{"-nope"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := parseFlags(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFlags(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(o) {
				t.Errorf("unexpected options %+v", o)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLevel(%q) error = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
