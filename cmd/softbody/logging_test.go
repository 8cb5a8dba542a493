package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	if logFile := setupLogging(false); logFile != nil {
		logFile.Close()
		t.Fatal("expected nil log file when debug=false")
	}
	if out := log.Writer(); out != io.Discard {
		t.Errorf("log output = %v, want io.Discard", out)
	}
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	defer os.RemoveAll(logDir)

	logFile := setupLogging(true)
	if logFile == nil {
		t.Fatal("expected log file when debug=true")
	}
	defer logFile.Close()

	out := log.Writer()
	if out == os.Stdout || out == os.Stderr {
		t.Error("log output must stay off the terminal")
	}

	log.Println("frame loop started")

	data, err := os.ReadFile(filepath.Join(logDir, logFileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "frame loop started") {
		t.Errorf("log file missing message:\n%s", data)
	}
}

func TestSetupLogging_Rotation(t *testing.T) {
	defer os.RemoveAll(logDir)

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		t.Fatalf("create logs directory: %v", err)
	}
	logPath := filepath.Join(logDir, logFileName)
	if err := os.WriteFile(logPath, make([]byte, maxLogSize+1), 0o644); err != nil {
		t.Fatalf("write oversized log: %v", err)
	}

	logFile := setupLogging(true)
	if logFile == nil {
		t.Fatal("expected log file")
	}
	defer logFile.Close()

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("read logs directory: %v", err)
	}
	rotated := false
	for _, e := range entries {
		if e.Name() != logFileName && strings.HasPrefix(e.Name(), "softbody-") && filepath.Ext(e.Name()) == ".log" {
			rotated = true
		}
	}
	if !rotated {
		t.Error("oversized log was not rotated")
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("stat new log: %v", err)
	}
	if info.Size() > maxLogSize {
		t.Errorf("new log is %d bytes, want fresh file", info.Size())
	}
}
