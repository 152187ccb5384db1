package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nachokhan/peke-panel/internal/prefs"
)

func TestRootCmd_Flags(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"config", "prefs", "poll", "log-level"} {
		if root.Flags().Lookup(name) == nil && root.PersistentFlags().Lookup(name) == nil {
			t.Fatalf("missing flag --%s", name)
		}
	}
	if usage := root.Flags().Lookup("prefs").Usage; !strings.Contains(usage, prefs.DefaultPath()) {
		t.Fatalf("--prefs usage = %q, want default path", usage)
	}
}

func TestLogoutCmd(t *testing.T) {
	dir := t.TempDir()
	tokenPath := filepath.Join(dir, "token")
	t.Setenv("PEKE_TOKEN_PATH", tokenPath)
	if err := os.WriteFile(tokenPath, []byte("abc"), 0o600); err != nil {
		t.Fatalf("write token: %v", err)
	}

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"logout", "--config", filepath.Join(dir, "missing.toml")})
	if err := root.Execute(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !strings.Contains(out.String(), "Logged out.") {
		t.Fatalf("output = %q", out.String())
	}
	if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
		t.Fatalf("token file still present: %v", err)
	}
}

func TestLogCmd_PrintsTail(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "peke.log")
	t.Setenv("PEKE_LOG_FILE", logPath)
	content := "level=INFO msg=one\nlevel=WARN msg=two\nlevel=ERROR msg=three\n"
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"log", "-n", "2", "--config", filepath.Join(dir, "missing.toml")})
	if err := root.Execute(); err != nil {
		t.Fatalf("log: %v", err)
	}
	if got := out.String(); got != "level=WARN msg=two\nlevel=ERROR msg=three\n" {
		t.Fatalf("output = %q", got)
	}
}
