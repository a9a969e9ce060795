package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// 确保收到取消信号时会触发服务器优雅关闭。
func TestRunServerShutdownOnCancel(t *testing.T) {
	dir := t.TempDir()
	cfg := AppConfig{
		Server:   ServerConfig{Addr: "127.0.0.1:0"},
		Database: DatabaseConfig{Path: filepath.Join(dir, "jobhunter.db")},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runServer(ctx, cfg)
	}()

	// 给监听协程一点启动时间再取消
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runServer returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("runServer did not return after cancel")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "server:\n  addr: \":9090\"\ndatabase:\n  path: \"data/app.db\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Database.Path != "data/app.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Addr != "" || cfg.Database.Path != "" {
		t.Fatalf("cfg = %+v, want zero value", cfg)
	}
}
