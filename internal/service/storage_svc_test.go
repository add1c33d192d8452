package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewStorageService_InvalidProvider(t *testing.T) {
	_, err := NewStorageService(&StorageConfig{Provider: "invalid"})
	if err == nil {
		t.Error("期望返回错误，但未返回")
	}
}

func TestLocalStorage_UploadDelete(t *testing.T) {
	tempDir := t.TempDir()

	svc, err := NewStorageService(&StorageConfig{
		Provider: "local",
		LocalDir: tempDir,
		LocalURL: "http://localhost:8080/uploads",
	})
	if err != nil {
		t.Fatalf("初始化失败: %v", err)
	}

	ctx := context.Background()
	url, err := svc.Upload(ctx, []byte("fake-image-bytes"), "guide.png", "image/png")
	if err != nil {
		t.Fatalf("上传失败: %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:8080/uploads/") {
		t.Errorf("url = %s", url)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Errorf("扩展名应保留: %s", url)
	}

	// 文件落盘
	name := url[strings.LastIndex(url, "/")+1:]
	if _, err := os.Stat(filepath.Join(tempDir, name)); err != nil {
		t.Fatalf("文件未落盘: %v", err)
	}

	if err := svc.Delete(ctx, url); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, name)); !os.IsNotExist(err) {
		t.Error("删除后文件仍存在")
	}
}

func TestLocalStorage_MissingExtension(t *testing.T) {
	tempDir := t.TempDir()

	svc, _ := NewStorageService(&StorageConfig{Provider: "local", LocalDir: tempDir})

	// 无扩展名时默认 .jpg
	url, err := svc.Upload(context.Background(), []byte("data"), "noext", "")
	if err != nil {
		t.Fatalf("上传失败: %v", err)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Errorf("url = %s, want .jpg 后缀", url)
	}
}
