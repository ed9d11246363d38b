package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/tanq16/ytbulk/internal/utils"
)

const releaseURL = "https://github.com/yt-dlp/yt-dlp/releases/latest/download/%s"

func releaseAsset(goos, goarch string) (string, error) {
	switch {
	case goos == "windows" && goarch == "amd64":
		return "yt-dlp.exe", nil
	case goos == "windows" && goarch == "arm64":
		return "yt-dlp_arm64.exe", nil
	case goos == "linux" && goarch == "amd64":
		return "yt-dlp_linux", nil
	case goos == "linux" && goarch == "arm64":
		return "yt-dlp_linux_aarch64", nil
	case goos == "darwin":
		return "yt-dlp_macos", nil
	}
	return "", fmt.Errorf("unsupported OS/arch: %s/%s", goos, goarch)
}

func downloadYtdlp(cacheDir string) (string, error) {
	filename, err := releaseAsset(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return "", err
	}
	if cacheDir == "" {
		cacheDir = utils.CacheDir
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("error creating cache directory: %w", err)
	}
	filePath := filepath.Join(cacheDir, "yt-dlp")
	if runtime.GOOS == "windows" {
		filePath += ".exe"
	}
	client := utils.NewBulkHTTPClient(utils.HTTPClientConfig{})
	if err := downloadFile(context.Background(), client, fmt.Sprintf(releaseURL, filename), filePath); err != nil {
		return "", err
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(filePath, 0755); err != nil {
			return "", fmt.Errorf("error setting permissions: %w", err)
		}
	}
	return filePath, nil
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func downloadFile(ctx context.Context, client httpDoer, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}
	tmp := path + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
