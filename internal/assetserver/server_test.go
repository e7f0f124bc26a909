package assetserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

// startOnFreePort binds port 0 so tests never collide.
func startOnFreePort(t *testing.T, basedir, imageDir string) *Server {
	t.Helper()

	s, err := Start(basedir, 0, imageDir)
	if err != nil {
		t.Fatalf("Start error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func fetch(t *testing.T, url string) (int, string) {
	t.Helper()

	resp, err := http.Get(url) // #nosec G107 -- loopback test URL
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestServer_ServesBasedir(t *testing.T) {
	t.Parallel()

	basedir := t.TempDir()
	if err := os.WriteFile(filepath.Join(basedir, "style.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := startOnFreePort(t, basedir, t.TempDir())

	status, body := fetch(t, s.BaseURL()+"/style.css")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body != "body{}" {
		t.Errorf("body = %q, want stylesheet content", body)
	}
}

func TestServer_ServesDiagramsUnderPrefix(t *testing.T) {
	t.Parallel()

	imageDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(imageDir, "diagram-abcd-0.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := startOnFreePort(t, t.TempDir(), imageDir)

	status, body := fetch(t, s.DiagramURL()+"/diagram-abcd-0.png")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body != "png" {
		t.Errorf("body = %q, want image content", body)
	}
}

func TestServer_MissingFileIs404(t *testing.T) {
	t.Parallel()

	s := startOnFreePort(t, t.TempDir(), t.TempDir())

	if status, _ := fetch(t, s.BaseURL()+"/nope.css"); status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
}

func TestServer_PortConflict(t *testing.T) {
	t.Parallel()

	first, err := Start(t.TempDir(), 0, t.TempDir())
	if err != nil {
		t.Fatalf("Start error = %v", err)
	}
	t.Cleanup(func() { _ = first.Close() })

	// Re-binding the exact same port must fail with ErrListen.
	var port int
	if _, err := fmt.Sscanf(first.BaseURL(), "http://127.0.0.1:%d", &port); err != nil {
		t.Fatalf("parsing port: %v", err)
	}

	if _, err := Start(t.TempDir(), port, t.TempDir()); !errors.Is(err, ErrListen) {
		t.Errorf("second Start error = %v, want ErrListen", err)
	}
}
