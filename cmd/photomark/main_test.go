package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// executeCommand runs the root command with args and captures its output.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

// workdir switches to an empty directory with no config or .env file.
func workdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PHOTOMARK_CONFIG", "")
	return dir
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestBackendsCmd(t *testing.T) {
	out, _, err := executeCommand(t, "backends")
	if err != nil {
		t.Fatalf("backends error = %v", err)
	}
	if !strings.Contains(out, "software") || !strings.Contains(out, "true") {
		t.Errorf("backends output = %q, want software backend listed as available", out)
	}
}

func TestEditCmd(t *testing.T) {
	dir := workdir(t)
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 200, 100)
	outPath := filepath.Join(dir, "out", "result.png")

	out, errOut, err := executeCommand(t, "edit", in,
		"--text", "Hello", "--shape", "circle,rectangle", "--shape", "polygon",
		"--inspect", "--out", outPath)
	if err != nil {
		t.Fatalf("edit error = %v, stderr: %s", err, errOut)
	}

	dec := json.NewDecoder(strings.NewReader(out))
	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		t.Fatalf("decode --inspect output: %v\n%s", err, out)
	}
	if len(objects) != 5 {
		t.Fatalf("objects = %d, want 5", len(objects))
	}
	if objects[1]["text"] != "Hello" {
		t.Errorf("text = %v, want Hello", objects[1]["text"])
	}
	for i, want := range []string{"image", "text", "circle", "rectangle", "polygon"} {
		if objects[i]["type"] != want {
			t.Errorf("objects[%d].type = %v, want %s", i, objects[i]["type"], want)
		}
	}
	if !strings.Contains(out, "saved "+outPath) {
		t.Errorf("output = %q, want saved path", out)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(500, 500) {
		t.Errorf("export size = %v, want 500x500", got)
	}
}

func TestEditCmdKeepsFlagOrder(t *testing.T) {
	dir := workdir(t)
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 40, 40)

	out, errOut, err := executeCommand(t, "edit", in,
		"--shape", "circle", "--text", "Hi", "--shape", "triangle,rectangle", "--text", "Bye",
		"--inspect", "--out", filepath.Join(dir, "out.png"))
	if err != nil {
		t.Fatalf("edit error = %v, stderr: %s", err, errOut)
	}
	var objects []map[string]any
	if err := json.NewDecoder(strings.NewReader(out)).Decode(&objects); err != nil {
		t.Fatalf("decode --inspect output: %v\n%s", err, out)
	}
	want := []string{"image", "circle", "text", "triangle", "rectangle", "text"}
	if len(objects) != len(want) {
		t.Fatalf("objects = %d, want %d", len(objects), len(want))
	}
	for i, w := range want {
		if objects[i]["type"] != w {
			t.Errorf("objects[%d].type = %v, want %s", i, objects[i]["type"], w)
		}
	}
	if objects[2]["text"] != "Hi" || objects[5]["text"] != "Bye" {
		t.Errorf("texts = %v, %v, want Hi, Bye", objects[2]["text"], objects[5]["text"])
	}
}

func TestEditCmdJPEGQuality(t *testing.T) {
	dir := workdir(t)
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 200, 200)

	export := func(name string) int64 {
		t.Helper()
		out := filepath.Join(dir, name)
		if _, errOut, err := executeCommand(t, "edit", in, "--shape", "circle", "--format", "jpeg", "--out", out); err != nil {
			t.Fatalf("edit error = %v, stderr: %s", err, errOut)
		}
		fi, err := os.Stat(out)
		if err != nil {
			t.Fatal(err)
		}
		return fi.Size()
	}

	def := export("default.jpg")
	if err := os.WriteFile(filepath.Join(dir, "photomark.yaml"), []byte("export:\n  jpeg_quality: 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	low := export("low.jpg")
	if low >= def {
		t.Errorf("size at jpeg_quality 5 = %d, want less than default %d", low, def)
	}
}

func TestEditCmdDefaultOutput(t *testing.T) {
	dir := workdir(t)
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 20, 20)

	if _, errOut, err := executeCommand(t, "edit", in); err != nil {
		t.Fatalf("edit error = %v, stderr: %s", err, errOut)
	}
	if _, err := os.Stat(filepath.Join(dir, "edited-image.png")); err != nil {
		t.Errorf("default export missing: %v", err)
	}
}

func TestEditCmdErrors(t *testing.T) {
	dir := workdir(t)
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 10, 10)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown shape", []string{"edit", in, "--shape", "hexagon"}, "unknown shape"},
		{"missing file", []string{"edit", filepath.Join(dir, "nope.png")}, "load image"},
		{"bad format", []string{"edit", in, "--format", "gif"}, "unsupported format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestSearchCmdRequiresAPIKey(t *testing.T) {
	workdir(t)
	t.Setenv("PHOTOMARK_PEXELS_API_KEY", "")
	t.Setenv("PEXELS_API_KEY", "")

	_, _, err := executeCommand(t, "search", "cats")
	if err == nil || !strings.Contains(err.Error(), "api_key") {
		t.Errorf("search error = %v, want missing API key", err)
	}
}

func TestSearchCmd(t *testing.T) {
	workdir(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "test-key" || r.URL.Query().Get("query") != "red fox" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"photos":[{"id":5,"photographer":"Kim","src":{"medium":"m","large":"https://img/5"}}]}`))
	}))
	defer srv.Close()
	t.Setenv("PHOTOMARK_PEXELS_API_KEY", "test-key")
	t.Setenv("PHOTOMARK_PEXELS_BASE_URL", srv.URL)

	out, errOut, err := executeCommand(t, "search", "red", "fox")
	if err != nil {
		t.Fatalf("search error = %v, stderr: %s", err, errOut)
	}
	if !strings.Contains(out, "Kim") || !strings.Contains(out, "https://img/5") {
		t.Errorf("search output = %q", out)
	}
}
