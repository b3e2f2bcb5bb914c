package capture

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDevicesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"video2", "video0", "video1", "audio0"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := Devices(filepath.Join(dir, "video*"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"video0", "video1", "video2"}
	if len(got) != len(want) {
		t.Fatalf("Devices() = %v, want %d entries", got, len(want))
	}
	for i := range want {
		if filepath.Base(got[i]) != want[i] {
			t.Errorf("Devices()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSelectDevice(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "video*")

	if _, err := SelectDevice("", empty); !errors.Is(err, ErrNoDevices) {
		t.Errorf("SelectDevice with no devices: err = %v, want ErrNoDevices", err)
	}
	if dev, err := SelectDevice("/dev/video7", empty); err != nil || dev != "/dev/video7" {
		t.Errorf("SelectDevice(preferred) = %q, %v", dev, err)
	}

	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "video3"), nil, 0o644)
	os.WriteFile(filepath.Join(dir, "video1"), nil, 0o644)
	dev, err := SelectDevice("", filepath.Join(dir, "video*"))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(dev) != "video1" {
		t.Errorf("SelectDevice() = %s, want first sorted device", dev)
	}
}

func TestBuildCaps(t *testing.T) {
	tests := []struct {
		fps  float64
		want string
	}{
		{30, "video/x-raw,format=RGB,width=640,height=480,framerate=30/1"},
		{0, "video/x-raw,format=RGB,width=640,height=480,framerate=30/1"},
		{29.97, "video/x-raw,format=RGB,width=640,height=480,framerate=29970/1000"},
	}
	for _, tt := range tests {
		if got := buildCaps(640, 480, tt.fps); got != tt.want {
			t.Errorf("buildCaps(fps=%v) = %q, want %q", tt.fps, got, tt.want)
		}
	}
}

func TestPackRGB(t *testing.T) {
	// 640 wide: 1920-byte rows are already aligned
	tight := make([]byte, 640*480*3)
	tight[len(tight)-1] = 9
	out, err := packRGB(tight, 640, 480)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(tight) || out[len(out)-1] != 9 {
		t.Error("aligned buffer should copy through unchanged")
	}
	tight[0] = 1
	if out[0] == 1 {
		t.Error("packRGB must copy, not alias, the mapped buffer")
	}

	// 3 wide: 9-byte rows padded to 12
	padded := []byte{
		1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 0, 0,
		10, 11, 12, 13, 14, 15, 16, 17, 18, 0, 0, 0,
	}
	out, err = packRGB(padded, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}
	if string(out) != string(want) {
		t.Errorf("packRGB padded = %v, want %v", out, want)
	}

	if _, err := packRGB(make([]byte, 10), 640, 480); err == nil {
		t.Error("expected error for short buffer")
	}
	if _, err := packRGB(make([]byte, 10), 0, 480); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestRGBStride(t *testing.T) {
	tests := []struct{ width, want int }{
		{640, 1920},
		{3, 12},
		{1, 4},
		{4, 12},
	}
	for _, tt := range tests {
		if got := rgbStride(tt.width); got != tt.want {
			t.Errorf("rgbStride(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestWebcamCloseBeforeStart(t *testing.T) {
	w := &Webcam{cfg: PipelineConfig{Device: "/dev/video0", Width: 640, Height: 480}}
	if err := w.Close(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Close() before Start = %v, want ErrNotStarted", err)
	}
	if _, ok := w.Poll(); ok {
		t.Error("Poll() before Start should return no frame")
	}
	if s := w.Stats(); s.Frames != 0 || s.Uptime != 0 || s.Resolution != "640x480" {
		t.Errorf("Stats() before Start = %+v", s)
	}
}
