package wavio_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-watermark/internal/testutil"
	"github.com/cwbudde/algo-watermark/watermark"
	"github.com/cwbudde/algo-watermark/wavio"
)

func TestNormalizeQuantizeWithinOneLSB(t *testing.T) {
	pcm := make([]int, 0, math.MaxInt16-math.MinInt16+1)
	for v := math.MinInt16; v <= math.MaxInt16; v++ {
		pcm = append(pcm, v)
	}

	samples := make([]float64, len(pcm))
	wavio.Normalize(samples, pcm)

	back := make([]int, len(pcm))
	wavio.Quantize(back, samples)

	for i, v := range pcm {
		diff := back[i] - v
		if diff < -1 || diff > 1 {
			t.Fatalf("sample %d: round trip %d -> %d, off by %d", i, v, back[i], diff)
		}
	}
}

func TestQuantizeClampsOutOfRange(t *testing.T) {
	samples := []float64{-2.5, -1, 0, 1, 3.7}
	pcm := make([]int, len(samples))
	wavio.Quantize(pcm, samples)

	want := []int{-32767, -32767, 0, 32767, 32767}
	for i, w := range want {
		if pcm[i] != w {
			t.Fatalf("sample %d: got %d, want %d", i, pcm[i], w)
		}
	}
}

func TestNormalizeFullScale(t *testing.T) {
	samples := make([]float64, 2)
	wavio.Normalize(samples, []int{math.MinInt16, math.MaxInt16})

	if samples[0] != -1 {
		t.Fatalf("minimum sample: got %g, want -1", samples[0])
	}

	if samples[1] >= 1 {
		t.Fatalf("maximum sample: got %g, want < 1", samples[1])
	}
}

func TestFileRoundTrip(t *testing.T) {
	const sampleRate = 8000

	signal := testutil.DeterministicSine(440, sampleRate, 0.6, sampleRate/4)
	info := wavio.Info{SampleRate: sampleRate, Channels: 1, BitDepth: 16}
	path := filepath.Join(t.TempDir(), "roundtrip.wav")

	if err := wavio.WriteFile(path, signal, info); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, gotInfo, err := wavio.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if gotInfo != info {
		t.Fatalf("info: got %+v, want %+v", gotInfo, info)
	}

	if len(got) != len(signal) {
		t.Fatalf("length: got %d, want %d", len(got), len(signal))
	}

	const lsb = 1.0 / 32768.0
	for i := range signal {
		if math.Abs(got[i]-signal[i]) > lsb {
			t.Fatalf("sample %d: got %g, want %g within %g", i, got[i], signal[i], lsb)
		}
	}
}

func TestWriteFileRejectsInvalidInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.wav")

	if err := wavio.WriteFile(path, []float64{0}, wavio.Info{SampleRate: 0, Channels: 1}); err == nil {
		t.Fatal("expected error for zero sample rate")
	}

	if err := wavio.WriteFile(path, []float64{0}, wavio.Info{SampleRate: 8000, Channels: 0}); err == nil {
		t.Fatal("expected error for zero channel count")
	}
}

func TestReadFileRejectsNonWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.wav")
	if _, _, err := wavio.ReadFile(path); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEmbedSurvivesFileRoundTrip(t *testing.T) {
	// 20 ms at 12800 Hz is exactly the 256-point transform length, so the
	// embedded magnitudes survive re-analysis; quantization noise is far
	// below the modulation depth.
	cfg := watermark.DefaultConfig(12800)

	enc, err := watermark.NewEncoder(cfg)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	signal := testutil.ImpulseTrain(8*cfg.FrameLength(), cfg.FrameLength(), 0.5)

	marked, err := enc.Embed(signal, []byte("AB"))
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	info := wavio.Info{SampleRate: cfg.SampleRate, Channels: 1, BitDepth: 16}
	path := filepath.Join(t.TempDir(), "marked.wav")

	if err := wavio.WriteFile(path, marked, info); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loaded, gotInfo, err := wavio.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if gotInfo.SampleRate != cfg.SampleRate {
		t.Fatalf("sample rate: got %d, want %d", gotInfo.SampleRate, cfg.SampleRate)
	}

	dec, err := watermark.NewDecoder(cfg)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	msg, err := dec.Extract(loaded)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if msg != "AB" {
		t.Fatalf("message: got %q, want %q", msg, "AB")
	}
}
