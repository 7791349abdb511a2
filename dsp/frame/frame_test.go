package frame

import "testing"

func TestNewSegmenterRejectsInvalidLength(t *testing.T) {
	for _, n := range []int{-1, 0} {
		if _, err := NewSegmenter(nil, n); err == nil {
			t.Fatalf("NewSegmenter(frameLen=%d) expected error", n)
		}
	}
}

func TestCount(t *testing.T) {
	cases := []struct {
		samples  int
		frameLen int
		want     int
	}{
		{0, 4, 0},
		{1, 4, 1},
		{4, 4, 1},
		{5, 4, 2},
		{8, 4, 2},
		{9, 4, 3},
	}

	for _, tc := range cases {
		seg, err := NewSegmenter(make([]float64, tc.samples), tc.frameLen)
		if err != nil {
			t.Fatalf("NewSegmenter error: %v", err)
		}
		if got := seg.Count(); got != tc.want {
			t.Fatalf("Count for %d samples / frameLen %d: got %d want %d", tc.samples, tc.frameLen, got, tc.want)
		}
	}
}

func TestAtCoversBufferWithoutGapsOrOverlap(t *testing.T) {
	samples := make([]float64, 10)
	for i := range samples {
		samples[i] = float64(i)
	}

	seg, err := NewSegmenter(samples, 4)
	if err != nil {
		t.Fatalf("NewSegmenter error: %v", err)
	}

	var flat []float64
	for i := range seg.Count() {
		flat = append(flat, seg.At(i)...)
	}

	if len(flat) != len(samples) {
		t.Fatalf("concatenated frames length=%d want=%d", len(flat), len(samples))
	}
	for i := range flat {
		if flat[i] != samples[i] {
			t.Fatalf("index %d: got %v want %v", i, flat[i], samples[i])
		}
	}
}

func TestAtFinalFrameIsShort(t *testing.T) {
	seg, err := NewSegmenter(make([]float64, 10), 4)
	if err != nil {
		t.Fatalf("NewSegmenter error: %v", err)
	}

	last := seg.At(2)
	if len(last) != 2 {
		t.Fatalf("final frame length=%d want=2", len(last))
	}

	if seg.At(3) != nil {
		t.Fatalf("out-of-range frame should be nil")
	}
	if seg.At(-1) != nil {
		t.Fatalf("negative index should be nil")
	}
}

func TestCopyAtZeroPads(t *testing.T) {
	samples := []float64{1, 2, 3, 4, 5}

	seg, err := NewSegmenter(samples, 4)
	if err != nil {
		t.Fatalf("NewSegmenter error: %v", err)
	}

	dst := []float64{9, 9, 9, 9, 9, 9, 9, 9}

	n := seg.CopyAt(dst, 1)
	if n != 1 {
		t.Fatalf("CopyAt copied %d want 1", n)
	}
	if dst[0] != 5 {
		t.Fatalf("dst[0]=%v want 5", dst[0])
	}
	for i := 1; i < len(dst); i++ {
		if dst[i] != 0 {
			t.Fatalf("dst[%d]=%v want 0 (zero padding)", i, dst[i])
		}
	}
}
