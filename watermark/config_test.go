package watermark

import "testing"

func TestConfigDerivedLengths(t *testing.T) {
	cfg := DefaultConfig(8000)

	if got := cfg.FrameLength(); got != 160 {
		t.Fatalf("FrameLength=%d want=160", got)
	}

	if got := cfg.TransformLength(); got != 256 {
		t.Fatalf("TransformLength=%d want=256", got)
	}

	if got := cfg.Bins(); got != 129 {
		t.Fatalf("Bins=%d want=129", got)
	}

	if got := cfg.UsableBins(); got != 119 {
		t.Fatalf("UsableBins=%d want=119", got)
	}

	if got := cfg.BitLength(2); got != 40 {
		t.Fatalf("BitLength(2)=%d want=40", got)
	}
}

func TestConfigFrameLengthMinimum(t *testing.T) {
	cfg := DefaultConfig(1)
	cfg.FrameDuration = 1e-6

	if got := cfg.FrameLength(); got != 1 {
		t.Fatalf("FrameLength=%d want=1", got)
	}

	if got := cfg.TransformLength(); got != 2 {
		t.Fatalf("TransformLength=%d want=2", got)
	}
}

func TestConfigCapacity(t *testing.T) {
	cfg := DefaultConfig(8000)

	cases := []struct {
		samples int
		want    int
	}{
		{0, 0},
		{-5, 0},
		{1, 119},
		{160, 119},
		{161, 238},
		{480, 357},
	}

	for _, tc := range cases {
		if got := cfg.Capacity(tc.samples); got != tc.want {
			t.Fatalf("Capacity(%d)=%d want=%d", tc.samples, got, tc.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig(8000)
	if err := valid.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }},
		{"negative sample rate", func(c *Config) { c.SampleRate = -8000 }},
		{"zero frame duration", func(c *Config) { c.FrameDuration = 0 }},
		{"zero strength", func(c *Config) { c.Strength = 0 }},
		{"full strength", func(c *Config) { c.Strength = 1 }},
		{"negative start bin", func(c *Config) { c.StartBin = -1 }},
		{"start bin past spectrum", func(c *Config) { c.StartBin = 129 }},
		{"empty pilot", func(c *Config) { c.Pilot = nil }},
		{"non-binary pilot", func(c *Config) { c.Pilot = []byte{0, 1, 2} }},
		{"all-ones pilot", func(c *Config) { c.Pilot = []byte{1, 1, 1, 1} }},
		{"all-zeros pilot", func(c *Config) { c.Pilot = []byte{0, 0, 0, 0} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig(8000)
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestConfigValidateLastUsableBin(t *testing.T) {
	cfg := DefaultConfig(8000)
	cfg.StartBin = 128

	if err := cfg.Validate(); err != nil {
		t.Fatalf("start bin at last spectrum bin should validate: %v", err)
	}

	if got := cfg.UsableBins(); got != 1 {
		t.Fatalf("UsableBins=%d want=1", got)
	}
}

func TestConfigEqual(t *testing.T) {
	a := DefaultConfig(8000)
	b := DefaultConfig(8000)

	if !a.Equal(b) {
		t.Fatalf("identical configs should compare equal")
	}

	b.Strength = 0.2
	if a.Equal(b) {
		t.Fatalf("differing strength should compare unequal")
	}

	c := DefaultConfig(8000)
	c.Pilot = []byte{1, 0, 1, 0}
	if a.Equal(c) {
		t.Fatalf("differing pilot should compare unequal")
	}

	if a.Equal(DefaultConfig(44100)) {
		t.Fatalf("differing sample rate should compare unequal")
	}
}
