// Command wmark embeds and extracts watermark messages in WAV files.
//
// Usage:
//
//	wmark encode -in clean.wav -out marked.wav -message "text" [flags]
//	wmark decode -in marked.wav [flags]
//
// The decode parameters must match the ones used for encode.
//
// Examples:
//
//	wmark encode -in speech.wav -out marked.wav -message "owner:alice"
//	wmark encode -config project.yaml -message "take 7"
//	wmark decode -in marked.wav
//	wmark decode -in marked.wav -strength 0.2 -start-bin 12
package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-watermark/watermark"
	"github.com/cwbudde/algo-watermark/wavio"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "encode":
		err = runEncode(os.Args[2:])
	case "decode":
		err = runDecode(os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "wmark: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "wmark: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: wmark <encode|decode> [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Embeds and extracts watermark messages in WAV files.\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  encode  embed a message into a WAV file\n")
	fmt.Fprintf(os.Stderr, "  decode  extract the message from a watermarked WAV file\n\n")
	fmt.Fprintf(os.Stderr, "Run 'wmark <command> -h' for command flags.\n")
}

// fileConfig mirrors the YAML project file. Zero values mean "not set";
// explicit command-line flags take precedence over file values.
type fileConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Codec  struct {
		FrameDuration float64 `yaml:"frame_duration"`
		StartBin      int     `yaml:"start_bin"`
		Strength      float64 `yaml:"strength"`
		SampleRate    int     `yaml:"sample_rate"`
		Channels      int     `yaml:"channels"`
	} `yaml:"codec"`
	Workers int `yaml:"workers"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}

	return fc, nil
}

type codecFlags struct {
	in, out       string
	configPath    string
	frameDuration float64
	startBin      int
	strength      float64
	workers       int
}

func (cf *codecFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&cf.in, "in", "", "input WAV file")
	fs.StringVar(&cf.out, "out", "", "output WAV file (encode only)")
	fs.StringVar(&cf.configPath, "config", "", "YAML config file; explicit flags override it")
	fs.Float64Var(&cf.frameDuration, "frame-duration", watermark.DefaultFrameDuration, "frame duration in seconds")
	fs.IntVar(&cf.startBin, "start-bin", watermark.DefaultStartBin, "first frequency bin carrying data")
	fs.Float64Var(&cf.strength, "strength", watermark.DefaultStrength, "modulation depth in (0, 1)")
	fs.IntVar(&cf.workers, "workers", 1, "frames processed concurrently during encode")
}

// resolve merges flag values with the optional config file and the metadata
// read from the input WAV. Flags set on the command line win over the file;
// a sample rate or channel count pinned in the file must match the actual
// WAV, since a mismatch desynchronizes the bit-to-bin mapping.
func (cf *codecFlags) resolve(fs *flag.FlagSet, info wavio.Info) (watermark.Config, error) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := watermark.DefaultConfig(info.SampleRate)
	cfg.FrameDuration = cf.frameDuration
	cfg.StartBin = cf.startBin
	cfg.Strength = cf.strength

	if cf.configPath != "" {
		fc, err := loadFileConfig(cf.configPath)
		if err != nil {
			return watermark.Config{}, err
		}

		if fc.Codec.SampleRate != 0 && fc.Codec.SampleRate != info.SampleRate {
			return watermark.Config{}, fmt.Errorf("%w: config expects %d Hz, input is %d Hz",
				watermark.ErrConfigMismatch, fc.Codec.SampleRate, info.SampleRate)
		}

		if fc.Codec.Channels != 0 && fc.Codec.Channels != info.Channels {
			return watermark.Config{}, fmt.Errorf("%w: config expects %d channels, input has %d",
				watermark.ErrConfigMismatch, fc.Codec.Channels, info.Channels)
		}

		if !set["frame-duration"] && fc.Codec.FrameDuration != 0 {
			cfg.FrameDuration = fc.Codec.FrameDuration
		}
		if !set["start-bin"] && fc.Codec.StartBin != 0 {
			cfg.StartBin = fc.Codec.StartBin
		}
		if !set["strength"] && fc.Codec.Strength != 0 {
			cfg.Strength = fc.Codec.Strength
		}
		if !set["workers"] && fc.Workers != 0 {
			cf.workers = fc.Workers
		}
		if !set["in"] && fc.Input != "" {
			cf.in = fc.Input
		}
		if !set["out"] && fc.Output != "" {
			cf.out = fc.Output
		}
	}

	return cfg, nil
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	var cf codecFlags
	cf.register(fs)
	message := fs.String("message", "", "message to embed (UTF-8)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// The input path may come from the config file, so peek at it early.
	if cf.in == "" && cf.configPath != "" {
		fc, err := loadFileConfig(cf.configPath)
		if err != nil {
			return err
		}
		cf.in = fc.Input
	}
	if cf.in == "" {
		return fmt.Errorf("encode: -in is required")
	}

	samples, info, err := wavio.ReadFile(cf.in)
	if err != nil {
		return err
	}

	cfg, err := cf.resolve(fs, info)
	if err != nil {
		return err
	}

	if cf.out == "" {
		return fmt.Errorf("encode: -out is required")
	}

	var opts []watermark.EncoderOption
	if cf.workers > 1 {
		opts = append(opts, watermark.WithWorkers(cf.workers))
	}

	enc, err := watermark.NewEncoder(cfg, opts...)
	if err != nil {
		return err
	}

	marked, err := enc.Embed(samples, []byte(*message))
	if err != nil {
		return err
	}

	if err := wavio.WriteFile(cf.out, marked, info); err != nil {
		return err
	}

	fmt.Printf("embedded %d bytes into %s (%d samples, capacity %d bits)\n",
		len(*message), cf.out, len(marked), enc.Capacity(len(samples)))

	return nil
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	var cf codecFlags
	cf.register(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cf.in == "" && cf.configPath != "" {
		fc, err := loadFileConfig(cf.configPath)
		if err != nil {
			return err
		}
		cf.in = fc.Input
	}
	if cf.in == "" {
		return fmt.Errorf("decode: -in is required")
	}

	samples, info, err := wavio.ReadFile(cf.in)
	if err != nil {
		return err
	}

	cfg, err := cf.resolve(fs, info)
	if err != nil {
		return err
	}

	dec, err := watermark.NewDecoder(cfg)
	if err != nil {
		return err
	}

	msg, err := dec.Extract(samples)
	if err != nil {
		return err
	}

	fmt.Println(msg)

	return nil
}
