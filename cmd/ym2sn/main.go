package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/psgtools/go-ym2sn/ymsn/convert"
	"github.com/psgtools/go-ym2sn/ymsn/render"
	"github.com/psgtools/go-ym2sn/ymsn/vgm"
	"github.com/psgtools/go-ym2sn/ymsn/viewer"
	"github.com/psgtools/go-ym2sn/ymsn/ym"
)

func main() {
	app := cli.NewApp()
	app.Name = "ym2sn"
	app.Description = "Converts YM2149 register dumps into SN76489 VGM files"
	app.Usage = "ym2sn [command] <YM file>"
	app.Version = "1.0.0"

	convertFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "out, o",
			Usage: "Output path (default: input with .vgm extension)",
		},
		cli.IntFlag{
			Name:  "sn-clock",
			Usage: "Target SN76489 clock in Hz",
			Value: 4000000,
		},
		cli.StringFlag{
			Name:  "source-clock",
			Usage: "YM clock: st, spectrum, cpc or a value in Hz (default: from file)",
		},
		cli.IntFlag{
			Name:  "lfsr",
			Usage: "SN shift register tap bit (15 or 16)",
			Value: 15,
		},
		cli.IntFlag{
			Name:  "env-rate",
			Usage: "Envelope sample rate in Hz, a multiple of the frame rate (0 = frame rate)",
		},
		cli.StringFlag{
			Name:  "mute",
			Usage: "Channels to mute, e.g. \"ac\" or \"n\" for noise",
		},
		cli.BoolFlag{
			Name:  "software-bass",
			Usage: "Flag out-of-range low tones for a software-bass player instead of periodic noise",
		},
		cli.BoolFlag{
			Name:  "tuned-noise",
			Usage: "Pitch white noise from tone channel 2 instead of the fixed rates",
		},
		cli.BoolFlag{
			Name:  "no-envelopes",
			Usage: "Skip envelope simulation, play enveloped voices at full volume",
		},
		cli.BoolFlag{
			Name:  "attenuation",
			Usage: "Map volumes by dB scaling instead of the amplitude tables",
		},
		cli.BoolFlag{
			Name:  "no-bass-bias",
			Usage: "Disable the pre-scan bass channel bias",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:   "convert",
			Usage:  "Convert a YM file to VGM",
			Flags:  convertFlags,
			Action: runConvert,
		},
		{
			Name:   "info",
			Usage:  "Print the YM header and a conversion dry-run summary",
			Flags:  convertFlags,
			Action: runInfo,
		},
		{
			Name:   "dump",
			Usage:  "Browse the decoded register frames in the terminal",
			Action: runDump,
		},
		{
			Name:   "render",
			Usage:  "Convert and render through an emulated SN76489 to WAV",
			Flags:  convertFlags,
			Action: runRender,
		},
	}
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
	app.Before = func(c *cli.Context) error {
		level := slog.LevelInfo
		if c.Bool("verbose") {
			level = slog.LevelDebug
		}
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		slog.SetDefault(slog.New(handler))
		return nil
	}
	app.Action = runConvert

	if err := app.Run(os.Args); err != nil {
		slog.Error("ym2sn failed", "error", err)
		os.Exit(1)
	}
}

func loadSong(c *cli.Context) (*ym.Song, string, error) {
	if c.NArg() < 1 {
		cli.ShowAppHelp(c)
		return nil, "", errors.New("no YM file provided")
	}
	path := c.Args().Get(0)
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	song, err := ym.Load(f)
	if err != nil {
		return nil, "", err
	}
	slog.Debug("loaded YM file",
		"format", song.Header.Format,
		"frames", song.Header.FrameCount,
		"rate", song.Header.FrameRate,
		"clock", song.Header.ChipClock)
	return song, path, nil
}

func buildConfig(c *cli.Context) (convert.Config, error) {
	cfg := convert.Default()
	// Flag lookups fall back to zero when the bare top-level action is
	// used; keep the defaults in that case.
	if v := c.Int("sn-clock"); v != 0 {
		cfg.TargetClockHz = v
	}
	if v := c.Int("lfsr"); v != 0 {
		cfg.LFSRTapBit = v
	}
	cfg.EnvelopeSampleRateHz = c.Int("env-rate")
	cfg.SoftwareBass = c.Bool("software-bass")
	cfg.TunedWhiteNoise = c.Bool("tuned-noise")
	cfg.DisableEnvelopes = c.Bool("no-envelopes")
	cfg.ForceAttenuationMapping = c.Bool("attenuation")
	cfg.BassBias = !c.Bool("no-bass-bias")

	switch src := strings.ToLower(c.String("source-clock")); src {
	case "":
	case "st":
		cfg.SourceClockHz = 2000000
	case "spectrum":
		cfg.SourceClockHz = 1773400
	case "cpc":
		cfg.SourceClockHz = 1000000
	default:
		hz, err := strconv.Atoi(src)
		if err != nil {
			return cfg, fmt.Errorf("unrecognised source clock %q", src)
		}
		cfg.SourceClockHz = hz
	}

	for _, r := range strings.ToLower(c.String("mute")) {
		switch r {
		case 'a':
			cfg.Filter &^= convert.ChannelA
		case 'b':
			cfg.Filter &^= convert.ChannelB
		case 'c':
			cfg.Filter &^= convert.ChannelC
		case 'n':
			cfg.Filter &^= convert.ChannelNoise
		default:
			return cfg, fmt.Errorf("unrecognised mute channel %q", r)
		}
	}
	return cfg, nil
}

func runConvert(c *cli.Context) error {
	song, path, err := loadSong(c)
	if err != nil {
		return err
	}
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	res, err := convert.New(cfg).Convert(song)
	if err != nil {
		return err
	}
	res.Report.LogSummary(slog.Default())

	outPath := c.String("out")
	if outPath == "" {
		outPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".vgm"
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	meta := vgm.Metadata{
		Title:   song.Header.Title,
		Author:  song.Header.Author,
		Comment: song.Header.Comment,
	}
	if err := vgm.Write(out, res, meta); err != nil {
		return err
	}
	slog.Info("wrote VGM", "path", outPath, "samples", res.TotalSamples, "loop", res.HasLoop)
	return nil
}

func runInfo(c *cli.Context) error {
	song, _, err := loadSong(c)
	if err != nil {
		return err
	}
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	h := song.Header
	fmt.Printf("format:     %s\n", h.Format)
	fmt.Printf("title:      %s\n", h.Title)
	fmt.Printf("author:     %s\n", h.Author)
	fmt.Printf("comment:    %s\n", h.Comment)
	if h.FrameRate > 0 {
		fmt.Printf("frames:     %d (%d:%02d at %d Hz)\n", h.FrameCount,
			h.FrameCount/h.FrameRate/60, h.FrameCount/h.FrameRate%60, h.FrameRate)
	} else {
		fmt.Printf("frames:     %d\n", h.FrameCount)
	}
	fmt.Printf("clock:      %d Hz\n", h.ChipClock)
	fmt.Printf("loop frame: %d\n", h.LoopFrame)
	fmt.Printf("digidrums:  %d\n", h.DigiDrums)

	stats := convert.Prescan(song, cfg)
	for v, n := range stats.LowFrames {
		fmt.Printf("voice %c sub-floor frames: %d\n", 'A'+v, n)
	}
	fmt.Printf("multi-voice bass frames: %d\n", stats.MultiLowFrames)
	return nil
}

func runDump(c *cli.Context) error {
	song, _, err := loadSong(c)
	if err != nil {
		return err
	}
	return viewer.Run(song)
}

func runRender(c *cli.Context) error {
	song, path, err := loadSong(c)
	if err != nil {
		return err
	}
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	res, err := convert.New(cfg).Convert(song)
	if err != nil {
		return err
	}
	res.Report.LogSummary(slog.Default())

	outPath := c.String("out")
	if outPath == "" {
		outPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".wav"
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := render.WAV(out, res); err != nil {
		return err
	}
	slog.Info("wrote WAV", "path", outPath)
	return nil
}
