package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	smartcrop "github.com/menta2k/smart-crop"
	"github.com/menta2k/smart-crop/internal/config"
	"github.com/menta2k/smart-crop/internal/logging"
	"github.com/menta2k/smart-crop/internal/utils"
	"github.com/menta2k/smart-crop/pkg/analyzer"
	"github.com/menta2k/smart-crop/pkg/types"
)

// cropRecord is one line of the crops.json summary.
type cropRecord struct {
	Input  string     `json:"input"`
	Output string     `json:"output"`
	Size   types.Size `json:"size"`
	Axis   string     `json:"axis"`
	X      int        `json:"x"`
	Y      int        `json:"y"`
}

func main() {
	var in, outDir, sizes, configPath string
	var strategy, metric, ext, logFile string
	var quality int
	var lossless, fit, debug, verbose bool

	flag.StringVar(&in, "in", "", "input image, directory or URL")
	flag.StringVar(&outDir, "out", "", "output directory (default from config)")
	flag.StringVar(&sizes, "size", "", "target sizes, e.g. 800x600,600x600")
	flag.StringVar(&configPath, "config", "", "JSON config file (default "+config.GetConfigPath()+" if present)")
	flag.StringVar(&strategy, "strategy", "", "crop strategy: contrast|saliency")
	flag.StringVar(&metric, "metric", "", "color distance: euclidean|ciede2000|cmc")
	flag.StringVar(&ext, "ext", "", "output format: jpg|png|webp")
	flag.IntVar(&quality, "quality", 0, "JPEG/WebP output quality (1-100)")
	flag.BoolVar(&lossless, "lossless", false, "WebP lossless output")
	flag.BoolVar(&fit, "fit", false, "scale images to cover the target before cropping")
	flag.BoolVar(&debug, "debug", false, "write debug overlays of the kept region")
	flag.BoolVar(&verbose, "verbose", false, "log the crop search of every image")
	flag.StringVar(&logFile, "logfile", "", "write logs to a rotating file")

	flag.Parse()
	if in == "" || sizes == "" {
		log.Fatalf("usage: %s -in input.jpg|dir|URL -size WxH[,WxH] [-out outdir] [-strategy contrast|saliency] [-metric euclidean|ciede2000|cmc] [-fit] [-ext jpg|png|webp]", filepath.Base(os.Args[0]))
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	// Flags given on the command line win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.Output.OutputDir = outDir
		case "strategy":
			cfg.Cropper.Strategy = strategy
		case "metric":
			cfg.Cropper.Metric = metric
		case "ext":
			cfg.Output.Format = ext
		case "quality":
			cfg.Output.Quality = quality
		case "lossless":
			cfg.Output.Lossless = lossless
		case "fit":
			cfg.Cropper.Fit = fit
		case "verbose":
			cfg.Log.Verbose = verbose
		case "logfile":
			cfg.Log.File = logFile
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	closer, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}

	// The log file is closed before exiting so rotation output is flushed.
	err = run(cfg, in, sizes, debug)
	if err != nil {
		log.Printf("smart-crop: %v", err)
	}
	closer.Close()
	if err != nil {
		os.Exit(1)
	}
}

// run crops every input to every size. Failures on a single image or size
// are logged and skipped; the returned error is for setup problems.
func run(cfg *config.Config, in, sizes string, debug bool) error {
	targets, err := types.ParseSizes(sizes)
	if err != nil {
		return err
	}

	cropConfig, err := cfg.CropConfig()
	if err != nil {
		return err
	}
	cropConfig.Logger = logging.EngineLogger(cfg.Log.Verbose)

	sc, err := smartcrop.NewWithConfig(smartcrop.Options{
		Analyzer: cfg.Analyzer,
		Cropper:  cropConfig,
		Strategy: cfg.Cropper.Strategy,
		Output: types.OutputOptions{
			Format:   cfg.Output.Format,
			Quality:  cfg.Output.Quality,
			Lossless: cfg.Output.Lossless,
		},
		Fit:    cfg.Cropper.Fit,
		Debug:  debug,
		Prefix: cfg.Output.Prefix,
		Suffix: cfg.Output.Suffix,
	})
	if err != nil {
		return err
	}

	if err := utils.EnsureDir(cfg.Output.OutputDir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	inputs, err := listInputs(in, analyzer.NewWithConfig(cfg.Analyzer))
	if err != nil {
		return err
	}
	log.Printf("smart-crop %s: %d input(s), %d size(s), strategy=%s metric=%s",
		smartcrop.Version, len(inputs), len(targets), cfg.Cropper.Strategy, cfg.Cropper.Metric)

	var records []cropRecord
	index := 0
	for _, input := range inputs {
		img, err := sc.LoadImage(input)
		if err != nil {
			log.Printf("load %s failed: %v", input, err)
			continue
		}
		if err := sc.ValidateImage(img); err != nil {
			log.Printf("skip %s: %v", input, err)
			continue
		}

		for _, size := range targets {
			index++
			result, source, err := sc.Crop(img, size)
			if err != nil {
				log.Printf("crop %s to %s failed: %v", input, size, err)
				continue
			}

			cropPath := utils.CropFilename(cfg.Output.OutputDir, index, size, cfg.Output.Format)
			if err := sc.SaveCrop(result, source, cropPath); err != nil {
				log.Printf("save %s failed: %v", cropPath, err)
				continue
			}

			if info, err := os.Stat(cropPath); err == nil {
				log.Printf("wrote %s (%s, %s crop at %d,%d)", cropPath, utils.FormatFileSize(info.Size()), result.Axis, result.Origin.X, result.Origin.Y)
			}
			records = append(records, cropRecord{
				Input:  input,
				Output: cropPath,
				Size:   size,
				Axis:   result.Axis.String(),
				X:      result.Origin.X,
				Y:      result.Origin.Y,
			})
		}
	}

	js, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cfg.Output.OutputDir, "crops.json"), js, 0o644)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	if utils.FileExists(config.GetConfigPath()) {
		return config.LoadFromFile(config.GetConfigPath())
	}
	return config.Default(), nil
}

// listInputs expands in into the image files to process. URLs are passed
// through untouched.
func listInputs(in string, a *analyzer.ImageAnalyzer) ([]string, error) {
	if strings.HasPrefix(in, "http://") || strings.HasPrefix(in, "https://") {
		return []string{in}, nil
	}
	return utils.ListImageFiles(in, a.IsFormatSupported)
}
