package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/prompt2video/internal/compositor"
	"github.com/ivlev/prompt2video/internal/config"
	"github.com/ivlev/prompt2video/internal/engine"
	"github.com/ivlev/prompt2video/internal/palette"
	"github.com/ivlev/prompt2video/internal/session"
	"github.com/ivlev/prompt2video/internal/source"
	"github.com/ivlev/prompt2video/internal/system"
	"github.com/ivlev/prompt2video/internal/video"
)

var buildVersion = "dev"

func main() {
	// Standard working directories
	dirs := []string{"input/prompt", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	inputPtr := flag.String("input", "", "Prompt file: .txt/.md/.pdf, or '-' for stdin (default: latest file in input/prompt/)")
	textPtr := flag.String("text", "", "Prompt text passed inline (overrides -input)")
	outputPtr := flag.String("output", "", "Output video path (default: generated under output/)")
	stylePtr := flag.String("style", "cosmic", "Visual style: "+strings.Join(palette.Styles(), ", "))
	titlePtr := flag.String("title", compositor.DefaultTitle, "Fixed title label shown at the top of every frame")
	widthPtr := flag.Int("width", 1280, "Width")
	heightPtr := flag.Int("height", 720, "Height")
	fpsPtr := flag.Int("fps", 24, "FPS (12-60)")
	scenePtr := flag.Float64("scene-seconds", 3, "Seconds per scene (2-6)")
	presetPtr := flag.String("preset", "", "Format preset: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	qualityPtr := flag.Int("quality", 0, "Video quality (0 = auto; x264: CRF 1-51, VideoToolbox: bitrate = Q*100 kbit/s)")
	bitratePtr := flag.Int("bitrate", 0, "Explicit bitrate hint in kbit/s (overrides -quality mapping)")
	qrPtr := flag.String("qr-link", "", "Link rendered as a faint QR badge in the corner")
	sbInPtr := flag.String("storyboard-in", "", "Render from a saved storyboard YAML instead of a prompt")
	sbOutPtr := flag.String("storyboard-out", "", "Dump the storyboard YAML and exit without rendering")
	realtimePtr := flag.Bool("realtime", false, "Pace frame production to the presentation rate")
	statsPtr := flag.Bool("stats", false, "Print a performance report")

	flag.Parse()

	width, height := *widthPtr, *heightPtr
	switch *presetPtr {
	case "16:9":
		width, height = 1280, 720
	case "9:16":
		width, height = 720, 1280
	case "4:5":
		width, height = 1080, 1350
	}

	// Resolve the prompt source
	var prompt string
	if *sbInPtr == "" {
		var src source.PromptSource
		if *textPtr != "" {
			src = source.NewInline(*textPtr)
		} else {
			inputPath := *inputPtr
			if inputPath == "" {
				latest, err := system.FindLatestPrompt("input/prompt")
				if err != nil {
					log.Fatalf("[-] Error: %v. Put a prompt file in input/prompt/ or use -text", err)
				}
				inputPath = latest
				fmt.Printf("[*] Selected prompt: %s\n", inputPath)
			}
			var err error
			src, err = source.Resolve(inputPath)
			if err != nil {
				log.Fatalf("[-] Error opening prompt source: %v", err)
			}
		}

		text, err := src.Text()
		src.Close()
		if err != nil {
			log.Fatalf("[-] Error reading prompt: %v", err)
		}
		prompt = text
	}

	// The capture toolchain must exist before anything is rendered
	if err := system.CheckFFmpeg(); err != nil {
		log.Fatalf("[-] Error: %v", err)
	}

	encoderName := system.GetBestH264Encoder()
	if encoderName != "libx264" {
		fmt.Printf("[*] Hardware acceleration detected: %s\n", encoderName)
	}

	quality := *qualityPtr
	if quality == 0 {
		switch encoderName {
		case "h264_videotoolbox":
			quality = 75
		case "h264_nvenc":
			quality = 28
		default:
			quality = 23
		}
	}

	finalOutput := *outputPtr
	if finalOutput == "" {
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		finalOutput = filepath.Join("output", fmt.Sprintf("clip_%s.mp4", timestamp))
	}

	cfg := &config.Config{
		InputPath:     *inputPtr,
		PromptText:    prompt,
		OutputVideo:   finalOutput,
		Style:         *stylePtr,
		Title:         *titlePtr,
		Width:         width,
		Height:        height,
		FPS:           *fpsPtr,
		SceneSeconds:  *scenePtr,
		Quality:       quality,
		BitrateKbps:   *bitratePtr,
		VideoEncoder:  encoderName,
		QRLink:        *qrPtr,
		StoryboardIn:  *sbInPtr,
		StoryboardOut: *sbOutPtr,
		Realtime:      *realtimePtr,
		ShowStats:     *statsPtr,
		BuildVersion:  buildVersion,
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Configuration error: %v", err)
	}

	// Ctrl-C cancels the frame loop cooperatively
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	project := engine.NewProject(cfg, session.New(), &video.FFmpegEncoder{})
	if err := project.Run(ctx, prompt); err != nil {
		log.Fatalf("[-] Render failed: %v", err)
	}

	if cfg.StoryboardOut == "" {
		fmt.Printf("[+++] Done! Output: %s\n", cfg.OutputVideo)
	}
}
