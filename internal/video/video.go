// Package video owns the capture/encode bridge: a live stream of RGBA frames
// goes in, an encoded H.264 file comes out. The implementation pipes raw
// frames into an ffmpeg child process; the rest of the pipeline only sees
// the VideoEncoder and CaptureSession interfaces.
package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
)

// SessionSpec describes one capture session.
type SessionSpec struct {
	Width       int
	Height      int
	FPS         int
	OutputPath  string
	Encoder     string // h264_videotoolbox, h264_nvenc or libx264
	Quality     int    // CRF for x264, CQ for NVENC, bitrate basis for VideoToolbox
	BitrateKbps int    // optional explicit bitrate hint; overrides Quality mapping
}

// VideoEncoder starts capture sessions.
type VideoEncoder interface {
	Start(ctx context.Context, spec SessionSpec) (CaptureSession, error)
}

// CaptureSession accepts frames in presentation order and finalizes the
// output container on Close. A WriteFrame or Close error is a recording
// failure: no partial artifact remains on disk afterwards.
type CaptureSession interface {
	WriteFrame(img *image.RGBA) error
	Close() error
	// Abort tears the session down without keeping any output.
	Abort()
}

type FFmpegEncoder struct{}

type ffmpegSession struct {
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	log        *bytes.Buffer
	outputPath string
	width      int
	height     int
}

func (e *FFmpegEncoder) Start(ctx context.Context, spec SessionSpec) (CaptureSession, error) {
	args := BuildFFmpegArgs(spec)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var logBuf bytes.Buffer
	cmd.Stdout = &logBuf
	cmd.Stderr = &logBuf

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}

	return &ffmpegSession{
		cmd:        cmd,
		stdin:      stdin,
		log:        &logBuf,
		outputPath: spec.OutputPath,
		width:      spec.Width,
		height:     spec.Height,
	}, nil
}

// BuildFFmpegArgs assembles the rawvideo-over-stdin encode command.
func BuildFFmpegArgs(spec SessionSpec) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", spec.Width, spec.Height),
		"-framerate", fmt.Sprintf("%d", spec.FPS),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", spec.Encoder,
	}

	// Quality flags depend on the encoder
	switch {
	case spec.BitrateKbps > 0:
		args = append(args, "-b:v", fmt.Sprintf("%dk", spec.BitrateKbps))
	case spec.Encoder == "h264_videotoolbox":
		// VideoToolbox does not take -q:v reliably, map quality to bitrate
		args = append(args, "-b:v", fmt.Sprintf("%dk", spec.Quality*100))
	case spec.Encoder == "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", spec.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", spec.Quality), "-preset", "medium")
	}

	return append(args, spec.OutputPath)
}

func (s *ffmpegSession) WriteFrame(img *image.RGBA) error {
	bounds := img.Bounds()
	if bounds.Dx() != s.width || bounds.Dy() != s.height {
		return fmt.Errorf("frame size %dx%d does not match session %dx%d",
			bounds.Dx(), bounds.Dy(), s.width, s.height)
	}

	rgba := img
	if rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	if _, err := s.stdin.Write(rgba.Pix); err != nil {
		return fmt.Errorf("write raw frame: %w", err)
	}
	return nil
}

func (s *ffmpegSession) Close() error {
	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		os.Remove(s.outputPath)
		return fmt.Errorf("ffmpeg wait error: %v, output: %s", err, s.log.String())
	}
	return nil
}

func (s *ffmpegSession) Abort() {
	s.stdin.Close()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.cmd.Wait()
	os.Remove(s.outputPath)
}
