package compositor

import (
	"math"
	"strings"
)

const (
	waveCount   = 4
	waveSamples = 9
	waveAlpha   = 0.08

	// Title and caption lines never drop below these floors.
	titleAlphaFloor = 0.2
	lineAlphaFloor  = 0.15
	lineSweepGain   = 2.4

	satelliteCount = 6
	ringAlpha      = 0.12

	captionWidthRatio = 0.70
)

// TitleAlpha follows a fade arc that peaks at mid-scene.
func TitleAlpha(p float64) float64 {
	a := math.Sin(math.Pi * math.Min(p, 1-p))
	return clamp01(math.Max(titleAlphaFloor, a))
}

// LineAlpha sweeps a reveal window from the top caption line to the bottom
// one as progress advances. Line j of n, both 0-indexed.
func LineAlpha(p float64, j, n int) float64 {
	den := math.Max(1, float64(n-1))
	a := 1 - math.Abs(p-float64(j)/den)*lineSweepGain
	return clamp01(math.Max(lineAlphaFloor, a))
}

// LineOffset displaces caption line j vertically, growing with distance from
// the block center and peaking at mid-scene.
func LineOffset(p float64, j, n int, height float64) float64 {
	return math.Sin(p*math.Pi) * height * 0.03 * (float64(j) - float64(n-1)/2)
}

// WaveAmplitude shrinks with each successive band.
func WaveAmplitude(band int, height float64) float64 {
	return height * 0.08 * (1 - float64(band)*0.15)
}

// WaveBaseline stacks the bands down the frame.
func WaveBaseline(band int, height float64) float64 {
	return height * 0.15 * float64(band+1)
}

// WavePhase offsets each band's sinusoid by the scene progress.
func WavePhase(p float64, band int) float64 {
	return math.Mod(p*2*math.Pi+float64(band)*0.5, 2*math.Pi)
}

// WaveY samples band's sinusoid at sample s of waveSamples across the width.
func WaveY(p float64, band, s int, height float64) float64 {
	theta := 2*math.Pi*float64(s)/float64(waveSamples-1) + WavePhase(p, band)
	return WaveBaseline(band, height) + WaveAmplitude(band, height)*math.Sin(theta)
}

// SatelliteAngle places satellite k on the orbit at progress p.
func SatelliteAngle(p float64, k int) float64 {
	return p*2*math.Pi + float64(k)/satelliteCount*2*math.Pi
}

// SatelliteAlpha oscillates each dot between dim and bright.
func SatelliteAlpha(p float64, k int) float64 {
	osc := math.Sin(p * 2 * math.Pi)
	return clamp01(0.3 + 0.4*math.Sin(SatelliteAngle(p, k)+osc))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// WrapLines greedily wraps words so every line fits within maxWidth according
// to measure: a word joins the current line if the result still fits,
// otherwise it starts a new line. A single word wider than maxWidth gets its
// own line rather than being broken.
func WrapLines(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if measure(candidate) <= maxWidth {
			current = candidate
		} else {
			lines = append(lines, current)
			current = w
		}
	}
	return append(lines, current)
}
