package constants

import (
	"os"
	"strconv"
	"strings"
)

func GetWorkDir() string {
	path := os.Getenv("WORK_DIR")
	if path != "" {
		return path
	}
	return os.TempDir()
}

func GetScriptsDir() string {
	path := os.Getenv("SCRIPTS_DIR")
	if path != "" {
		return path
	}
	return "./scripts"
}

// GetPythonPath returns "" when unset so the runner can look for a venv first.
func GetPythonPath() string {
	return os.Getenv("PYTHON_PATH")
}

func GetSeparatorScript() string {
	script := os.Getenv("SEPARATOR_SCRIPT")
	if script != "" {
		return script
	}
	return "separate.py"
}

func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 {
		return 5000
	}
	return port
}

func GetSentryDSN() string {
	return os.Getenv("SENTRY_DSN")
}

func GetCorsOrigins() []string {
	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		return []string{"*"}
	}
	return strings.Split(origins, ",")
}

const ServiceName = "melodistiq"

// upload limits, checked before anything touches the pipeline
const MaxMidiUploadSize = 16 * 1024 * 1024
const MaxAudioUploadSize = 100 * 1024 * 1024

var MidiExtensions = []string{".mid", ".midi"}
var AudioExtensions = []string{".wav", ".mp3", ".flac", ".ogg", ".m4a"}

// stem scoring
const ChromaActivityThreshold = 0.6
const SilenceRMSThreshold = 0.01
const ScoringSampleRate = 22050

// htdemucs_6s source order
var StemNames = []string{"drums", "bass", "other", "vocals", "guitar", "piano"}

const PercussiveStem = "drums"

// pitch tracking, C2..C7
const PitchMinFreq = 65.40639132514966
const PitchMaxFreq = 2093.004522404789
const FrameLength = 2048
const HopLength = 512

// note segmentation
const VoicedProbThreshold = 0.5
const MinNoteDuration = 0.05
const QuarterLengthFactor = 2.0

// symbolic output
const BarsPerLine = 4
const NoChord = "N.C."
const RestToken = "Rest"
const MelodyPrefix = "Chords not found, however, here are the notes being played:"

// midi export
const TicksPerQuarter = 480
const ExportTempo = 120.0
