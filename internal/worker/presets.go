package worker

import "fmt"

// TierPreset is one rung of the adaptive-streaming ladder.
type TierPreset struct {
	Name         string
	Width        int
	Height       int
	VideoBitrate string
	AudioBitrate string
}

// tierLadder is encoded top-down so the highest quality fails fastest on
// undersized input.
var tierLadder = []TierPreset{
	{Name: "1080p", Width: 1920, Height: 1080, VideoBitrate: "5000k", AudioBitrate: "192k"},
	{Name: "720p", Width: 1280, Height: 720, VideoBitrate: "2500k", AudioBitrate: "128k"},
	{Name: "480p", Width: 854, Height: 480, VideoBitrate: "1500k", AudioBitrate: "128k"},
	{Name: "360p", Width: 640, Height: 360, VideoBitrate: "800k", AudioBitrate: "96k"},
}

// Bandwidth is the total bits per second a client needs for this tier,
// as advertised in the master playlist.
func (t TierPreset) Bandwidth() int {
	var video, audio int
	fmt.Sscanf(t.VideoBitrate, "%dk", &video)
	fmt.Sscanf(t.AudioBitrate, "%dk", &audio)
	return (video + audio) * 1000
}

func (t TierPreset) Resolution() string {
	return fmt.Sprintf("%dx%d", t.Width, t.Height)
}
