package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/watchroom/watchroom/internal/config"
	"github.com/watchroom/watchroom/pkg/logger"
)

const videosAPIURL = "https://www.googleapis.com/youtube/v3/videos"

// VideoDetails is the public lookup result for a shared YouTube link.
type VideoDetails struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Thumb      string `json:"thumb"`
	Creator    string `json:"creator"`
	CreatorURL string `json:"creatorurl"`
	Views      int64  `json:"views"`
}

type UseCase interface {
	Lookup(ctx context.Context, videoURL string) (*VideoDetails, error)
}

type youtubeUC struct {
	cfg    *config.Config
	client *http.Client
	apiURL string
	logger logger.Logger
}

func NewYoutubeUseCase(cfg *config.Config, log logger.Logger) UseCase {
	return &youtubeUC{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		apiURL: videosAPIURL,
		logger: log,
	}
}

var (
	ErrInvalidURL    = fmt.Errorf("invalid youtube url")
	ErrVideoNotFound = fmt.Errorf("video not found")
)

// ExtractVideoID pulls the video id out of watch, short-link and embed URL
// forms. Returns an empty string when none matches.
func ExtractVideoID(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch parsed.Hostname() {
	case "youtu.be":
		return strings.TrimPrefix(parsed.Path, "/")
	case "www.youtube.com", "youtube.com":
		if parsed.Path == "/watch" {
			return parsed.Query().Get("v")
		}
		if strings.HasPrefix(parsed.Path, "/embed/") {
			return strings.TrimPrefix(parsed.Path, "/embed/")
		}
	}
	return ""
}

func (y *youtubeUC) Lookup(ctx context.Context, videoURL string) (*VideoDetails, error) {
	videoID := ExtractVideoID(videoURL)
	if videoID == "" {
		return nil, ErrInvalidURL
	}

	query := url.Values{}
	query.Set("part", "snippet,contentDetails,statistics")
	query.Set("id", videoID)
	query.Set("key", y.cfg.Metadata.YoutubeAPIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.apiURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video details: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video details request returned %d", resp.StatusCode)
	}

	var payload struct {
		Items []struct {
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
				ChannelID    string `json:"channelId"`
			} `json:"snippet"`
			Statistics struct {
				ViewCount string `json:"viewCount"`
			} `json:"statistics"`
		} `json:"items"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode video details: %w", err)
	}
	if len(payload.Items) == 0 {
		return nil, ErrVideoNotFound
	}

	item := payload.Items[0]
	views, _ := strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
	return &VideoDetails{
		Title:      item.Snippet.Title,
		URL:        "//www.youtube.com/watch?v=" + videoID,
		Thumb:      "https://i.ytimg.com/vi/" + videoID + "/hqdefault.jpg",
		Creator:    item.Snippet.ChannelTitle,
		CreatorURL: "https://www.youtube.com/channel/" + item.Snippet.ChannelID,
		Views:      views,
	}, nil
}
