package upload

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"shortvid-pipeline/config"
	"shortvid-pipeline/types"
)

// Uploader publishes the rendered video to YouTube via Data API v3
type Uploader struct {
	cfg *config.Config
}

// New creates a new Uploader
func New(cfg *config.Config) *Uploader {
	return &Uploader{cfg: cfg}
}

// Run uploads the video with its metadata and returns the video ID and URL.
func (u *Uploader) Run(ctx context.Context, videoFile string, meta *types.VideoMetadata) (string, string, error) {
	log.Println("[upload] Authenticating with YouTube API...")

	transport, err := u.oauthTransport(ctx)
	if err != nil {
		return "", "", fmt.Errorf("youtube auth: %w", err)
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, transport.Source)))
	if err != nil {
		return "", "", fmt.Errorf("youtube service: %w", err)
	}

	video := buildVideo(meta, u.cfg)

	f, err := os.Open(videoFile)
	if err != nil {
		return "", "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	if fi, err := f.Stat(); err == nil {
		log.Printf("[upload] Uploading %q (%.1f MB)...", meta.Title, float64(fi.Size())/1024/1024)
	} else {
		log.Printf("[upload] Uploading %q...", meta.Title)
	}

	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	call.Media(f)
	call.NotifySubscribers(u.cfg.Upload.NotifySubscribers)

	uploaded, err := call.Do()
	if err != nil {
		return "", "", fmt.Errorf("youtube upload: %w", err)
	}

	videoURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", uploaded.Id)
	log.Printf("[upload] ✅ Uploaded: %s", videoURL)
	return uploaded.Id, videoURL, nil
}

// buildVideo maps pipeline metadata onto the API resource. Subscriber
// notification is a request parameter on the insert call, not part of the
// video status, so it is not set here.
func buildVideo(meta *types.VideoMetadata, cfg *config.Config) *youtube.Video {
	categoryID := meta.CategoryID
	if categoryID == "" {
		categoryID = cfg.Upload.CategoryID
	}

	return &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:                meta.Title,
			Description:          meta.Description,
			Tags:                 meta.Tags,
			CategoryId:           categoryID,
			DefaultLanguage:      cfg.Upload.DefaultLanguage,
			DefaultAudioLanguage: cfg.Upload.DefaultLanguage,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           cfg.Upload.Visibility,
			SelfDeclaredMadeForKids: cfg.Upload.MadeForKids,
		},
	}
}

// oauthTransport builds an OAuth2 transport from env refresh-token creds.
func (u *Uploader) oauthTransport(ctx context.Context) (*oauth2.Transport, error) {
	clientID := os.Getenv("YOUTUBE_CLIENT_ID")
	clientSecret := os.Getenv("YOUTUBE_CLIENT_SECRET")
	refreshToken := os.Getenv("YOUTUBE_REFRESH_TOKEN")

	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET, or YOUTUBE_REFRESH_TOKEN not set")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope, youtube.YoutubeScope},
	}

	token := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}

	return &oauth2.Transport{Source: conf.TokenSource(ctx, token)}, nil
}
