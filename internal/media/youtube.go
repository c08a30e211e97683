// Package media retrieves remote videos to local files so they can be
// uploaded to Telegram.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/kkdai/youtube/v2"
)

// DefaultMaxBytes is the Bot API limit for files uploaded by bots.
const DefaultMaxBytes int64 = 50 * 1024 * 1024

// ErrNoMuxedStream is returned when a video has no format carrying both
// picture and sound.
var ErrNoMuxedStream = errors.New("no muxed audio/video stream available")

// YouTubeFetcher downloads the best muxed stream of a YouTube video.
// Each Fetch uses its own youtube.Client, which mutates itself per request.
// The fetcher holds only read-only settings and is safe for concurrent use.
type YouTubeFetcher struct {
	httpClient *http.Client
	maxBytes   int64
	logger     *slog.Logger
}

// Option configures a YouTubeFetcher.
type Option func(*YouTubeFetcher)

// WithHTTPClient sets the HTTP client used for metadata and stream requests.
func WithHTTPClient(c *http.Client) Option {
	return func(f *YouTubeFetcher) { f.httpClient = c }
}

// WithMaxBytes caps the size of a single download.
func WithMaxBytes(n int64) Option {
	return func(f *YouTubeFetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithLogger overrides slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(f *YouTubeFetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewYouTubeFetcher creates a fetcher.
func NewYouTubeFetcher(opts ...Option) *YouTubeFetcher {
	f := &YouTubeFetcher{
		maxBytes: DefaultMaxBytes,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch resolves ref (a video URL or ID), downloads its best muxed stream
// into dir and returns the file path. The caller owns the file.
func (f *YouTubeFetcher) Fetch(ctx context.Context, ref, dir string) (string, error) {
	id, err := youtube.ExtractVideoID(ref)
	if err != nil {
		return "", fmt.Errorf("extract video id: %w", err)
	}

	client := &youtube.Client{HTTPClient: f.httpClient}

	video, err := client.GetVideoContext(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get video %s: %w", id, err)
	}

	format, err := SelectMuxedFormat(video.Formats)
	if err != nil {
		return "", fmt.Errorf("video %s: %w", id, err)
	}
	if format.ContentLength > f.maxBytes {
		return "", fmt.Errorf("video %s too large: %d bytes (max %d)", id, format.ContentLength, f.maxBytes)
	}

	f.logger.Info("downloading video",
		"video_id", id,
		"title", video.Title,
		"quality", format.QualityLabel,
		"mime_type", format.MimeType,
	)

	stream, _, err := client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	path := filepath.Join(dir, "video-"+uuid.NewString()+"."+Container(format.MimeType))

	written, err := f.save(path, stream)
	if err != nil {
		return "", fmt.Errorf("video %s: %w", id, err)
	}

	f.logger.Debug("video downloaded", "video_id", id, "path", path, "bytes", written)
	return path, nil
}

// save copies at most maxBytes from r into a new file at path. On failure the
// file is closed, then removed.
func (f *YouTubeFetcher) save(path string, r io.Reader) (int64, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	written, err := io.Copy(file, io.LimitReader(r, f.maxBytes+1))
	if err == nil && written > f.maxBytes {
		err = fmt.Errorf("exceeds max size during download: %d bytes", written)
	}
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close file: %w", closeErr)
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			f.logger.Warn("failed to remove partial download", "path", path, "error", rmErr)
		}
		return 0, fmt.Errorf("save video: %w", err)
	}
	return written, nil
}

// SelectMuxedFormat picks the highest-resolution format that carries both
// video and audio, breaking ties on bitrate.
func SelectMuxedFormat(formats youtube.FormatList) (*youtube.Format, error) {
	var muxed []youtube.Format
	for _, f := range formats.WithAudioChannels() {
		if f.Width > 0 && f.Height > 0 {
			muxed = append(muxed, f)
		}
	}
	if len(muxed) == 0 {
		return nil, ErrNoMuxedStream
	}

	sort.SliceStable(muxed, func(i, j int) bool {
		if muxed[i].Height != muxed[j].Height {
			return muxed[i].Height > muxed[j].Height
		}
		return muxed[i].Bitrate > muxed[j].Bitrate
	})
	best := muxed[0]
	return &best, nil
}

// Container returns the file extension for a stream MIME type such as
// `video/mp4; codecs="avc1.42001E, mp4a.40.2"`. Unknown types map to mp4.
func Container(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return "mp4"
	}
	_, sub, ok := strings.Cut(mediaType, "/")
	if !ok || sub == "" {
		return "mp4"
	}
	return sub
}
