package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/sadopc/tally/internal/activity"
)

// maxSearchPages bounds pagination through a single upload window.
const maxSearchPages = 40

var errPageLimit = errors.New("page limit reached")

type YouTubeConfig struct {
	Handle string
	APIKey string
	// Endpoint overrides the API root, e.g. for tests.
	Endpoint   string
	HTTPClient *http.Client
}

// YouTube counts a channel's uploads per day.
type YouTube struct {
	svc    *youtube.Service
	handle string
	opts   Options

	mu        sync.Mutex
	channelID string
}

func NewYouTube(ctx context.Context, cfg YouTubeConfig, opts Options) (*YouTube, error) {
	handle := strings.TrimPrefix(strings.TrimSpace(cfg.Handle), "@")
	if handle == "" {
		return nil, errors.New("youtube: handle is required")
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}
	if cfg.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(cfg.HTTPClient))
	}
	svc, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("youtube: new service: %w", err)
	}

	opts = opts.withDefaults()
	opts.Logger = opts.Logger.With().Str("source", string(activity.YouTube)).Logger()
	return &YouTube{svc: svc, handle: handle, opts: opts}, nil
}

func (y *YouTube) Source() activity.Source { return activity.YouTube }

func (y *YouTube) Fetch(ctx context.Context, dates []activity.Date) []activity.Record {
	if len(dates) == 0 {
		return nil
	}

	var uploads map[activity.Date][]activity.Video
	err := y.opts.retry(ctx, func() error {
		channelID, err := y.resolveChannel(ctx)
		if err != nil {
			return classifyGoogle(err)
		}
		uploads, err = y.uploads(ctx, channelID, dates)
		return classifyGoogle(err)
	})
	if err != nil {
		return y.opts.degrade(activity.YouTube, dates, err)
	}

	records := make([]activity.Record, len(dates))
	for i, d := range dates {
		videos := uploads[d]
		records[i] = activity.Record{Date: d, Count: len(videos)}
		if len(videos) > 0 {
			records[i].Detail.Items = videos
		}
	}
	return records
}

type channelLookup struct {
	name string
	find func(ctx context.Context, name string) (string, error)
}

// lookups are tried in order; the first that yields an id wins.
func (y *YouTube) lookups() []channelLookup {
	return []channelLookup{
		{name: "handle", find: y.byHandle},
		{name: "username", find: y.byUsername},
		{name: "search", find: y.bySearch},
	}
}

func (y *YouTube) resolveChannel(ctx context.Context) (string, error) {
	y.mu.Lock()
	id := y.channelID
	y.mu.Unlock()
	if id != "" {
		return id, nil
	}

	var errs []error
	for _, l := range y.lookups() {
		id, err := l.find(ctx, y.handle)
		if err != nil {
			y.opts.Logger.Debug().Err(err).Str("strategy", l.name).Msg("channel lookup failed")
			errs = append(errs, fmt.Errorf("%s lookup: %w", l.name, err))
			continue
		}
		if id == "" {
			continue
		}
		y.opts.Logger.Debug().Str("strategy", l.name).Str("channel", id).Msg("resolved channel")
		y.mu.Lock()
		y.channelID = id
		y.mu.Unlock()
		return id, nil
	}

	err := fmt.Errorf("%w: %q", ErrChannelNotFound, y.handle)
	if len(errs) > 0 {
		// A failing lookup may hide the channel; let the caller retry.
		return "", errors.Join(append(errs, err)...)
	}
	return "", backoff.Permanent(err)
}

func (y *YouTube) byHandle(ctx context.Context, name string) (string, error) {
	resp, err := y.svc.Channels.List([]string{"id"}).ForHandle(name).MaxResults(1).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", nil
	}
	return resp.Items[0].Id, nil
}

func (y *YouTube) byUsername(ctx context.Context, name string) (string, error) {
	resp, err := y.svc.Channels.List([]string{"id"}).ForUsername(name).MaxResults(1).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", nil
	}
	return resp.Items[0].Id, nil
}

func (y *YouTube) bySearch(ctx context.Context, name string) (string, error) {
	resp, err := y.svc.Search.List([]string{"snippet"}).Q(name).Type("channel").MaxResults(1).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	for _, item := range resp.Items {
		if item.Snippet != nil && item.Snippet.ChannelId != "" {
			return item.Snippet.ChannelId, nil
		}
		if item.Id != nil && item.Id.ChannelId != "" {
			return item.Id.ChannelId, nil
		}
	}
	return "", nil
}

// uploads lists the channel's videos published inside the window of dates,
// grouped by upload day in the canonical zone.
func (y *YouTube) uploads(ctx context.Context, channelID string, dates []activity.Date) (map[activity.Date][]activity.Video, error) {
	from, to, _ := window(dates, y.opts.Location)
	call := y.svc.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		Type("video").
		Order("date").
		PublishedAfter(from.Format(time.RFC3339)).
		PublishedBefore(to.Format(time.RFC3339)).
		MaxResults(50)

	out := make(map[activity.Date][]activity.Video)
	pages := 0
	err := call.Pages(ctx, func(resp *youtube.SearchListResponse) error {
		for _, item := range resp.Items {
			if item.Snippet == nil || item.Id == nil || item.Id.VideoId == "" {
				continue
			}
			published, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
			if err != nil {
				continue
			}
			d := activity.DateOf(published, y.opts.Location)
			out[d] = append(out[d], activity.Video{
				ID:           item.Id.VideoId,
				Title:        item.Snippet.Title,
				ThumbnailURL: thumbnailURL(item.Snippet.Thumbnails),
			})
		}
		pages++
		if pages >= maxSearchPages {
			return errPageLimit
		}
		return nil
	})
	if err != nil && !errors.Is(err, errPageLimit) {
		return nil, fmt.Errorf("search uploads: %w", err)
	}
	return out, nil
}

func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Medium, t.High, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

// classifyGoogle marks errors that retrying cannot fix.
func classifyGoogle(err error) error {
	if err == nil {
		return nil
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && permanentStatus(gErr.Code) {
		return backoff.Permanent(err)
	}
	return err
}
