package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v61/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/sadopc/tally/internal/activity"
)

const (
	// maxActivities caps the commits attached to a day.
	maxActivities = 10
	// summaryLen caps a commit summary in runes.
	summaryLen = 72
	// maxCalendarSpan is the widest window the contribution calendar accepts.
	maxCalendarSpan = 365
)

const calendarQuery = `query($login: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $login) {
    contributionsCollection(from: $from, to: $to) {
      contributionCalendar {
        weeks { contributionDays { date contributionCount } }
      }
    }
  }
}`

type GitHubConfig struct {
	User  string
	Token string
	// APIURL overrides the REST/GraphQL base URL, e.g. for tests or GHES.
	APIURL        string
	DetailWorkers int
	HTTPClient    *http.Client
}

// GitHub reads the contribution calendar for a user and attaches recent
// commits to active days.
type GitHub struct {
	client  *github.Client
	user    string
	workers int
	opts    Options
}

func NewGitHub(cfg GitHubConfig, opts Options) (*GitHub, error) {
	if cfg.User == "" {
		return nil, errors.New("github: user is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil && cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	client := github.NewClient(httpClient)
	if cfg.APIURL != "" {
		base := cfg.APIURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("github: parse api url: %w", err)
		}
		client.BaseURL = u
	}

	workers := cfg.DetailWorkers
	if workers <= 0 {
		workers = 4
	}
	opts = opts.withDefaults()
	opts.Logger = opts.Logger.With().Str("source", string(activity.GitHub)).Logger()

	return &GitHub{
		client:  client,
		user:    cfg.User,
		workers: workers,
		opts:    opts,
	}, nil
}

func (g *GitHub) Source() activity.Source { return activity.GitHub }

func (g *GitHub) Fetch(ctx context.Context, dates []activity.Date) []activity.Record {
	if len(dates) == 0 {
		return nil
	}

	var counts map[activity.Date]int
	err := g.opts.retry(ctx, func() error {
		var err error
		counts, err = g.calendar(ctx, dates)
		return classifyGitHub(err)
	})
	if err != nil {
		return g.opts.degrade(activity.GitHub, dates, err)
	}

	records := make([]activity.Record, len(dates))
	for i, d := range dates {
		records[i] = activity.Record{Date: d, Count: counts[d]}
	}
	g.enrich(ctx, records)
	return records
}

type calendarResponse struct {
	Data struct {
		User *struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					Weeks []struct {
						ContributionDays []struct {
							Date              string `json:"date"`
							ContributionCount int    `json:"contributionCount"`
						} `json:"contributionDays"`
					} `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// calendar fetches day counts covering every date, splitting the span into
// windows the API accepts.
func (g *GitHub) calendar(ctx context.Context, dates []activity.Date) (map[activity.Date]int, error) {
	span, _ := activity.Span(dates)
	counts := make(map[activity.Date]int)
	for start := span.Start; !start.After(span.End); start = start.AddDays(maxCalendarSpan) {
		end := start.AddDays(maxCalendarSpan - 1)
		if end.After(span.End) {
			end = span.End
		}
		if err := g.calendarWindow(ctx, activity.Range{Start: start, End: end}, counts); err != nil {
			return nil, err
		}
	}
	return counts, nil
}

func (g *GitHub) calendarWindow(ctx context.Context, r activity.Range, into map[activity.Date]int) error {
	loc := g.opts.Location
	body := graphQLRequest{
		Query: calendarQuery,
		Variables: map[string]any{
			"login": g.user,
			"from":  r.Start.In(loc).Format(time.RFC3339),
			"to":    r.End.AddDays(1).In(loc).Format(time.RFC3339),
		},
	}
	req, err := g.client.NewRequest(http.MethodPost, "graphql", body)
	if err != nil {
		return fmt.Errorf("build calendar request: %w", err)
	}

	var resp calendarResponse
	if _, err := g.client.Do(ctx, req, &resp); err != nil {
		return fmt.Errorf("contribution calendar %s: %w", r, err)
	}
	if len(resp.Errors) > 0 {
		return backoff.Permanent(fmt.Errorf("contribution calendar %s: %s", r, resp.Errors[0].Message))
	}
	if resp.Data.User == nil {
		return backoff.Permanent(fmt.Errorf("contribution calendar: user %q not found", g.user))
	}

	for _, w := range resp.Data.User.ContributionsCollection.ContributionCalendar.Weeks {
		for _, day := range w.ContributionDays {
			d, err := activity.ParseDate(day.Date)
			if err != nil {
				return backoff.Permanent(err)
			}
			if r.Contains(d) {
				into[d] = day.ContributionCount
			}
		}
	}
	return nil
}

// enrich attaches commit detail to active days. Each lookup is independent:
// a failed day keeps its count with empty detail.
func (g *GitHub) enrich(ctx context.Context, records []activity.Record) {
	var eg errgroup.Group
	eg.SetLimit(g.workers)
	for i := range records {
		if records[i].Count <= 0 {
			continue
		}
		eg.Go(func() error {
			detail, err := g.detail(ctx, records[i].Date)
			if err != nil {
				g.opts.Logger.Debug().Err(err).Stringer("date", records[i].Date).Msg("commit detail lookup failed")
				g.opts.Metrics.IncDetailFailure(string(activity.GitHub))
				return nil
			}
			records[i].Detail = detail
			return nil
		})
	}
	_ = eg.Wait()
}

func (g *GitHub) detail(ctx context.Context, d activity.Date) (activity.Detail, error) {
	q := fmt.Sprintf("author:%s author-date:%s", g.user, d)
	res, _, err := g.client.Search.Commits(ctx, q, &github.SearchOptions{
		Sort:        "author-date",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: maxActivities},
	})
	if err != nil {
		return activity.Detail{}, fmt.Errorf("search commits %s: %w", d, err)
	}

	var detail activity.Detail
	seen := make(map[string]bool)
	for _, c := range res.Commits {
		if len(detail.Activities) == maxActivities {
			break
		}
		repo := c.GetRepository().GetFullName()
		detail.Activities = append(detail.Activities, activity.Commit{
			Repository: repo,
			Summary:    summarize(c.GetCommit().GetMessage(), summaryLen),
		})
		if repo != "" && !seen[repo] {
			seen[repo] = true
			detail.Repositories = append(detail.Repositories, repo)
		}
	}
	return detail, nil
}

// classifyGitHub marks errors that retrying cannot fix.
func classifyGitHub(err error) error {
	if err == nil {
		return nil
	}
	var (
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
		respErr  *github.ErrorResponse
	)
	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		return backoff.Permanent(err)
	case errors.As(err, &respErr) && respErr.Response != nil && permanentStatus(respErr.Response.StatusCode):
		return backoff.Permanent(err)
	}
	return err
}
