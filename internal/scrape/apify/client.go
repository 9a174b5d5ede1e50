// Package apify runs hosted scraper actors on the Apify platform and reads
// their datasets back as raw JSON items.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"

	"impactjobs-engine/internal/logger"
	"impactjobs-engine/internal/scrape/util"
)

const (
	DefaultBaseURL = "https://api.apify.com/v2"
	datasetLimit   = 1000
)

var (
	ErrNoToken    = errors.New("apify token not configured")
	ErrRunFailed  = errors.New("apify run failed")
	ErrRunTimeout = errors.New("apify run did not finish in time")
)

type Config struct {
	BaseURL string
	Token   string
	Poll    time.Duration
	MaxWait time.Duration
}

type Client struct {
	cfg   Config
	f     *util.Fetcher
	log   logger.Logger
	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg Config, f *util.Fetcher, log logger.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(util.FirstNonEmpty(cfg.BaseURL, DefaultBaseURL), "/")
	if cfg.Poll <= 0 {
		cfg.Poll = 5 * time.Second
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = 300 * time.Second
	}
	return &Client{cfg: cfg, f: f, log: log, sleep: sleepCtx}
}

func (c *Client) HasToken() bool { return c.cfg.Token != "" }

// runInfo is the subset of the actor-run object we read.
type runInfo struct {
	ID               string `mapstructure:"id"`
	Status           string `mapstructure:"status"`
	DefaultDatasetID string `mapstructure:"defaultDatasetId"`
}

// Run starts actor with input, waits for it and returns the dataset items.
func (c *Client) Run(ctx context.Context, actor string, input any) ([]gjson.Result, error) {
	if c.cfg.Token == "" {
		return nil, ErrNoToken
	}
	id, err := c.start(ctx, actor, input)
	if err != nil {
		return nil, err
	}
	c.log.Info("actor run started", logger.String("actor", actor), logger.String("run_id", id))

	run, err := c.wait(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.DefaultDatasetID == "" {
		return nil, fmt.Errorf("apify run %s: no dataset id", id)
	}
	return c.items(ctx, run.DefaultDatasetID)
}

func (c *Client) start(ctx context.Context, actor string, input any) (string, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("apify encode input: %w", err)
	}
	endpoint := c.cfg.BaseURL + "/acts/" + url.PathEscape(actorPath(actor)) + "/runs"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("apify build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.auth(req)

	res, err := c.f.Do(req)
	if err != nil {
		return "", fmt.Errorf("apify start %s: %w", actor, err)
	}
	if res.Status != http.StatusCreated {
		return "", fmt.Errorf("apify start %s: status %d body=%s", actor, res.Status, util.Truncate(string(res.Body), 200))
	}
	id := gjson.GetBytes(res.Body, "data.id").String()
	if id == "" {
		return "", fmt.Errorf("apify start %s: no run id in response", actor)
	}
	return id, nil
}

func (c *Client) wait(ctx context.Context, id string) (runInfo, error) {
	var waited time.Duration
	for {
		run, err := c.status(ctx, id)
		if err != nil {
			return runInfo{}, err
		}
		switch run.Status {
		case "SUCCEEDED":
			return run, nil
		case "FAILED", "ABORTED", "TIMED-OUT":
			return runInfo{}, fmt.Errorf("run %s %s: %w", id, strings.ToLower(run.Status), ErrRunFailed)
		}
		if waited >= c.cfg.MaxWait {
			return runInfo{}, fmt.Errorf("run %s after %s: %w", id, waited, ErrRunTimeout)
		}
		if err := c.sleep(ctx, c.cfg.Poll); err != nil {
			return runInfo{}, err
		}
		waited += c.cfg.Poll
	}
}

func (c *Client) status(ctx context.Context, id string) (runInfo, error) {
	res, err := c.get(ctx, "/actor-runs/"+url.PathEscape(id), nil)
	if err != nil {
		return runInfo{}, fmt.Errorf("apify run status: %w", err)
	}
	if !res.OK() {
		return runInfo{}, fmt.Errorf("apify run status: status %d", res.Status)
	}
	data, ok := gjson.GetBytes(res.Body, "data").Value().(map[string]any)
	if !ok {
		return runInfo{}, fmt.Errorf("apify run status: missing data object")
	}
	var run runInfo
	if err := mapstructure.WeakDecode(data, &run); err != nil {
		return runInfo{}, fmt.Errorf("apify run status decode: %w", err)
	}
	return run, nil
}

func (c *Client) items(ctx context.Context, datasetID string) ([]gjson.Result, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(datasetLimit))
	res, err := c.get(ctx, "/datasets/"+url.PathEscape(datasetID)+"/items", q)
	if err != nil {
		return nil, fmt.Errorf("apify dataset: %w", err)
	}
	if !res.OK() {
		return nil, fmt.Errorf("apify dataset: status %d", res.Status)
	}
	if !gjson.ValidBytes(res.Body) {
		return nil, fmt.Errorf("apify dataset: invalid json")
	}
	root := gjson.ParseBytes(res.Body)
	if root.IsArray() {
		return root.Array(), nil
	}
	if items := root.Get("data.items"); items.IsArray() {
		return items.Array(), nil
	}
	return nil, fmt.Errorf("apify dataset: %w", util.ErrNoListKey)
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (*util.Response, error) {
	u := c.cfg.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	c.auth(req)
	return c.f.Do(req)
}

func (c *Client) auth(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
}

// actorPath turns "owner/name" into the "owner~name" form the API expects.
func actorPath(actor string) string {
	return strings.Replace(actor, "/", "~", 1)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
