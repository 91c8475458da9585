// Package linkcheck crawls a running site and reports broken links,
// pages without a title and images served from hosts outside the allow-list.
package linkcheck

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// ProblemKind classifies a finding
type ProblemKind string

const (
	BrokenLink     ProblemKind = "broken_link"
	MissingTitle   ProblemKind = "missing_title"
	DisallowedHost ProblemKind = "disallowed_image_host"
)

// Page is one crawled URL and how it answered
type Page struct {
	URL      string `json:"url"`
	Status   int    `json:"status"`
	Referrer string `json:"referrer,omitempty"`
}

// Problem is something wrong found while crawling
type Problem struct {
	Kind     ProblemKind `json:"kind"`
	URL      string      `json:"url"`
	Referrer string      `json:"referrer,omitempty"`
	Detail   string      `json:"detail,omitempty"`
}

func (p Problem) String() string {
	s := fmt.Sprintf("%s %s", p.Kind, p.URL)
	if p.Detail != "" {
		s += " (" + p.Detail + ")"
	}
	if p.Referrer != "" {
		s += " linked from " + p.Referrer
	}
	return s
}

// Report is the result of a crawl
type Report struct {
	Pages    []Page    `json:"pages"`
	Problems []Problem `json:"problems"`
}

// OK reports whether the crawl found nothing wrong
func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

// Checker crawls a site from its base URL
type Checker struct {
	baseURL      string
	maxDepth     int
	parallelism  int
	allowedHosts []string
	progress     io.Writer
	logger       *zap.Logger
}

// Option defines a checker option
type Option func(*Checker)

// WithMaxDepth limits how many links deep the crawl goes. Zero means unlimited.
func WithMaxDepth(depth int) Option {
	return func(c *Checker) {
		c.maxDepth = depth
	}
}

// WithParallelism sets how many pages are fetched at once
func WithParallelism(n int) Option {
	return func(c *Checker) {
		c.parallelism = n
	}
}

// WithAllowedImageHosts sets the hosts images may be served from besides the site itself
func WithAllowedImageHosts(hosts []string) Option {
	return func(c *Checker) {
		c.allowedHosts = hosts
	}
}

// WithProgress shows a spinner on w while crawling
func WithProgress(w io.Writer) Option {
	return func(c *Checker) {
		c.progress = w
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// NewChecker creates a checker for the site at baseURL
func NewChecker(baseURL string, options ...Option) *Checker {
	c := &Checker{
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxDepth:    3,
		parallelism: 4,
		logger:      zap.NewNop(),
	}
	for _, option := range options {
		option(c)
	}
	if c.parallelism < 1 {
		c.parallelism = 1
	}
	return c
}

// crawl collects results from concurrent colly callbacks
type crawl struct {
	mu        sync.Mutex
	referrers map[string]string
	report    Report
}

func (cr *crawl) referrer(u string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.referrers[u]
}

// linked records the first page seen linking to u
func (cr *crawl) linked(u, from string) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	if _, seen := cr.referrers[u]; !seen {
		cr.referrers[u] = from
	}
}

func (cr *crawl) page(p Page) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.report.Pages = append(cr.report.Pages, p)
}

func (cr *crawl) problem(p Problem) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.report.Problems = append(cr.report.Problems, p)
}

// Run crawls the site and returns what it found. It stops following links
// once ctx is done and returns ctx.Err() with the partial report.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("failed to parse base URL: unsupported scheme %q", base.Scheme)
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(base.Hostname()),
		colly.MaxDepth(c.maxDepth),
		colly.Async(true),
		colly.UserAgent("maykott-linkcheck"),
	)
	if err := collector.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: c.parallelism}); err != nil {
		return nil, fmt.Errorf("failed to set crawl limits: %w", err)
	}

	var bar *progressbar.ProgressBar
	if c.progress != nil {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(c.progress),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetDescription("[cyan]Checking links[reset]"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionShowCount(),
		)
	}

	cr := &crawl{referrers: map[string]string{}}
	start := normalize(base)
	cr.linked(start, "")

	collector.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		u := r.Request.URL.String()
		cr.page(Page{URL: u, Status: r.StatusCode, Referrer: cr.referrer(u)})
		if bar != nil {
			bar.Add(1)
		}
		c.logger.Debug("Checked page", zap.String("url", u), zap.Int("status", r.StatusCode))
	})

	collector.OnError(func(r *colly.Response, err error) {
		u := r.Request.URL.String()
		ref := cr.referrer(u)
		cr.page(Page{URL: u, Status: r.StatusCode, Referrer: ref})
		detail := err.Error()
		if r.StatusCode > 0 {
			detail = fmt.Sprintf("status %d", r.StatusCode)
		}
		cr.problem(Problem{Kind: BrokenLink, URL: u, Referrer: ref, Detail: detail})
		if bar != nil {
			bar.Add(1)
		}
		c.logger.Debug("Broken link", zap.String("url", u), zap.Error(err))
	})

	collector.OnHTML("html", func(e *colly.HTMLElement) {
		for _, p := range c.audit(e.Request.URL, e.DOM) {
			cr.problem(p)
		}
	})

	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		target, ok := resolve(e.Request.URL, e.Attr("href"))
		if !ok || target.Hostname() != base.Hostname() {
			return
		}
		u := normalize(target)
		cr.linked(u, e.Request.URL.String())
		// colly refuses revisits and links past MaxDepth
		_ = e.Request.Visit(u)
	})

	if err := collector.Visit(start); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", start, err)
	}
	collector.Wait()
	if bar != nil {
		bar.Finish()
	}

	report := &cr.report
	slices.SortFunc(report.Pages, func(a, b Page) int { return strings.Compare(a.URL, b.URL) })
	slices.SortFunc(report.Problems, func(a, b Problem) int {
		if n := strings.Compare(string(a.Kind), string(b.Kind)); n != 0 {
			return n
		}
		return strings.Compare(a.URL, b.URL)
	})

	c.logger.Info("Link check finished",
		zap.Int("pages", len(report.Pages)),
		zap.Int("problems", len(report.Problems)))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// audit inspects one rendered page
func (c *Checker) audit(page *url.URL, doc *goquery.Selection) []Problem {
	var problems []Problem
	if strings.TrimSpace(doc.Find("title").First().Text()) == "" {
		problems = append(problems, Problem{Kind: MissingTitle, URL: page.String()})
	}

	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, ok := resolve(page, img.AttrOr("src", ""))
		if !ok || src.Hostname() == page.Hostname() || slices.Contains(c.allowedHosts, src.Hostname()) {
			return
		}
		problems = append(problems, Problem{
			Kind:   DisallowedHost,
			URL:    page.String(),
			Detail: src.Hostname(),
		})
	})
	return problems
}

// resolve turns href into an absolute http(s) URL relative to page
func resolve(page *url.URL, href string) (*url.URL, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return nil, false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	u := page.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	return u, true
}

// normalize drops the fragment so anchors on one page are crawled once
func normalize(u *url.URL) string {
	v := *u
	v.Fragment = ""
	v.RawFragment = ""
	if v.Path == "" {
		v.Path = "/"
	}
	return v.String()
}
