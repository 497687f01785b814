// ABOUTME: Exercise library browsing backed by the generation service.
// ABOUTME: Fetches categories concurrently, validates items, groups them by muscle, and picks thumbnails.
package library

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/harperreed/nexusfit/internal/models"
	"github.com/harperreed/nexusfit/internal/schema"
)

const (
	// DefaultTimeout bounds one category fetch.
	DefaultTimeout = 60 * time.Second

	// DefaultConcurrency caps parallel category fetches in BrowseAll.
	DefaultConcurrency = 3

	// PlaceholderThumbnail is shown when an item has no usable image.
	PlaceholderThumbnail = "https://images.unsplash.com/photo-1534438327276-14e5300c3a48?q=80&w=800"
)

// Fetcher returns the raw library response for a category.
type Fetcher interface {
	FetchLibrary(ctx context.Context, category models.LibraryCategory) ([]byte, error)
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithConcurrency overrides DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service browses the exercise library.
type Service struct {
	fetcher     Fetcher
	timeout     time.Duration
	concurrency int
	logger      *zap.Logger
}

// New creates a Service.
func New(f Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher:     f,
		timeout:     DefaultTimeout,
		concurrency: DefaultConcurrency,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Browse fetches and validates one category. On failure it returns an
// empty list along with the error.
func (s *Service) Browse(ctx context.Context, category models.LibraryCategory) ([]models.LibraryItem, error) {
	if !models.IsValidLibraryCategory(string(category)) {
		return []models.LibraryItem{}, fmt.Errorf("%w: unknown library category %q", models.ErrConstraintViolation, category)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.fetcher.FetchLibrary(ctx, category)
	if err != nil {
		s.logger.Warn("library fetch failed", zap.String("category", string(category)), zap.Error(err))
		return []models.LibraryItem{}, fmt.Errorf("browse %s: %w", category, err)
	}
	items, err := schema.ValidateLibraryItems(raw)
	if err != nil {
		s.logger.Warn("library response rejected", zap.String("category", string(category)), zap.Error(err))
		return []models.LibraryItem{}, fmt.Errorf("browse %s: %w", category, err)
	}
	for i := range items {
		items[i].Thumbnail = Thumbnail(items[i].MediaURL)
	}

	s.logger.Debug("library browsed", zap.String("category", string(category)), zap.Int("items", len(items)))
	return items, nil
}

// Page is the result of browsing one category in BrowseAll.
type Page struct {
	Category models.LibraryCategory `json:"category"`
	Items    []models.LibraryItem   `json:"items"`
	Err      error                  `json:"-"`
}

// BrowseAll fetches several categories concurrently. A failing category
// yields a Page with Err set; it never cancels the others. Pages are
// returned in the order the categories were given.
func (s *Service) BrowseAll(ctx context.Context, categories []models.LibraryCategory) []Page {
	pages := make([]Page, len(categories))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, c := range categories {
		g.Go(func() error {
			items, err := s.Browse(gctx, c)
			mu.Lock()
			pages[i] = Page{Category: c, Items: items, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return pages
}

// GroupByMuscle buckets items by muscle group. Keys follow
// models.MuscleGroups; groups with no items are omitted.
func GroupByMuscle(items []models.LibraryItem) map[string][]models.LibraryItem {
	groups := make(map[string][]models.LibraryItem)
	for _, it := range items {
		g := models.CanonicalMuscleGroup(it.MuscleGroup)
		groups[g] = append(groups[g], it)
	}
	return groups
}

// OrderedGroups returns the non-empty group names of groups in display order.
func OrderedGroups(groups map[string][]models.LibraryItem) []string {
	var names []string
	for _, g := range models.MuscleGroups {
		if len(groups[g]) > 0 {
			names = append(names, g)
		}
	}
	return names
}

// Filter keeps items whose name, description, or muscle group contains
// term, case-insensitively. An empty term keeps everything.
func Filter(items []models.LibraryItem, term string) []models.LibraryItem {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}
	out := make([]models.LibraryItem, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), term) ||
			strings.Contains(strings.ToLower(it.Description), term) ||
			strings.Contains(strings.ToLower(it.MuscleGroup), term) {
			out = append(out, it)
		}
	}
	return out
}

// SortByName orders items alphabetically in place.
func SortByName(items []models.LibraryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}

var youtubeID = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|shorts/|watch\?v=|&v=)([^#&?]*).*`)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// Thumbnail picks a preview image for a media URL: the YouTube frame for
// video links, the URL itself when it points at an image, and
// PlaceholderThumbnail otherwise.
func Thumbnail(mediaURL string) string {
	if id := YouTubeID(mediaURL); id != "" {
		return "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg"
	}
	u := strings.TrimSpace(mediaURL)
	if u != "" {
		p := u
		if i := strings.IndexAny(p, "?#"); i >= 0 {
			p = p[:i]
		}
		if imageExts[strings.ToLower(path.Ext(p))] {
			return u
		}
	}
	return PlaceholderThumbnail
}

// YouTubeID extracts the 11 character video id from a YouTube URL.
func YouTubeID(mediaURL string) string {
	m := youtubeID.FindStringSubmatch(strings.TrimSpace(mediaURL))
	if m == nil || len(m[2]) != 11 {
		return ""
	}
	return m[2]
}
