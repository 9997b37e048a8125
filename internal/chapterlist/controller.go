package chapterlist

import (
	"context"
	"sync"

	"github.com/hanlin/lexibook/internal/logger"
	"github.com/hanlin/lexibook/internal/models"
	"github.com/hanlin/lexibook/internal/upstream"
)

// Presenter receives the signals the controller emits toward the
// presentation layer. It never receives state; callers read Snapshot.
type Presenter interface {
	ShowLockedNotice(chapter models.Chapter)
	Navigate(intent models.NavigationIntent)
	NotifyError(message string)
}

// State is the owned page state of one chapter-list instance.
// VisibleChapters is always exactly the ordered subsequence of AllChapters
// matching FilterValue; it is recomputed, never hand-synchronized.
type State struct {
	Book            *models.Book          `json:"book"`
	AllChapters     []models.Chapter      `json:"all_chapters"`
	VisibleChapters []models.Chapter      `json:"visible_chapters"`
	FilterOptions   []models.FilterOption `json:"filter_options"`
	FilterValue     string                `json:"filter_value"`
	FilterLabel     string                `json:"filter_label"`
	CurrentPage     int                   `json:"current_page"`
	HasMore         bool                  `json:"has_more"`
	LoadingInitial  bool                  `json:"loading_initial"`
	LoadingMore     bool                  `json:"loading_more"`
}

// Controller owns paginated chapter retrieval, incremental merge and
// client-side status filtering for a single book page instance. At most one
// initial load and one load-more may be in flight at a time; duplicate
// triggers (scroll events fire in bursts) are dropped at the door.
type Controller struct {
	mu        sync.Mutex
	client    upstream.ClientInterface
	presenter Presenter
	bookID    string
	pageSize  int
	log       *logger.Logger

	// gen invalidates in-flight results: a completion whose generation no
	// longer matches arrived after a refresh and must not touch state.
	gen   uint64
	state State
}

func New(client upstream.ClientInterface, presenter Presenter, bookID string, pageSize int) *Controller {
	return &Controller{
		client:    client,
		presenter: presenter,
		bookID:    bookID,
		pageSize:  pageSize,
		log:       logger.Default().WithPrefix("chapterlist").WithField("book_id", bookID),
		state: State{
			FilterValue: models.FilterAll,
			FilterLabel: "",
		},
	}
}

// BookID returns the book this controller was created for.
func (c *Controller) BookID() string {
	return c.bookID
}

// Snapshot returns a copy of the current state safe for rendering.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyStateLocked()
}

func (c *Controller) copyStateLocked() State {
	s := c.state
	s.AllChapters = append([]models.Chapter(nil), c.state.AllChapters...)
	s.VisibleChapters = append([]models.Chapter(nil), c.state.VisibleChapters...)
	s.FilterOptions = append([]models.FilterOption(nil), c.state.FilterOptions...)
	if c.state.Book != nil {
		book := *c.state.Book
		s.Book = &book
	}
	return s
}

// LoadInitial requests page 1 and on success replaces the accumulated state
// wholesale, resetting pagination. On failure the prior state is left fully
// intact and the failure is surfaced through the presenter. Refresh and
// re-entry go through the same path.
func (c *Controller) LoadInitial(ctx context.Context) error {
	c.mu.Lock()
	if c.state.LoadingInitial {
		c.mu.Unlock()
		c.log.Debug("initial load already in flight, ignoring")
		return nil
	}
	c.state.LoadingInitial = true
	// A refresh obsoletes any pending load-more result.
	c.gen++
	c.state.LoadingMore = false
	gen := c.gen
	c.mu.Unlock()

	page, err := c.client.FetchChapterPage(ctx, c.bookID, 1, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		c.log.Debug("discarding stale initial load result")
		return nil
	}
	c.state.LoadingInitial = false

	if err != nil {
		c.log.Error("initial load failed: %v", err)
		c.presenter.NotifyError("章节加载失败，请稍后重试")
		return err
	}

	c.state.Book = page.Book
	c.state.AllChapters = append([]models.Chapter(nil), page.Chapters...)
	c.state.FilterOptions = page.FilterOptions
	c.state.CurrentPage = 1
	c.state.HasMore = page.HasMore
	// Keep the active filter across refreshes when it is still offered,
	// otherwise fall back to the identity filter.
	if !c.filterKnownLocked(c.state.FilterValue) {
		c.state.FilterValue = models.FilterAll
	}
	c.state.FilterLabel = c.filterLabelLocked(c.state.FilterValue)
	c.recomputeVisibleLocked()

	c.log.Info("initial load complete: %d chapters, has_more=%v", len(c.state.AllChapters), c.state.HasMore)
	return nil
}

// LoadMore requests the next page and appends it to the accumulated set. It
// is a no-op when the server reported no more pages or when any load is
// already in flight; the scroll-to-bottom trigger fires in quick succession
// and must not produce duplicate concurrent fetches.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if !c.state.HasMore || c.state.LoadingInitial || c.state.LoadingMore {
		c.mu.Unlock()
		c.log.Debug("load more skipped: has_more=%v", c.state.HasMore)
		return nil
	}
	c.state.LoadingMore = true
	gen := c.gen
	nextPage := c.state.CurrentPage + 1
	c.mu.Unlock()

	page, err := c.client.FetchChapterPage(ctx, c.bookID, nextPage, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		c.log.Debug("discarding stale load more result for page %d", nextPage)
		return nil
	}
	c.state.LoadingMore = false

	if err != nil {
		c.log.Error("load more failed for page %d: %v", nextPage, err)
		c.presenter.NotifyError("加载更多失败，请稍后重试")
		return err
	}

	c.appendChaptersLocked(page.Chapters)
	c.state.CurrentPage = nextPage
	c.state.HasMore = page.HasMore
	c.recomputeVisibleLocked()

	c.log.Info("page %d merged: %d chapters total, has_more=%v", nextPage, len(c.state.AllChapters), c.state.HasMore)
	return nil
}

// appendChaptersLocked merges a fetched page into the accumulated set,
// preserving arrival order. A chapter id already present means the server
// returned overlapping pages; the duplicate is dropped rather than appended
// twice.
func (c *Controller) appendChaptersLocked(incoming []models.Chapter) {
	seen := make(map[string]struct{}, len(c.state.AllChapters))
	for _, ch := range c.state.AllChapters {
		seen[ch.ID] = struct{}{}
	}
	for _, ch := range incoming {
		if _, dup := seen[ch.ID]; dup {
			c.log.Warn("duplicate chapter %s from server, dropping", ch.ID)
			continue
		}
		seen[ch.ID] = struct{}{}
		c.state.AllChapters = append(c.state.AllChapters, ch)
	}
}

// ApplyFilter recomputes the visible subsequence under the given filter
// value. Purely local, no network call. Unknown values are rejected with no
// state change; the return value reports whether the filter was applied.
func (c *Controller) ApplyFilter(value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.filterKnownLocked(value) {
		c.log.Warn("unknown filter value %q, ignoring", value)
		return false
	}

	c.state.FilterValue = value
	c.state.FilterLabel = c.filterLabelLocked(value)
	c.recomputeVisibleLocked()

	c.log.Debug("filter applied: value=%s, visible=%d/%d", value, len(c.state.VisibleChapters), len(c.state.AllChapters))
	return true
}

// SelectChapter resolves a tap on a chapter row. Locked chapters produce a
// non-fatal notice; unlocked chapters produce a navigation intent. Unknown
// ids do nothing.
func (c *Controller) SelectChapter(chapterID string) bool {
	c.mu.Lock()
	var found *models.Chapter
	for i := range c.state.AllChapters {
		if c.state.AllChapters[i].ID == chapterID {
			found = &c.state.AllChapters[i]
			break
		}
	}
	if found == nil {
		c.mu.Unlock()
		c.log.Warn("select of unknown chapter %q, ignoring", chapterID)
		return false
	}
	chapter := *found
	bookID := c.bookID
	c.mu.Unlock()

	if chapter.Locked() {
		c.log.Debug("chapter %s is locked", chapter.ID)
		c.presenter.ShowLockedNotice(chapter)
		return true
	}

	c.presenter.Navigate(models.NavigationIntent{
		ChapterID: chapter.ID,
		BookID:    bookID,
		Title:     chapter.Title,
	})
	return true
}

// filterKnownLocked reports whether value is the identity filter or one of
// the options the server sent.
func (c *Controller) filterKnownLocked(value string) bool {
	if value == models.FilterAll {
		return true
	}
	for _, opt := range c.state.FilterOptions {
		if opt.Value == value {
			return true
		}
	}
	return false
}

func (c *Controller) filterLabelLocked(value string) string {
	for _, opt := range c.state.FilterOptions {
		if opt.Value == value {
			return opt.Label
		}
	}
	return ""
}

// recomputeVisibleLocked derives VisibleChapters from AllChapters under the
// current filter. Filtering always runs over the full accumulated set, so
// switching filters after several pages still sees every loaded chapter.
func (c *Controller) recomputeVisibleLocked() {
	if c.state.FilterValue == models.FilterAll {
		c.state.VisibleChapters = append([]models.Chapter(nil), c.state.AllChapters...)
		return
	}
	visible := make([]models.Chapter, 0, len(c.state.AllChapters))
	for _, ch := range c.state.AllChapters {
		if ch.Status == c.state.FilterValue {
			visible = append(visible, ch)
		}
	}
	c.state.VisibleChapters = visible
}
