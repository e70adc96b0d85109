package content

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// WelcomeID is the identity of the pinned welcome post.
const WelcomeID = "welcome-post"

// poolCopies is how many times the post list is repeated before sampling so
// large counts can be served from a short list.
const poolCopies = 3

const (
	minPostAge = time.Minute
	maxPostAge = 48 * time.Hour
)

var ErrEmptyFeed = errors.New("content: feed has no posts")

//go:embed feed.yaml
var defaultFeed []byte

type PostSpec struct {
	Text      string    `yaml:"text"`
	Sentiment Sentiment `yaml:"sentiment"`
}

type FeedSpec struct {
	Welcome string                  `yaml:"welcome"`
	Count   int                     `yaml:"count"`
	Palette map[Sentiment]YAMLColor `yaml:"palette"`
	Posts   []PostSpec              `yaml:"posts"`
}

// Feed produces batches of posts from a FeedSpec.
type Feed struct {
	spec  FeedSpec
	rng   *rand.Rand
	now   func() time.Time
	newID func() string
}

type FeedOption func(*Feed)

func WithRand(r *rand.Rand) FeedOption {
	return func(f *Feed) {
		if r != nil {
			f.rng = r
		}
	}
}

func WithClock(now func() time.Time) FeedOption {
	return func(f *Feed) {
		if now != nil {
			f.now = now
		}
	}
}

func WithIDFunc(fn func() string) FeedOption {
	return func(f *Feed) {
		if fn != nil {
			f.newID = fn
		}
	}
}

// LoadFeed reads a feed from path, falling back to the embedded default
// when path is empty.
func LoadFeed(path string, opts ...FeedOption) (*Feed, error) {
	data := defaultFeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("content: load %s: %w", path, err)
		}
		data = b
	}
	return ParseFeed(data, opts...)
}

func ParseFeed(data []byte, opts ...FeedOption) (*Feed, error) {
	var spec FeedSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("content: unmarshal feed: %w", err)
	}
	if len(spec.Posts) == 0 {
		return nil, ErrEmptyFeed
	}
	if spec.Count <= 0 {
		spec.Count = 20
	}

	f := &Feed{
		spec:  spec,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *Feed) Spec() FeedSpec {
	return f.spec
}

// ColorFor returns the palette colour for s, falling back to neutral.
func (f *Feed) ColorFor(s Sentiment) YAMLColor {
	if c, ok := f.spec.Palette[s]; ok {
		return c
	}
	return f.spec.Palette[Neutral]
}

// Generate returns n posts sampled from the pool. Each is backdated by a
// random age so a batch is treated as history, not as freshly written posts.
func (f *Feed) Generate(n int, now time.Time) []Item {
	pool := make([]PostSpec, 0, len(f.spec.Posts)*poolCopies)
	for i := 0; i < poolCopies; i++ {
		pool = append(pool, f.spec.Posts...)
	}
	f.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n > len(pool) {
		n = len(pool)
	}
	if n < 0 {
		n = 0
	}

	items := make([]Item, 0, n)
	for _, p := range pool[:n] {
		it := f.Compose(p.Text, p.Sentiment, now)
		it.CreatedAt = now.Add(-f.age())
		items = append(items, it)
	}
	return items
}

// Compose builds a new post with a fresh identity.
func (f *Feed) Compose(text string, s Sentiment, now time.Time) Item {
	if s == "" {
		s = Neutral
	}
	return Item{
		ID:        f.newID(),
		Text:      text,
		CreatedAt: now,
		Color:     f.ColorFor(s).NRGBA,
		Sentiment: s,
	}
}

// Welcome returns the pinned welcome post.
func (f *Feed) Welcome(now time.Time) Item {
	it := f.Compose(f.spec.Welcome, Happy, now)
	it.ID = WelcomeID
	it.CreatedAt = now.Add(-f.age())
	return it
}

func (f *Feed) age() time.Duration {
	return minPostAge + time.Duration(f.rng.Int63n(int64(maxPostAge-minPostAge)))
}

// Initial is the first population: welcome post followed by a sampled batch.
func (f *Feed) Initial() []Item {
	now := f.now()
	items := []Item{f.Welcome(now)}
	return append(items, f.Generate(f.spec.Count, now)...)
}

// Items returns a freshly sampled batch; used for refreshes.
func (f *Feed) Items() ([]Item, error) {
	return f.Generate(f.spec.Count, f.now()), nil
}

// Random picks a post text and sentiment from the pool.
func (f *Feed) Random() PostSpec {
	return f.spec.Posts[f.rng.Intn(len(f.spec.Posts))]
}
