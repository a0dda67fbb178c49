// Package generator produces synthetic catalog records: categories with
// unique codes, items with unique SKUs, and free-form request payloads.
//
// All randomness comes from the *rand.Rand handed to New, so a fixed seed and
// a fixed clock give identical output.
package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/pankajredekar/catalogseed/internal/model"
	"github.com/pankajredekar/catalogseed/internal/progress"
	"github.com/shopspring/decimal"
)

var (
	// ErrSpaceExhausted is returned when no unused code could be drawn within
	// the configured number of attempts.
	ErrSpaceExhausted = errors.New("generation space exhausted")
	// ErrNoCategories is returned when items are requested without categories.
	ErrNoCategories = errors.New("no categories to assign items to")
)

const (
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// CategoryCodePrefix starts every category code.
	CategoryCodePrefix = "CAT"

	DefaultCategoryCodeLength = 6
	DefaultSKULength          = 8
	DefaultMaxAttempts        = 1000
	DefaultCategoryInterval   = 100
	DefaultItemInterval       = 5000
)

// Price bounds, both inclusive.
var (
	MinPrice = decimal.New(500, -2)
	MaxPrice = decimal.New(99999, -2)
)

const MaxStock = 1000

// Payload text sizes in characters.
const (
	LightDescriptionSize    = 1000
	HeavyDescriptionSize    = 3000
	HeavySpecificationsSize = 2000
)

// Options tunes a Generator. Zero values fall back to the defaults above.
type Options struct {
	// MaxAttempts bounds the draws per code before giving up.
	MaxAttempts int
	// Now anchors the timestamp windows. Defaults to time.Now().
	Now time.Time
	// Reporter receives generation progress.
	Reporter progress.Reporter
	// CategoryInterval and ItemInterval set how often progress is reported.
	CategoryInterval int
	ItemInterval     int
	// CodeLength and SKULength set the random part of codes and SKUs.
	CodeLength int
	SKULength  int
}

// Generator draws catalog records from a single random source.
type Generator struct {
	rng              *rand.Rand
	faker            *gofakeit.Faker
	now              time.Time
	maxAttempts      int
	reporter         progress.Reporter
	categoryInterval int
	itemInterval     int
	codeLength       int
	skuLength        int
}

// New creates a generator that draws from rng
func New(rng *rand.Rand, opts Options) *Generator {
	g := &Generator{
		rng:              rng,
		faker:            gofakeit.NewFaker(rng, false),
		now:              opts.Now,
		maxAttempts:      opts.MaxAttempts,
		reporter:         opts.Reporter,
		categoryInterval: opts.CategoryInterval,
		itemInterval:     opts.ItemInterval,
		codeLength:       opts.CodeLength,
		skuLength:        opts.SKULength,
	}
	if g.now.IsZero() {
		g.now = time.Now()
	}
	g.now = g.now.UTC().Truncate(time.Second)
	if g.maxAttempts <= 0 {
		g.maxAttempts = DefaultMaxAttempts
	}
	if g.reporter == nil {
		g.reporter = progress.Nop()
	}
	if g.categoryInterval <= 0 {
		g.categoryInterval = DefaultCategoryInterval
	}
	if g.itemInterval <= 0 {
		g.itemInterval = DefaultItemInterval
	}
	if g.codeLength <= 0 {
		g.codeLength = DefaultCategoryCodeLength
	}
	if g.skuLength <= 0 {
		g.skuLength = DefaultSKULength
	}
	return g
}

// NewRand returns a random source for seed. The same seed always yields the
// same sequence.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Categories generates n categories with pairwise distinct codes.
func (g *Generator) Categories(n int) ([]model.Category, error) {
	if n < 0 {
		return nil, fmt.Errorf("category count must not be negative, got %d", n)
	}

	tracker := g.reporter.Start("Generating categories", n)
	defer tracker.Finish()

	start := g.now.AddDate(-1, 0, 0)
	used := make(map[string]struct{}, n)
	categories := make([]model.Category, 0, n)

	for i := 0; i < n; i++ {
		code, err := g.uniqueToken(used, func() string {
			return CategoryCodePrefix + g.token(g.codeLength)
		})
		if err != nil {
			return nil, fmt.Errorf("category %d of %d: %w", i+1, n, err)
		}

		categories = append(categories, model.Category{
			Seq:       i + 1,
			Code:      code,
			Name:      g.CatchPhrase(),
			UpdatedAt: g.between(start, g.now),
		})

		if (i+1)%g.categoryInterval == 0 || i+1 == n {
			tracker.Set(i + 1)
		}
	}

	return categories, nil
}

// Items generates m items with pairwise distinct SKUs. Every item is assigned
// to a category drawn uniformly from categories, so per-category counts are
// multinomial rather than balanced.
func (g *Generator) Items(m int, categories []model.Category) ([]model.Item, error) {
	if m < 0 {
		return nil, fmt.Errorf("item count must not be negative, got %d", m)
	}
	if m > 0 && len(categories) == 0 {
		return nil, ErrNoCategories
	}

	tracker := g.reporter.Start("Generating items", m)
	defer tracker.Finish()

	start := g.now.AddDate(0, -6, 0)
	used := make(map[string]struct{}, m)
	items := make([]model.Item, 0, m)

	for i := 0; i < m; i++ {
		sku, err := g.uniqueToken(used, func() string {
			return g.token(g.skuLength)
		})
		if err != nil {
			return nil, fmt.Errorf("item %d of %d: %w", i+1, m, err)
		}

		category := categories[g.rng.IntN(len(categories))]

		items = append(items, model.Item{
			Seq:         i + 1,
			SKU:         sku,
			Name:        g.CatchPhrase(),
			Price:       g.Price(),
			Stock:       g.Stock(),
			CategorySeq: category.Seq,
			UpdatedAt:   g.between(start, g.now),
		})

		if (i+1)%g.itemInterval == 0 || i+1 == m {
			tracker.Set(i + 1)
		}
	}

	return items, nil
}

// LightPayloads generates n payload rows with a description of about 1KB.
func (g *Generator) LightPayloads(n int) []model.LightPayload {
	payloads := make([]model.LightPayload, 0, max(n, 0))
	for i := 0; i < n; i++ {
		payloads = append(payloads, model.LightPayload{
			Name:        g.CatchPhrase(),
			Price:       g.Price(),
			Stock:       g.Stock(),
			Description: g.Text(LightDescriptionSize),
		})
	}
	return payloads
}

// HeavyPayloads generates n payload rows with a description of about 3KB and
// specifications of about 2KB.
func (g *Generator) HeavyPayloads(n int) []model.HeavyPayload {
	payloads := make([]model.HeavyPayload, 0, max(n, 0))
	for i := 0; i < n; i++ {
		payloads = append(payloads, model.HeavyPayload{
			Name:           g.CatchPhrase(),
			Price:          g.Price(),
			Stock:          g.Stock(),
			Description:    g.Text(HeavyDescriptionSize),
			Specifications: g.Text(HeavySpecificationsSize),
		})
	}
	return payloads
}

// Price draws a uniform price in [MinPrice, MaxPrice] rounded to 2 decimals.
func (g *Generator) Price() decimal.Decimal {
	lo := MinPrice.InexactFloat64()
	hi := MaxPrice.InexactFloat64()
	return decimal.NewFromFloat(lo + g.rng.Float64()*(hi-lo)).Round(2)
}

// Stock draws a uniform stock quantity in [0, MaxStock].
func (g *Generator) Stock() int {
	return g.rng.IntN(MaxStock + 1)
}

// SampleIndexes returns k distinct indexes in [0, population), or all of them
// in random order when k >= population.
func (g *Generator) SampleIndexes(population, k int) []int {
	if population <= 0 || k <= 0 {
		return nil
	}
	perm := g.rng.Perm(population)
	if k < population {
		perm = perm[:k]
	}
	return perm
}

// uniqueToken draws until it finds a token missing from used, then records it.
func (g *Generator) uniqueToken(used map[string]struct{}, draw func() string) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		token := draw()
		if _, taken := used[token]; taken {
			continue
		}
		used[token] = struct{}{}
		return token, nil
	}
	return "", fmt.Errorf("%w: no unused value after %d attempts (%d issued)", ErrSpaceExhausted, g.maxAttempts, len(used))
}

func (g *Generator) token(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = tokenAlphabet[g.rng.IntN(len(tokenAlphabet))]
	}
	return string(b)
}
