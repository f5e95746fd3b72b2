package signals

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"unicode/utf8"

	"brandscope/internal/models"
)

type platform struct {
	name    string
	pattern string
	icon    string
}

var platforms = []platform{
	{name: "Instagram", pattern: "https://www.instagram.com/%s/", icon: "fab fa-instagram"},
	{name: "Twitter", pattern: "https://twitter.com/%s", icon: "fab fa-twitter"},
	{name: "TikTok", pattern: "https://www.tiktok.com/@%s", icon: "fab fa-tiktok"},
	{name: "LinkedIn", pattern: "https://www.linkedin.com/in/%s", icon: "fab fa-linkedin"},
	{name: "YouTube", pattern: "https://www.youtube.com/@%s", icon: "fab fa-youtube"},
}

var wellKnownBrands = map[string]bool{
	"netflix":   true,
	"google":    true,
	"apple":     true,
	"microsoft": true,
	"amazon":    true,
	"facebook":  true,
	"twitter":   true,
}

// SocialProbe estimates social handle availability. It does not contact the
// platforms: well-known brands are always taken and other names get an
// availability chance that grows with their length.
type SocialProbe struct {
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// SocialOption configures a SocialProbe
type SocialOption func(*SocialProbe)

// WithRand sets the random source used for the availability estimate
func WithRand(rng *rand.Rand) SocialOption {
	return func(p *SocialProbe) {
		p.rng = rng
	}
}

// NewSocialProbe creates a new SocialProbe
func NewSocialProbe(logger *slog.Logger, opts ...SocialOption) *SocialProbe {
	p := &SocialProbe{
		logger: logger,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckHandles returns one result per tracked platform, in a fixed order
func (p *SocialProbe) CheckHandles(ctx context.Context, brand string) []models.SocialHandleResult {
	results := make([]models.SocialHandleResult, 0, len(platforms))
	for _, pl := range platforms {
		results = append(results, p.checkPlatform(ctx, pl, brand))
	}
	return results
}

func (p *SocialProbe) checkPlatform(ctx context.Context, pl platform, brand string) (result models.SocialHandleResult) {
	result = models.SocialHandleResult{
		Platform: pl.name,
		Handle:   "@" + brand,
		URL:      fmt.Sprintf(pl.pattern, brand),
		Icon:     pl.icon,
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Social check panicked", "platform", pl.name, "panic", r)
			result.Available = false
			result.Status = models.HandleError
			result.Error = true
		}
	}()

	if err := ctx.Err(); err != nil {
		p.logger.Warn("Social check skipped", "platform", pl.name, "error", err)
		result.Status = models.HandleError
		result.Error = true
		return result
	}

	result.Available = p.estimate(brand)
	if result.Available {
		result.Status = models.HandleAvailable
	} else {
		result.Status = models.HandleTaken
	}
	return result
}

func (p *SocialProbe) estimate(brand string) bool {
	if wellKnownBrands[strings.ToLower(brand)] {
		return false
	}

	chance := availabilityChance(brand)
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64() < chance
}

// availabilityChance is the probability a handle for brand is free. Shorter
// names, counted in characters, are more likely to be taken.
func availabilityChance(brand string) float64 {
	switch length := utf8.RuneCountInString(brand); {
	case length <= 4:
		return 0.2
	case length <= 6:
		return 0.4
	case length <= 8:
		return 0.6
	default:
		return 0.8
	}
}
