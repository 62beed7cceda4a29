package source

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math/big"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/cyderes/page-content-ingestion/internal/models"
)

// FallbackAlias is used when no alias can be derived from a page URL.
const FallbackAlias = "unknown_page"

const (
	seedModulus      = 100_000_000
	postIDTimeLayout = "20060102150405"
	createdLayout    = "2006-01-02T15:04:05"
	utcOffsetMarker  = "+0000"
	permalinkFormat  = "https://www.facebook.com/%s/posts/%s"
)

// AnchorTime is the fixed "now" every simulated timeline counts back from.
var AnchorTime = time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC)

var messageTemplates = []string{
	"Publicación sobre reforma %s.",
	"Informe de trabajo en %s.",
	"Declaración respecto a %s.",
	"Resumen semanal: avances en %s.",
	"Sesión en el Congreso relacionada con %s.",
}

var topics = []string{"educación", "salud", "infraestructura", "economía", "seguridad"}

// SimulatedSource generates deterministic synthetic posts instead of
// calling the content API.
type SimulatedSource struct{}

// NewSimulatedSource creates a simulated source
func NewSimulatedSource() *SimulatedSource {
	return &SimulatedSource{}
}

// Name returns "simulated"
func (s *SimulatedSource) Name() string {
	return "simulated"
}

// Fetch returns count synthetic posts for the page. It never fails.
func (s *SimulatedSource) Fetch(ctx context.Context, pageName, pageURL string, count int) ([]models.Post, error) {
	return Generate(pageName, pageURL, count), nil
}

// Alias derives a readable page identifier from the first path segment of
// the page URL. It is not the platform's numeric page ID. The segment is
// taken as written, so percent-escapes such as %20 and %2F stay encoded.
func Alias(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return FallbackAlias
	}
	slug := strings.Split(strings.Trim(rawPath(u, pageURL), "/"), "/")[0]
	if slug == "" {
		return FallbackAlias
	}
	return slug
}

// rawPath returns the path of raw exactly as it appears in the string.
// u.EscapedPath would re-encode non-ASCII segments such as "AnaGómez".
func rawPath(u *url.URL, raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	if u.Scheme != "" {
		raw = raw[len(u.Scheme)+1:]
	}
	if strings.HasPrefix(raw, "//") {
		raw = raw[2:]
		i := strings.IndexByte(raw, '/')
		if i < 0 {
			return ""
		}
		raw = raw[i:]
	}
	return raw
}

// Seed hashes base with SHA-256 and reduces it modulo 10^8.
func Seed(base string) int64 {
	sum := sha256.Sum256([]byte(base))
	n := new(big.Int).SetBytes(sum[:])
	return n.Mod(n, big.NewInt(seedModulus)).Int64()
}

// Generate builds count posts for a page. The output depends only on its
// arguments.
func Generate(pageName, pageURL string, count int) []models.Post {
	alias := Alias(pageURL)
	seedBase := alias
	if seedBase == "" {
		seedBase = pageName
	}
	rng := rand.New(rand.NewSource(Seed(seedBase)))

	posts := make([]models.Post, 0, max(count, 0))
	for i := 0; i < count; i++ {
		step := randInt(rng, 3, 9)
		created := AnchorTime.Add(-time.Duration(hourOffset(i, step)) * time.Hour)
		postID := fmt.Sprintf("%s_%s", alias, created.Format(postIDTimeLayout))

		template := messageTemplates[rng.Intn(len(messageTemplates))]
		topic := topics[rng.Intn(len(topics))]
		reactions := randInt(rng, 10, 300)
		comments := randInt(rng, 5, 120)
		shares := randInt(rng, 0, 40)

		posts = append(posts, models.Post{
			PageName:       pageName,
			PageURL:        pageURL,
			PageIDAlias:    alias,
			PostID:         postID,
			CreatedTime:    created.Format(createdLayout) + utcOffsetMarker,
			Message:        fmt.Sprintf(template, topic),
			PermalinkURL:   fmt.Sprintf(permalinkFormat, alias, postID),
			ReactionsCount: reactions,
			CommentsCount:  comments,
			SharesCount:    shares,
		})
	}

	return posts
}

// hourOffset is how far before the anchor post i is created. The step is
// redrawn per index and multiplied rather than accumulated, so offsets are
// not monotonic and two indexes can land on the same hour (1*6 and 2*3).
// Post IDs within one batch are therefore not guaranteed to be unique.
func hourOffset(i, step int) int {
	return i * step
}

// randInt returns a uniform integer in [lo, hi].
func randInt(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}
