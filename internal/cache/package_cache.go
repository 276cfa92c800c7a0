package cache

import (
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// PackageCache caches each package's full question graph (questions with
// options) with a TTL, collapsing concurrent loads of the same package into
// a single database round-trip. Submissions for the same popular package
// otherwise hammer the store with identical reads.
type PackageCache struct {
	packages repository.PackageRepository
	ttl      time.Duration
	clock    func() time.Time
	sf       singleflight.Group
	rnd      *rand.Rand

	mu    sync.RWMutex
	cache map[uint]cachedPackage
}

type cachedPackage struct {
	pkg       *model.ExamPackage
	expiresAt time.Time
}

func NewPackageCache(packages repository.PackageRepository, ttl time.Duration) *PackageCache {
	return &PackageCache{
		packages: packages,
		ttl:      ttl,
		clock:    time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:    make(map[uint]cachedPackage),
	}
}

func (c *PackageCache) GetPackage(packageID uint) (*model.ExamPackage, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[packageID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.pkg, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(keyFor(packageID), func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[packageID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.pkg, nil
		}
		c.mu.RUnlock()

		pkg, err := c.packages.FindByIDWithQuestions(packageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, model.ErrPackageNotFound
			}
			return nil, err
		}

		c.mu.Lock()
		c.cache[packageID] = cachedPackage{
			pkg:       pkg,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return pkg, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.ExamPackage), nil
}

// Invalidate drops a package from the cache, e.g. after content edits.
func (c *PackageCache) Invalidate(packageID uint) {
	c.mu.Lock()
	delete(c.cache, packageID)
	c.mu.Unlock()
}

func keyFor(packageID uint) string {
	return "pkg:" + strconv.FormatUint(uint64(packageID), 10)
}

func (c *PackageCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
