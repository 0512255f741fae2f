package backend

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"
)

const cookieSaveTimeout = 2 * time.Second

// CookieStore keeps the backend cookies of one client across workspaces and
// restarts. cache.Record[[]*http.Cookie] satisfies it.
type CookieStore interface {
	Load(ctx context.Context) ([]*http.Cookie, bool, error)
	Save(ctx context.Context, cookies []*http.Cookie) error
	Clear(ctx context.Context) error
}

// persistentJar writes the cookie set of the backend origin through to a
// CookieStore after every change.
type persistentJar struct {
	jar    *cookiejar.Jar
	origin *url.URL
	store  CookieStore
	logger *slog.Logger

	mu sync.Mutex
}

func (j *persistentJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

func (j *persistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {

	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)

	current := j.jar.Cookies(j.origin)

	ctx, cancel := context.WithTimeout(context.Background(), cookieSaveTimeout)
	defer cancel()

	var err error
	if len(current) == 0 {
		err = j.store.Clear(ctx)
	} else {
		err = j.store.Save(ctx, current)
	}

	if err != nil {
		j.logger.Warn("Failed to persist backend cookies", slog.String("error", err.Error()))
	}
}

// NewPersistentClient returns a Client whose cookie jar starts from the cookies
// held by store and writes every change back to it. A failed restore starts
// with an empty jar.
func (g *Gateway) NewPersistentClient(ctx context.Context, store CookieStore, logger *slog.Logger) *Client {

	if logger == nil {
		logger = slog.Default()
	}

	jar, _ := cookiejar.New(nil)

	saved, found, err := store.Load(ctx)
	if err != nil {
		logger.Warn("Failed to restore backend cookies", slog.String("error", err.Error()))
	} else if found && len(saved) > 0 {
		for _, cookie := range saved {
			// Cookies read back from a jar carry only name and value.
			cookie.Path = "/"
		}

		jar.SetCookies(g.baseURL, saved)
	}

	return g.newClient(&persistentJar{jar: jar, origin: g.baseURL, store: store, logger: logger})
}
