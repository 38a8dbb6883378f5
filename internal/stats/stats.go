// Package stats refreshes the domain gauges (user and post counts) on a
// schedule so the metrics endpoint stays cheap to serve.
package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/devhub/devconnect/internal/metrics"
	"github.com/devhub/devconnect/internal/repo"
	"github.com/robfig/cron/v3"
)

type Collector struct {
	users *repo.UserRepo
	posts *repo.PostRepo
	cron  *cron.Cron
}

func NewCollector(users *repo.UserRepo, posts *repo.PostRepo) *Collector {
	return &Collector{users: users, posts: posts, cron: cron.New()}
}

// Start refreshes the gauges immediately and then every minute. Failures are
// logged and the next run tries again; the collector never stops the server.
func (c *Collector) Start() error {
	if _, err := c.cron.AddFunc("@every 1m", c.refresh); err != nil {
		return err
	}
	c.refresh()
	c.cron.Start()
	return nil
}

func (c *Collector) Stop() {
	c.cron.Stop()
}

func (c *Collector) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if n, err := c.users.Count(ctx); err != nil {
		slog.Error("stats: count users", "err", err)
	} else {
		metrics.UsersTotal.Set(float64(n))
	}

	if n, err := c.posts.Count(ctx); err != nil {
		slog.Error("stats: count posts", "err", err)
	} else {
		metrics.PostsTotal.Set(float64(n))
	}
}
