package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Example Wire</title>
	<link>https://wire.example.com</link>
	<description>Example feed</description>
	<item>
		<title>Local team wins</title>
		<link>https://wire.example.com/sport/1</link>
		<description>The cricket match ended late on Sunday. Fans cheered the players.</description>
		<pubDate>Mon, 04 Mar 2024 09:00:00 +0000</pubDate>
	</item>
	<item>
		<title>Parliament passes new election law</title>
		<link>https://wire.example.com/politics/2</link>
		<description>&lt;p&gt;The government introduced the bill last week. Critics called it a &lt;b&gt;disaster&lt;/b&gt;.&lt;/p&gt;</description>
		<pubDate>Tue, 05 Mar 2024 10:30:00 +0000</pubDate>
	</item>
	<item>
		<title>Parliament passes new election law</title>
		<link>https://wire.example.com/politics/2</link>
		<description>Duplicate entry.</description>
	</item>
	<item>
		<title></title>
		<link>https://wire.example.com/empty</link>
	</item>
</channel>
</rss>`

func newFeedServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rss.xml" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssFixture))
	}))
	t.Cleanup(server.Close)
	return server
}

type fakeRecorder struct {
	refreshes int
	articles  int
	errs      int
}

func (f *fakeRecorder) FeedRefreshed(articles int, err error) {
	f.refreshes++
	f.articles = articles
	if err != nil {
		f.errs++
	}
}

func testConfig(urls ...string) Config {
	cfg := DefaultConfig()
	cfg.RefreshSchedule = ""
	for _, u := range urls {
		cfg.Sources = append(cfg.Sources, Source{Name: "Example Wire", URL: u})
	}
	return cfg
}

func TestArticles(t *testing.T) {
	var hits int32
	server := newFeedServer(t, &hits)
	rec := &fakeRecorder{}

	s := NewService(testConfig(server.URL+"/rss.xml"), rec, nil)

	articles, err := s.Articles(context.Background())
	if err != nil {
		t.Fatalf("Articles returned error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles after dedupe, got %d", len(articles))
	}

	first, second := articles[0], articles[1]
	if first.Title != "Parliament passes new election law" {
		t.Errorf("expected newest article first, got %q", first.Title)
	}
	if first.Category != "Politics" {
		t.Errorf("first category = %q, want Politics", first.Category)
	}
	if first.Description != "The government introduced the bill last week. Critics called it a disaster." {
		t.Errorf("HTML not stripped from description: %q", first.Description)
	}
	if first.BiasScore <= 0 || len(first.BiasTypes) == 0 {
		t.Errorf("expected keyword bias on first article, got %v %v", first.BiasScore, first.BiasTypes)
	}
	if first.Summary == "" {
		t.Error("expected summary on first article")
	}
	if first.Source != "Example Wire" || first.PublishedAt == nil {
		t.Errorf("unexpected source or date: %q %v", first.Source, first.PublishedAt)
	}

	if second.Category != "Sports" {
		t.Errorf("second category = %q, want Sports", second.Category)
	}

	if rec.refreshes != 1 || rec.articles != 2 || rec.errs != 0 {
		t.Errorf("unexpected recorder state %+v", rec)
	}
	if s.LastRefresh().IsZero() {
		t.Error("LastRefresh not set")
	}
}

func TestArticlesServedFromCache(t *testing.T) {
	var hits int32
	server := newFeedServer(t, &hits)
	s := NewService(testConfig(server.URL+"/rss.xml"), nil, nil)

	for i := 0; i < 3; i++ {
		if _, err := s.Articles(context.Background()); err != nil {
			t.Fatalf("Articles returned error: %v", err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("expected 1 upstream fetch, got %d", got)
	}

	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("expected forced refresh to fetch again, got %d fetches", got)
	}
}

func TestCacheExpires(t *testing.T) {
	var hits int32
	server := newFeedServer(t, &hits)
	cfg := testConfig(server.URL + "/rss.xml")
	cfg.CacheTTL = 50 * time.Millisecond
	s := NewService(cfg, nil, nil)

	if _, err := s.Articles(context.Background()); err != nil {
		t.Fatalf("Articles returned error: %v", err)
	}
	time.Sleep(120 * time.Millisecond)
	if _, err := s.Articles(context.Background()); err != nil {
		t.Fatalf("Articles returned error: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("expected refetch after TTL, got %d fetches", got)
	}
}

func TestPartialFailure(t *testing.T) {
	var hits int32
	server := newFeedServer(t, &hits)
	s := NewService(testConfig(server.URL+"/rss.xml", server.URL+"/missing.xml"), nil, nil)

	articles, err := s.Refresh(context.Background())
	if err != nil {
		t.Fatalf("expected partial success, got %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("expected 2 articles, got %d", len(articles))
	}
}

func TestAllFeedsFail(t *testing.T) {
	var hits int32
	server := newFeedServer(t, &hits)
	rec := &fakeRecorder{}
	s := NewService(testConfig(server.URL+"/missing.xml"), rec, nil)

	_, err := s.Refresh(context.Background())
	if !errors.Is(err, ErrAllFeedsFailed) {
		t.Fatalf("expected ErrAllFeedsFailed, got %v", err)
	}
	if rec.errs != 1 {
		t.Errorf("expected failure to be recorded, got %+v", rec)
	}
}

func TestNoSources(t *testing.T) {
	s := NewService(testConfig(), nil, nil)
	articles, err := s.Articles(context.Background())
	if err != nil || len(articles) != 0 {
		t.Errorf("expected empty result, got %v %v", articles, err)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshSchedule = "every now and then"
	s := NewService(cfg, nil, nil)
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("expected error for invalid schedule")
	}
}

func TestStartStop(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshSchedule = "@every 1h"
	s := NewService(cfg, nil, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	s.Stop()
}

func TestLoadSources(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    []Source
		wantErr bool
	}{
		{
			name: "named feeds",
			yaml: "feeds:\n  - name: Wire\n    url: https://wire.example.com/rss\n  - url: https://other.example.com/atom\n",
			want: []Source{
				{Name: "Wire", URL: "https://wire.example.com/rss"},
				{Name: "https://other.example.com/atom", URL: "https://other.example.com/atom"},
			},
		},
		{
			name:    "missing url",
			yaml:    "feeds:\n  - name: Broken\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			yaml:    "feeds: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "feeds.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}

			got, err := LoadSources(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadSources returned error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d sources, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("source %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoadSourcesMissingFile(t *testing.T) {
	if _, err := LoadSources(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
