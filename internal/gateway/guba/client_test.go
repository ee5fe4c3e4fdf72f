package guba

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wonny/argus/pkg/config"
	"github.com/wonny/argus/pkg/httputil"
	"github.com/wonny/argus/pkg/logger"
)

const listPage = `<html><body>
<div class="listbody">
  <div class="articleh"><span class="title"><a title="三季报超预期，主力持续加仓">三季报超预期，主力持续加仓</a></span></div>
  <div class="articleh"><span class="title"><a title="放量突破，后市怎么看">放量突破，后市怎么看</a></span></div>
  <div class="articleh"><span class="title"><a title="三季报超预期，主力持续加仓">三季报超预期，主力持续加仓</a></span></div>
  <div class="articleh"><span class="title"><a>今天这走势太难受了</a></span></div>
</div>
</body></html>`

func TestParseHeadlines(t *testing.T) {
	headlines := parseHeadlines(listPage, 10)
	if len(headlines) != 3 {
		t.Fatalf("Expected 3 unique headlines, got %d: %v", len(headlines), headlines)
	}
	if headlines[0] != "三季报超预期，主力持续加仓" {
		t.Errorf("Unexpected first headline: %s", headlines[0])
	}
	if headlines[2] != "今天这走势太难受了" {
		t.Errorf("Expected text fallback for anchor without title attr, got %s", headlines[2])
	}

	limited := parseHeadlines(listPage, 2)
	if len(limited) != 2 {
		t.Errorf("Expected limit to cap results at 2, got %d", len(limited))
	}
}

func TestGetHeadlines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/list,600519.html" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(listPage))
	}))
	defer server.Close()

	cfg := &config.Config{Env: "development", LogLevel: "error"}
	log := logger.New(cfg)
	client := NewClient(httputil.New(log, 5*time.Second).DisableRetry(), log, server.URL)

	headlines, err := client.GetHeadlines(context.Background(), "600519.SH", 5)
	if err != nil {
		t.Fatalf("GetHeadlines failed: %v", err)
	}
	if len(headlines) != 3 {
		t.Errorf("Expected 3 headlines, got %d", len(headlines))
	}
}
