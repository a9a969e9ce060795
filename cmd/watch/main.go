// watch 是面向终端的演练入口：用查询串装配筛选状态拉取一页职位，
// 然后挂上通知铃铛与简历状态订阅，把推送实时打到控制台。
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"jobhunter/internal/bell"
	"jobhunter/internal/bus"
	"jobhunter/internal/client"
	"jobhunter/internal/facet"
	"jobhunter/internal/watch"
)

type consoleToaster struct {
	logger *log.Logger
}

func (t consoleToaster) Toast(title, message string) {
	t.logger.Printf("%s: %s", title, message)
}

// consoleConfirmer 在标准输入上询问 y/n。
type consoleConfirmer struct {
	in *bufio.Reader
}

func (c consoleConfirmer) Confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

func main() {
	_ = godotenv.Load()

	baseURL := flag.String("base-url", envOr("BASE_URL", "http://localhost:8080"), "API base URL")
	userID := flag.Int64("user", 42, "viewer user id")
	query := flag.String("query", "", "search page query string, e.g. levels=JUNIOR,SENIOR&salaryFrom=10000000")
	flag.Parse()

	logger := log.New(os.Stdout, "[watch] ", log.LstdFlags)

	api := client.New(client.Config{
		BaseURL: *baseURL,
		UserID:  *userID,
		Logger:  logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := searchOnce(ctx, api, *query, logger); err != nil {
		logger.Printf("search failed: %v", err)
	}

	eventBus := bus.New()
	ring := bell.New(bell.Config{
		API:       api,
		Bus:       eventBus,
		Confirmer: consoleConfirmer{in: bufio.NewReader(os.Stdin)},
		Logger:    logger,
	})
	defer ring.Close()
	ring.RefreshCount(ctx)
	logger.Printf("unread notifications: %d", ring.Unread())

	watcher := watch.New(watch.Config{
		BaseURL: *baseURL,
		Bus:     eventBus,
		Toaster: consoleToaster{logger: logger},
		Logger:  logger,
	})
	if err := watcher.Start(*userID); err != nil {
		logger.Printf("watcher start failed: %v", err)
		return
	}
	defer watcher.Stop()

	eventBus.Subscribe(func() {
		logger.Printf("unread notifications: %d", ring.Unread())
	})

	logger.Printf("watching resume updates for user %d, ctrl-c to exit", *userID)
	<-ctx.Done()
}

// searchOnce 用 URL 查询串装配筛选状态并拉取第一页。
func searchOnce(ctx context.Context, api *client.Client, query string, logger *log.Logger) error {
	search := facet.NewSearch(nil)
	if specs, err := api.Specializations(ctx); err == nil {
		search.Specializations.SetOptions(specs)
	}
	if query != "" {
		values, err := url.ParseQuery(query)
		if err != nil {
			return fmt.Errorf("parse query: %w", err)
		}
		search.HydrateQuery(values)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	page, err := api.SearchJobs(fetchCtx, search.FetchQuery())
	if err != nil {
		return err
	}

	logger.Printf("%d job(s) matched, showing page %d/%d", page.Meta.Total, page.Meta.Page, page.Meta.Pages)
	for _, job := range page.Result {
		logger.Printf("  #%d %s @ %s | %s %s %d VND", job.ID, job.Name, job.Company.Name, job.Level, job.WorkType, job.Salary)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
