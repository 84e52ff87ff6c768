package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"armoryhub/internal/weapons"
	"armoryhub/pkg/models"
)

const defaultBaseURL = "http://localhost:3000"

func main() {
	global := flag.NewFlagSet("armoryhub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	rest := args[1:]

	// a manual scrape can take a while on slow sources
	client := &http.Client{Timeout: 2 * time.Minute}

	switch cmd {
	case "search":
		handleSearch(ctx, client, *baseURL, rest)
	case "show":
		handleShow(ctx, client, *baseURL, rest)
	case "scrape":
		var resp struct {
			Message string `json:"message"`
			Count   int    `json:"count"`
		}
		if err := doJSON(ctx, client, http.MethodPost, *baseURL+"/api/scrape", &resp); err != nil {
			log.Fatalf("scrape failed: %v", err)
		}
		fmt.Printf("✅ %s (%d items)\n", resp.Message, resp.Count)
	case "health":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, *baseURL+"/api/health", &resp); err != nil {
			log.Fatalf("health failed: %v", err)
		}
		printJSON(resp)
	case "status":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, *baseURL+"/api/refresh/status", &resp); err != nil {
			log.Fatalf("status failed: %v", err)
		}
		printJSON(resp)
	case "watch":
		wsURL, err := websocketURL(*baseURL, "/ws")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		for {
			if err := runWebSocket(wsURL); err != nil {
				log.Printf("[watch] disconnected: %v", err)
			}
			time.Sleep(1 * time.Second)
		}
	case "export":
		handleExport(ctx, client, *baseURL, rest)
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleSearch(ctx context.Context, client *http.Client, baseURL string, args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	query := fs.String("q", "", "search query")
	_ = fs.Parse(args)
	if *query == "" && fs.NArg() > 0 {
		*query = strings.Join(fs.Args(), " ")
	}

	items, err := search(ctx, client, baseURL, *query)
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}
	for _, w := range items {
		fmt.Printf("%-24s %-18s %-8s %s\n", w.Name, w.Country, w.Year, w.Class)
	}
	fmt.Printf("%d results\n", len(items))
}

func handleShow(ctx context.Context, client *http.Client, baseURL string, args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	id := fs.String("id", "", "weapon id")
	_ = fs.Parse(args)
	if *id == "" {
		log.Fatal("weapon id is required")
	}

	var resp models.Weapon
	if err := doJSON(ctx, client, http.MethodGet, baseURL+"/api/weapons/"+url.PathEscape(*id), &resp); err != nil {
		log.Fatalf("show failed: %v", err)
	}
	printJSON(resp)
}

func handleExport(ctx context.Context, client *http.Client, baseURL string, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "data/weapons.csv", "output CSV path")
	query := fs.String("q", "", fmt.Sprintf("only export matches for this query (without one the API returns at most %d; use export-csv for the full snapshot)", weapons.ListLimit))
	_ = fs.Parse(args)

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatalf("export failed: %v", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("export failed: %v", err)
	}
	defer f.Close()

	n, err := exportCSV(ctx, client, baseURL, *query, f)
	if err != nil {
		log.Fatalf("export failed: %v", err)
	}
	if *query == "" && n >= weapons.ListLimit {
		log.Printf("⚠️ search results are capped at %d; run export-csv on the server for the full snapshot", weapons.ListLimit)
	}
	log.Printf("✅ exported %d weapons to %s", n, *out)
}

// exportCSV writes the search results for query to w and returns how many
// records it wrote.
func exportCSV(ctx context.Context, client *http.Client, baseURL, query string, w io.Writer) (int, error) {
	items, err := search(ctx, client, baseURL, query)
	if err != nil {
		return 0, err
	}
	if err := weapons.WriteCSV(w, items); err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	return len(items), nil
}

func search(ctx context.Context, client *http.Client, baseURL, query string) ([]models.Weapon, error) {
	u, err := url.Parse(baseURL + "/api/search")
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if query != "" {
		qv := u.Query()
		qv.Set("q", query)
		u.RawQuery = qv.Encode()
	}

	var items []models.Weapon
	if err := doJSON(ctx, client, http.MethodGet, u.String(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func runWebSocket(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[watch] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
	}
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

func printUsage() {
	fmt.Println("armoryhub [-api URL] <command> [flags]")
	fmt.Println("commands:")
	fmt.Println("  search [-q query | query...]")
	fmt.Println("  show -id <id>")
	fmt.Println("  scrape")
	fmt.Println("  health")
	fmt.Println("  status")
	fmt.Println("  watch")
	fmt.Printf("  export [-out path] [-q query]   (at most %d rows without -q; see export-csv)\n", weapons.ListLimit)
}
