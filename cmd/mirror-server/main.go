package main

import (
	"bytes"
	"flag"
	"log"
	"net/http"
	"os"

	"armoryhub/internal/scraper"
)

// Serves data/mirror.html at /wiki/List_of_firearms so the scraper can run
// against a local page:
//
//	ARMORYHUB_SOURCES=http://localhost:9000/wiki/List_of_firearms
func main() {
	var (
		addr     = flag.String("addr", ":9000", "listen address")
		dataPath = flag.String("file", "data/mirror.html", "mirror page to serve")
	)
	flag.Parse()

	http.HandleFunc("/wiki/List_of_firearms", func(w http.ResponseWriter, r *http.Request) {
		b, err := os.ReadFile(*dataPath)
		if err != nil {
			http.Error(w, "cannot read mirror page: "+err.Error(), http.StatusInternalServerError)
			return
		}
		// refuse to serve a page the scraper would read as empty
		rows, err := scraper.Extract(bytes.NewReader(b), nil)
		if err != nil || len(rows) == 0 {
			http.Error(w, "mirror page has no wikitable rows", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	})

	log.Printf("mirror-server listening on http://localhost%s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
