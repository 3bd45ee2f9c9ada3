package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"refine-backend/pkg/client"

	"github.com/google/uuid"
)

// visitorID returns the identifier cached for this machine, creating it on
// first use. This mirrors the browser client, which keeps the id in local
// storage: created once, reused, never validated server-side.
func visitorID() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not determine config dir: %w", err)
	}

	path := filepath.Join(configDir, "refine-backend", "visitor_id")
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("could not create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0644); err != nil {
		return "", fmt.Errorf("could not save visitor id: %w", err)
	}

	return id, nil
}

func main() {
	addr := flag.String("addr", "http://localhost:8001", "base URL of the refine backend")
	history := flag.Bool("history", false, "list recent refinements instead of refining")
	sync := flag.Bool("sync", false, "use the non-streaming endpoint")
	flag.Parse()

	visitor, err := visitorID()
	if err != nil {
		log.Fatalf("error resolving visitor id: %v", err)
	}

	c := client.New(*addr)
	ctx := context.Background()

	if *history {
		submissions, err := c.History(ctx, visitor)
		if err != nil {
			log.Fatalf("error fetching history: %v", err)
		}
		if len(submissions) == 0 {
			fmt.Println("no refinements yet")
			return
		}
		for _, s := range submissions {
			fmt.Printf("[%s] %s\n", s.CreatedAt.Format("2006-01-02 15:04"), s.OriginalPrompt)
			fmt.Println(s.RefinedPrompt)
			fmt.Println(strings.Repeat("-", 40))
		}
		return
	}

	prompt := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if prompt == "" {
		log.Fatal("usage: cli [flags] <rough website idea>")
	}

	if *sync {
		resp, err := c.RefineSync(ctx, prompt, visitor)
		if err != nil {
			log.Fatalf("error refining prompt: %v", err)
		}
		fmt.Println(resp.RefinedPrompt)
		return
	}

	_, submissionID, err := c.Refine(ctx, prompt, visitor, func(fragment string) {
		fmt.Print(fragment)
	})
	if err != nil {
		log.Fatalf("error refining prompt: %v", err)
	}
	fmt.Printf("\n\nsaved as submission %s\n", submissionID)
}
