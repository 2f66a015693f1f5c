package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mailmap/internal/auth"
	"mailmap/internal/config"
	"mailmap/internal/di"
	"mailmap/internal/modal"
)

func main() {
	cfg := config.LoadConfig()

	frontend := di.Frontend{
		Surface:      consoleSurface{},
		Navigator:    &consoleNav{path: "/"},
		DialogView:   func() modal.View { return consoleView{} },
		Prompter:     newConsolePrompter(),
		NativeSharer: consoleSharer{},
		WindowOpener: consoleWindowOpener{},
		Clipboard:    consoleClipboard{},
	}

	app, err := di.InitializeApp(cfg, frontend)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Sign in against the dev backend; the app still works anonymously when
	// this fails, it just cannot edit or delete.
	if id, err := signIn(ctx, cfg, os.Getenv("MAPCLIENT_USER_ID")); err != nil {
		log.Printf("Sign-in failed, continuing anonymously: %v", err)
	} else {
		app.Gate.Resolve(id)
		log.Printf("Signed in as %s", id.UID)
	}

	items, err := app.Backend.ListItems(ctx)
	if err != nil {
		log.Fatalf("Failed to load content: %v", err)
	}
	app.Store.ReplaceAll(items, "")
	log.Printf("Loaded %d items", app.Store.Len())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Client stopped")
}

func signIn(ctx context.Context, cfg *config.Config, userID string) (auth.Identity, error) {
	body, err := json.Marshal(map[string]string{"userId": userID})
	if err != nil {
		return auth.Identity{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.ContentURL("/login"), bytes.NewReader(body))
	if err != nil {
		return auth.Identity{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return auth.Identity{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return auth.Identity{}, fmt.Errorf("login answered %s", resp.Status)
	}

	var out struct {
		UserID string `json:"userId"`
		Token  string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return auth.Identity{}, err
	}
	return auth.Identity{UID: out.UserID, Token: out.Token}, nil
}
