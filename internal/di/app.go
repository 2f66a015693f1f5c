// Package di assembles the client application. All state lives in the App
// struct; nothing here is a package-level global, so tests can build as
// many isolated apps as they need.
package di

import (
	"mailmap/internal/actions"
	"mailmap/internal/auth"
	"mailmap/internal/backend"
	"mailmap/internal/config"
	"mailmap/internal/content"
	"mailmap/internal/gesture"
	"mailmap/internal/maprender"
	"mailmap/internal/modal"
	"mailmap/internal/netclient"
	"mailmap/internal/share"
)

// Frontend bundles the platform ports the host environment implements:
// the map surface, navigation, dialogs and the system share/clipboard
// integrations.
type Frontend struct {
	Surface      maprender.MapSurface
	Navigator    actions.Navigator
	DialogView   modal.ViewFactory
	Prompter     actions.UserPrompter
	NativeSharer share.NativeSharer
	WindowOpener share.WindowOpener
	Clipboard    share.Clipboard
}

// App is the fully wired client: every component reachable from one
// explicit root.
type App struct {
	Config   *config.Config
	Gate     *auth.Gate
	Backend  *backend.API
	Store    *content.Store
	Renderer *maprender.Renderer
	Modal    *modal.Controller
	Gesture  *gesture.Recognizer
	Share    *share.Service
	Actions  *actions.Handlers
}

func provideGate(cfg *config.Config) *auth.Gate {
	return auth.NewGate(cfg.Auth.WaitTimeout())
}

func provideNetClient(cfg *config.Config) *netclient.Client {
	return netclient.New(cfg.Backend.RequestTimeout, cfg.Backend.MaxRetries, cfg.Backend.BackoffBase)
}

func provideBackend(client *netclient.Client, cfg *config.Config) *backend.API {
	return backend.NewAPI(client, cfg.Backend.BaseURL)
}

// gateIdentity adapts the auth gate to the renderer's read-only identity
// view.
type gateIdentity struct {
	gate *auth.Gate
}

func (g gateIdentity) CurrentUID() (string, bool) {
	id, ok := g.gate.Current()
	return id.UID, ok && id.UID != ""
}

func provideRenderer(frontend Frontend, gate *auth.Gate, cfg *config.Config) *maprender.Renderer {
	return maprender.NewRenderer(frontend.Surface, frontend.Navigator, gateIdentity{gate: gate}, cfg.Share.Origin)
}

func provideStore(renderer *maprender.Renderer) *content.Store {
	return content.NewStore(renderer)
}

func provideShare(frontend Frontend, cfg *config.Config) *share.Service {
	return share.NewService(
		frontend.NativeSharer,
		frontend.WindowOpener,
		frontend.Clipboard,
		frontend.Prompter,
		cfg.Content.MaxTextLength,
		cfg.Share.WindowWidth,
		cfg.Share.WindowHeight,
	)
}

func provideModal(gate *auth.Gate, api *backend.API, store *content.Store, frontend Frontend, cfg *config.Config) *modal.Controller {
	return modal.NewController(gate, api, store, frontend.Prompter, frontend.DialogView, cfg.Content.MaxTextLength)
}

func provideGesture(controller *modal.Controller, frontend Frontend, cfg *config.Config) *gesture.Recognizer {
	return gesture.NewRecognizer(cfg.Gesture.LongPressDuration, cfg.Gesture.MoveThresholdPx, controller, frontend.Prompter)
}

func provideActions(gate *auth.Gate, api *backend.API, store *content.Store, frontend Frontend, shareSvc *share.Service, cfg *config.Config) *actions.Handlers {
	return actions.NewHandlers(gate, api, store, frontend.Navigator, frontend.Prompter, shareSvc, cfg.Content.MinReasonLength)
}
