package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/thtnerdboi/arcstep/internal/catalog"
	"github.com/thtnerdboi/arcstep/internal/config"
	"github.com/thtnerdboi/arcstep/internal/domain"
	"github.com/thtnerdboi/arcstep/internal/engine"
	"github.com/thtnerdboi/arcstep/internal/generate"
	"github.com/thtnerdboi/arcstep/internal/progress"
	"github.com/thtnerdboi/arcstep/internal/queue"
	"github.com/thtnerdboi/arcstep/internal/session"
	"github.com/thtnerdboi/arcstep/internal/social"
	"github.com/thtnerdboi/arcstep/internal/storage/sqlite"
	"github.com/thtnerdboi/arcstep/internal/syncer"
)

// Server is the Arcstep daemon HTTP server.
type Server struct {
	cfg    *config.LocalConfig
	server *http.Server
	router *http.ServeMux

	// Services
	catalog         *catalog.Catalog
	registry        *generate.Registry
	sessionService  *session.Service
	generateService *generate.Service
	socialService   *social.Service

	// Optional infrastructure, nil when disabled in config
	profileSyncer *syncer.Syncer
	queueConn     *queue.Connection
	db            *sqlite.DB
}

// ServerConfig holds configuration for creating a new server
type ServerConfig struct {
	Config *config.LocalConfig
}

// NewServer creates a new daemon server
func NewServer(ctx context.Context, cfg ServerConfig) (*Server, error) {
	s := &Server{
		cfg:    cfg.Config,
		router: http.NewServeMux(),
	}

	// Load the skill tree catalog
	var cat *catalog.Catalog
	var err error
	if path := cfg.Config.Catalog.Path; path != "" {
		cat, err = catalog.LoadFile(path)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	s.catalog = cat

	// Initialize LLM registry
	registry := generate.NewRegistry()
	if err := s.setupProviders(registry); err != nil {
		return nil, fmt.Errorf("setup llm providers: %w", err)
	}
	s.registry = registry

	dataDir, err := cfg.Config.DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	// The social graph is relational, so it always lives in SQLite even
	// when snapshots are stored as JSON files.
	db, err := sqlite.Open(filepath.Join(dataDir, "arcstep.db"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	s.db = db
	s.socialService = social.NewService(sqlite.NewSocialStore(db))

	var snapshots progress.SnapshotStore
	if cfg.Config.Storage.Backend == "sqlite" {
		snapshots = sqlite.NewSnapshotStore(db)
	} else {
		store, err := progress.NewStore(filepath.Join(dataDir, "snapshots"))
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("create snapshot store: %w", err)
		}
		snapshots = store
	}

	// Optional analytics queue
	var events session.EventPublisher
	if cfg.Config.Queue.Enabled {
		conn, err := queue.NewConnection(cfg.Config.Queue.URL)
		if err != nil {
			slog.Warn("analytics queue unavailable, events disabled", "error", err)
		} else {
			s.queueConn = conn
			events = queue.NewProducer(conn)
		}
	}

	// Optional remote profile sync. The invite-code regenerator closes over
	// the session service, which is constructed just below.
	var profiles session.ProfileSyncer
	if cfg.Config.Sync.Enabled && cfg.Config.Sync.BaseURL != "" {
		backend := social.NewClient(social.ClientConfig{BaseURL: cfg.Config.Sync.BaseURL})
		regen := func(ctx context.Context, userID string) (string, error) {
			return s.sessionService.RegenerateInviteCode(ctx, userID)
		}
		quiet := time.Duration(cfg.Config.Sync.DebounceMS) * time.Millisecond
		s.profileSyncer = syncer.New(backend, regen, quiet)
		profiles = s.profileSyncer
	}

	s.sessionService = session.NewService(cat, snapshots, events, profiles)

	cooldown := time.Duration(cfg.Config.Generation.CooldownMinutes) * time.Minute
	s.generateService = generate.NewService(cat, registry, cooldown)

	// Setup routes
	s.setupRoutes()

	// Create HTTP server with middleware chain
	addr := fmt.Sprintf("%s:%d", cfg.Config.Daemon.Bind, cfg.Config.Daemon.Port)
	handler := recoveryMiddleware(loggingMiddleware(correlationIDMiddleware(s.router)))
	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // generation calls block on the provider
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// setupProviders initializes configured LLM providers. Each provider is
// wrapped with the resilience stack before registration.
func (s *Server) setupProviders(registry *generate.Registry) error {
	for name, providerCfg := range s.cfg.LLM.Providers {
		if !providerCfg.Enabled {
			continue
		}

		switch name {
		case "claude":
			if providerCfg.APIKey == "" {
				slog.Debug("Claude provider enabled but no API key set")
				continue
			}
			provider := generate.NewClaudeProvider(generate.ClaudeConfig{
				APIKey: providerCfg.APIKey,
				Model:  providerCfg.Model,
			})
			registry.Register("claude", generate.NewResilientProvider(provider, generate.DefaultResilientConfig()))
			slog.Info("registered LLM provider", "name", "claude", "model", providerCfg.Model)

		case "ollama":
			provider := generate.NewOllamaProvider(generate.OllamaConfig{
				BaseURL: providerCfg.URL,
				Model:   providerCfg.Model,
			})
			registry.Register("ollama", generate.NewResilientProvider(provider, generate.DefaultResilientConfig()))
			slog.Info("registered LLM provider", "name", "ollama", "model", providerCfg.Model)
		}
	}

	if name := s.cfg.LLM.DefaultProvider; name != "" && name != "auto" {
		if err := registry.SetDefault(name); err != nil {
			slog.Warn("default provider not registered", "name", name, "error", err)
		}
	}

	return nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health & status
	s.router.HandleFunc("GET /v1/health", s.handleHealth)
	s.router.HandleFunc("GET /v1/status", s.handleStatus)

	// Catalog
	s.router.HandleFunc("GET /v1/catalog", s.handleGetCatalog)
	s.router.HandleFunc("GET /v1/catalog/nodes/{id}", s.handleGetNode)

	// Progress
	s.router.HandleFunc("GET /v1/snapshot", s.handleGetSnapshot)
	s.router.HandleFunc("GET /v1/tree", s.handleGetTree)
	s.router.HandleFunc("GET /v1/overview", s.handleGetOverview)
	s.router.HandleFunc("POST /v1/challenges/toggle", s.handleToggleChallenge)

	// Onboarding & generation
	s.router.HandleFunc("POST /v1/onboarding", s.handleCompleteOnboarding)
	s.router.HandleFunc("POST /v1/nodes/{id}/regenerate", s.handleRegenerateNode)

	// Prestige
	s.router.HandleFunc("GET /v1/prestige", s.handleGetPrestige)
	s.router.HandleFunc("POST /v1/prestige", s.handleTriggerPrestige)
	s.router.HandleFunc("POST /v1/prestige/dismiss", s.handleDismissPrestige)

	// Profile
	s.router.HandleFunc("POST /v1/bonus", s.handleAddBonusXP)
	s.router.HandleFunc("PUT /v1/profile/pro", s.handleSetProStatus)
	s.router.HandleFunc("PUT /v1/profile/name", s.handleSetDisplayName)
	s.router.HandleFunc("POST /v1/profile/invite/regenerate", s.handleRegenerateInvite)

	// Social graph
	s.router.HandleFunc("POST /v1/social/profile", s.handleSocialUpsertProfile)
	s.router.HandleFunc("POST /v1/social/requests", s.handleSocialSendRequest)
	s.router.HandleFunc("GET /v1/social/requests", s.handleSocialListRequests)
	s.router.HandleFunc("POST /v1/social/requests/{id}/accept", s.handleSocialAcceptRequest)
	s.router.HandleFunc("GET /v1/social/circle", s.handleSocialCircle)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	slog.Info("starting arcstep daemon",
		"addr", s.server.Addr,
		"llm_providers", s.registry.List(),
		"storage", s.cfg.Storage.Backend,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server and flushes pending work.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down daemon...")

	if s.profileSyncer != nil {
		s.profileSyncer.Close()
	}
	if s.queueConn != nil {
		if err := s.queueConn.Close(); err != nil {
			slog.Warn("failed to close queue connection", "error", err)
		}
	}

	err := s.server.Shutdown(ctx)

	if s.db != nil {
		if dbErr := s.db.Close(); dbErr != nil {
			slog.Warn("failed to close database", "error", dbErr)
		}
	}
	return err
}

// userID resolves the acting user for a request. The daemon is single-user
// by default; a user_id query parameter selects another snapshot.
func (s *Server) userID(r *http.Request) string {
	if id := r.URL.Query().Get("user_id"); id != "" {
		return id
	}
	return progress.DefaultUserID
}

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNodeNotFound),
		errors.Is(err, domain.ErrChallengeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, progress.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInviteCodeTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotEligible),
		errors.Is(err, domain.ErrLevelLocked),
		errors.Is(err, domain.ErrSelfFriendRequest),
		errors.Is(err, domain.ErrGenerationCooldown):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// domainError writes an error response with the status mapped from the
// domain error taxonomy.
func (s *Server) domainError(w http.ResponseWriter, message string, err error) {
	s.jsonError(w, statusForError(err), message, err)
}

// Handler implementations

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":        "running",
		"version":       "0.1.0",
		"llm_providers": s.registry.List(),
		"storage":       s.cfg.Storage.Backend,
		"queue":         s.queueConn != nil && s.queueConn.IsConnected(),
		"sync":          s.profileSyncer != nil,
	})
}

// Catalog handlers

func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"nodes":      s.catalog.Nodes(),
		"levels":     s.catalog.Levels(),
		"thresholds": s.catalog.Thresholds(),
		"ranks":      s.catalog.Ranks(),
	})
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	node, err := s.catalog.Node(r.PathValue("id"))
	if err != nil {
		s.domainError(w, "node not found", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, node)
}

// Progress handlers

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sessionService.Snapshot(s.userID(r))
	if err != nil {
		s.domainError(w, "failed to load snapshot", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

// treeChallenge is one challenge row in the tree view, with completion state.
type treeChallenge struct {
	domain.Challenge
	Done bool `json:"done"`
}

// treeNode is one node in the tree view.
type treeNode struct {
	ID          string          `json:"id"`
	DomainID    domain.DomainID `json:"domain_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Complete    bool            `json:"complete"`
	Challenges  []treeChallenge `json:"challenges"`
}

// treeLevel is one level in the tree view.
type treeLevel struct {
	Number   int        `json:"number"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle"`
	Unlocked bool       `json:"unlocked"`
	Complete bool       `json:"complete"`
	Nodes    []treeNode `json:"nodes"`
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sessionService.Snapshot(s.userID(r))
	if err != nil {
		s.domainError(w, "failed to load snapshot", err)
		return
	}

	levels := make([]treeLevel, 0, len(s.catalog.Levels()))
	for _, level := range s.catalog.Levels() {
		tl := treeLevel{
			Number:   level.Number,
			Title:    level.Title,
			Subtitle: level.Subtitle,
			Unlocked: engine.IsLevelUnlocked(s.catalog, level.Number, snap.ChallengeProgress, snap.AIChallenges),
			Complete: engine.IsLevelComplete(s.catalog, level.Number, snap.ChallengeProgress, snap.AIChallenges),
		}
		for _, node := range s.catalog.NodesForLevel(level.Number) {
			tn := treeNode{
				ID:          node.ID,
				DomainID:    node.DomainID,
				Title:       node.Title,
				Description: node.Description,
				Complete:    engine.IsNodeComplete(s.catalog, node.ID, snap.ChallengeProgress, snap.AIChallenges),
			}
			effective, err := engine.EffectiveChallenges(s.catalog, node.ID, snap.AIChallenges)
			if err != nil {
				s.domainError(w, "failed to resolve challenges", err)
				return
			}
			for _, ch := range effective {
				tn.Challenges = append(tn.Challenges, treeChallenge{
					Challenge: ch,
					Done:      snap.ChallengeProgress.Completed(ch.ID),
				})
			}
			tl.Nodes = append(tl.Nodes, tn)
		}
		levels = append(levels, tl)
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"levels": levels,
		"xp":     snap.XP,
	})
}

func (s *Server) handleGetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.sessionService.Overview(s.userID(r))
	if err != nil {
		s.domainError(w, "failed to compute overview", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, overview)
}

func (s *Server) handleToggleChallenge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NodeID      string `json:"node_id"`
		ChallengeID string `json:"challenge_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.NodeID == "" || req.ChallengeID == "" {
		s.jsonError(w, http.StatusBadRequest, "node_id and challenge_id are required", nil)
		return
	}

	outcome, err := s.sessionService.ToggleChallenge(r.Context(), s.userID(r), req.NodeID, req.ChallengeID)
	if err != nil {
		s.domainError(w, "failed to toggle challenge", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, outcome)
}

// Onboarding & generation handlers

func (s *Server) handleCompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body  string `json:"body"`
		Mind  string `json:"mind"`
		Craft string `json:"craft"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	answers := domain.OnboardingAnswers{Body: req.Body, Mind: req.Mind, Craft: req.Craft}
	if answers.Body == "" || answers.Mind == "" || answers.Craft == "" {
		s.jsonError(w, http.StatusBadRequest, "all three goals are required", nil)
		return
	}

	challenges, err := s.generateService.GenerateAll(r.Context(), answers)
	if err != nil {
		s.domainError(w, "challenge generation failed", err)
		return
	}

	snap, err := s.sessionService.CompleteOnboarding(r.Context(), s.userID(r), answers, challenges)
	if err != nil {
		s.domainError(w, "failed to complete onboarding", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

func (s *Server) handleRegenerateNode(w http.ResponseWriter, r *http.Request) {
	nodeID := r.PathValue("id")

	var req struct {
		Goal string `json:"goal"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
			return
		}
	}

	userID := s.userID(r)
	snap, err := s.sessionService.Snapshot(userID)
	if err != nil {
		s.domainError(w, "failed to load snapshot", err)
		return
	}

	goal := req.Goal
	if goal == "" && snap.OnboardingAnswers != nil {
		if node, err := s.catalog.Node(nodeID); err == nil {
			goal = snap.OnboardingAnswers.Goal(node.DomainID)
		}
	}

	challenges, err := s.generateService.GenerateNode(r.Context(), nodeID, goal, snap.LastGeneratedAt[nodeID])
	if err != nil {
		s.domainError(w, "challenge generation failed", err)
		return
	}

	updated, err := s.sessionService.SetAIChallenges(r.Context(), userID, nodeID, challenges)
	if err != nil {
		s.domainError(w, "failed to apply generated challenges", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"node_id":    nodeID,
		"challenges": challenges,
		"snapshot":   updated,
	})
}

// Prestige handlers

func (s *Server) handleGetPrestige(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sessionService.Snapshot(s.userID(r))
	if err != nil {
		s.domainError(w, "failed to load snapshot", err)
		return
	}
	ready, err := s.sessionService.PrestigeReady(s.userID(r))
	if err != nil {
		s.domainError(w, "failed to compute prestige state", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"ready":     ready,
		"count":     snap.PrestigeCount,
		"rank":      engine.PrestigeRank(s.catalog, snap.PrestigeCount).Name,
		"dismissed": snap.PrestigeDismissed,
	})
}

func (s *Server) handleTriggerPrestige(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sessionService.TriggerPrestige(r.Context(), s.userID(r))
	if err != nil {
		s.domainError(w, "prestige not available", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

func (s *Server) handleDismissPrestige(w http.ResponseWriter, r *http.Request) {
	if err := s.sessionService.DismissPrestige(r.Context(), s.userID(r)); err != nil {
		s.domainError(w, "failed to dismiss prestige", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"dismissed": true})
}

// Profile handlers

func (s *Server) handleAddBonusXP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int    `json:"amount"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Amount == 0 {
		s.jsonError(w, http.StatusBadRequest, "amount must be non-zero", nil)
		return
	}

	snap, err := s.sessionService.AddBonusXP(r.Context(), s.userID(r), req.Amount, req.Reason)
	if err != nil {
		s.domainError(w, "failed to grant bonus xp", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

func (s *Server) handleSetProStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsPro bool `json:"is_pro"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := s.sessionService.SetProStatus(r.Context(), s.userID(r), req.IsPro); err != nil {
		s.domainError(w, "failed to update pro status", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"is_pro": req.IsPro})
}

func (s *Server) handleSetDisplayName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := s.sessionService.UpdateDisplayName(r.Context(), s.userID(r), req.DisplayName); err != nil {
		s.domainError(w, "failed to update display name", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"display_name": req.DisplayName})
}

func (s *Server) handleRegenerateInvite(w http.ResponseWriter, r *http.Request) {
	code, err := s.sessionService.RegenerateInviteCode(r.Context(), s.userID(r))
	if err != nil {
		s.domainError(w, "failed to regenerate invite code", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"invite_code": code})
}

// Social handlers

func (s *Server) handleSocialUpsertProfile(w http.ResponseWriter, r *http.Request) {
	var user social.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if user.ID == "" || user.InviteCode == "" {
		s.jsonError(w, http.StatusBadRequest, "id and invite_code are required", nil)
		return
	}

	if err := s.socialService.UpsertProfile(r.Context(), &user); err != nil {
		s.domainError(w, "failed to upsert profile", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"updated": true})
}

func (s *Server) handleSocialSendRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromUserID   string `json:"from_user_id"`
		ToInviteCode string `json:"to_invite_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.FromUserID == "" || req.ToInviteCode == "" {
		s.jsonError(w, http.StatusBadRequest, "from_user_id and to_invite_code are required", nil)
		return
	}

	status, err := s.socialService.SendFriendRequest(r.Context(), req.FromUserID, req.ToInviteCode)
	if err != nil {
		s.domainError(w, "failed to send friend request", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"status": status})
}

func (s *Server) handleSocialListRequests(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.jsonError(w, http.StatusBadRequest, "user_id is required", nil)
		return
	}

	requests, err := s.socialService.ListRequests(r.Context(), userID)
	if err != nil {
		s.domainError(w, "failed to list requests", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

func (s *Server) handleSocialAcceptRequest(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")

	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.UserID == "" {
		s.jsonError(w, http.StatusBadRequest, "user_id is required", nil)
		return
	}

	if err := s.socialService.AcceptFriendRequest(r.Context(), req.UserID, requestID); err != nil {
		s.domainError(w, "failed to accept friend request", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"accepted": true})
}

func (s *Server) handleSocialCircle(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.jsonError(w, http.StatusBadRequest, "user_id is required", nil)
		return
	}

	entries, err := s.socialService.CircleStats(r.Context(), userID)
	if err != nil {
		s.domainError(w, "failed to compute circle stats", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"circle": entries})
}

// JSON helpers

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	s.jsonResponse(w, status, response)
}
