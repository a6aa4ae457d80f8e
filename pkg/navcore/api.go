// Package navcore is the public entry point for the obstacle-avoidance
// decision engine: construct a Client, Init it, then call Decide once per
// control tick and Feedback when the outcome of a decision is known.
package navcore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"navcore/internal/concept"
	"navcore/internal/engine"
	"navcore/internal/learning"
	"navcore/internal/model"
	"navcore/internal/storage"
	"navcore/internal/vector"
)

const (
	defaultDBPath     = "navcore.db"
	defaultLearningID = "learning"
)

// Re-exported engine types so callers do not import internal packages.
type (
	SensorReading = model.SensorReading
	Decision      = model.Decision
	Config        = engine.Config
)

var ErrNotInitialized = errors.New("client is not initialized")

type Options struct {
	StoreKind string
	DBPath    string
	ModelName string
	Config    *Config
	Logger    *slog.Logger
}

// Client wires storage, the concept model, learning state and the engine
// together for one session. Each client gets a fresh session ID.
type Client struct {
	store     storage.Store
	modelName string
	cfg       Config
	logger    *slog.Logger
	sessionID string

	engine   *engine.Engine
	learning *learning.Store
	concepts *concept.Store
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	modelName := opts.ModelName
	if modelName == "" {
		modelName = concept.DefaultModelName
	}
	cfg := engine.DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:     store,
		modelName: modelName,
		cfg:       cfg,
		logger:    logger,
		sessionID: uuid.NewString(),
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) SessionID() string {
	return c.sessionID
}

// Init opens the store, loads the concept model and learning state, and
// builds the engine. A missing concept model is logged and tolerated: the
// engine then runs on rules and maneuvers alone until Bootstrap is called
// and Init is run again.
func (c *Client) Init(ctx context.Context) error {
	if err := c.store.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	concepts := concept.Empty()
	m, ok, err := c.store.GetConceptModel(ctx, c.modelName)
	if err != nil {
		return fmt.Errorf("load concept model: %w", err)
	}
	if ok {
		concepts, err = concept.NewStore(m)
		if err != nil {
			return fmt.Errorf("build concept store: %w", err)
		}
	} else {
		c.logger.Warn("concept model missing, run bootstrap to create it", "model", c.modelName)
	}

	learn := learning.NewStore(c.store, defaultLearningID, c.sessionID)
	if err := learn.Load(ctx); err != nil {
		return err
	}

	eng, err := engine.New(c.cfg, concepts, learn, c.logger)
	if err != nil {
		return err
	}

	c.concepts = concepts
	c.learning = learn
	c.engine = eng
	return nil
}

// Bootstrap vectorizes the built-in situation prototypes and saves them as
// the concept model. Call Init afterwards to pick the model up.
func (c *Client) Bootstrap(ctx context.Context) (int, error) {
	if err := c.store.Init(ctx); err != nil {
		return 0, fmt.Errorf("init store: %w", err)
	}
	v := vector.NewVectorizer(c.cfg.Rules.MaxRange)
	m := concept.BootstrapModel(v, storage.CurrentSchemaVersion, storage.CurrentCodecVersion)
	m.Name = c.modelName
	if err := c.store.SaveConceptModel(ctx, m); err != nil {
		return 0, fmt.Errorf("save concept model: %w", err)
	}
	return len(m.Concepts), nil
}

// Decide runs one arbitration cycle.
func (c *Client) Decide(reading SensorReading) (Decision, error) {
	if c.engine == nil {
		return Decision{}, ErrNotInitialized
	}
	return c.engine.Decide(reading), nil
}

// Feedback reports the outcome of the latest decision. Category may be
// empty to use the decision's own category.
func (c *Client) Feedback(ctx context.Context, success bool, category string) error {
	if c.engine == nil {
		return ErrNotInitialized
	}
	return c.engine.Feedback(ctx, success, model.Category(category))
}

// Save forces a learning-state save outside the feedback throttle.
func (c *Client) Save(ctx context.Context) error {
	if c.engine == nil {
		return ErrNotInitialized
	}
	return c.engine.Save(ctx)
}

// Stats is the engine snapshot plus the session identity.
type Stats struct {
	engine.Stats
	SessionID string `json:"session_id"`
}

func (c *Client) Stats() (Stats, error) {
	if c.engine == nil {
		return Stats{}, ErrNotInitialized
	}
	return Stats{Stats: c.engine.Stats(), SessionID: c.sessionID}, nil
}

// ConceptInfo describes one loaded concept.
type ConceptInfo struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Concepts lists the loaded concept model's entries.
func (c *Client) Concepts(ctx context.Context) ([]ConceptInfo, error) {
	m, ok, err := c.store.GetConceptModel(ctx, c.modelName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	infos := make([]ConceptInfo, 0, len(m.Concepts))
	for _, entry := range m.Concepts {
		infos = append(infos, ConceptInfo{Name: entry.Name, Category: string(entry.Category)})
	}
	return infos, nil
}

// Weights returns the per-category confidence weights.
func (c *Client) Weights() (map[string]float64, error) {
	if c.learning == nil {
		return nil, ErrNotInitialized
	}
	return c.learning.Weights(), nil
}

// Vectors returns the names of the online-learned vectors.
func (c *Client) Vectors() ([]string, error) {
	if c.learning == nil {
		return nil, ErrNotInitialized
	}
	return c.learning.VectorNames(), nil
}

// Reset clears per-session engine state. Learned weights persist.
func (c *Client) Reset() error {
	if c.engine == nil {
		return ErrNotInitialized
	}
	c.engine.Reset()
	return nil
}

// ResetLearning discards all learned weights and vectors, both in memory
// and in the store.
func (c *Client) ResetLearning(ctx context.Context) error {
	if err := c.store.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	fresh := learning.NewStore(c.store, defaultLearningID, c.sessionID)
	if err := fresh.Save(ctx); err != nil {
		return err
	}
	if c.engine != nil {
		return c.Init(ctx)
	}
	return nil
}
