package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okim/optionlogic-backend/internal/app/model"
	"github.com/okim/optionlogic-backend/internal/app/repository"
	"github.com/okim/optionlogic-backend/internal/app/rules"
	"github.com/okim/optionlogic-backend/pkg/logger"
	"gorm.io/gorm"
)

// SnapshotCache holds serialized option set snapshots between evaluations.
// All methods must be safe to fail; the service falls back to the database.
type SnapshotCache interface {
	Get(ctx context.Context, setID uint) ([]byte, error)
	Set(ctx context.Context, setID uint, payload []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, setID uint) error
}

// Snapshot is the stable view of one option set an evaluation pass runs
// against: options with their values, plus the active rules in apply order.
type Snapshot struct {
	SetID   uint           `json:"set_id"`
	Options []model.Option `json:"options"`
	Rules   []model.Rule   `json:"rules"`
}

// ValueStore returns the per-option value lookup the price calculator needs.
func (s *Snapshot) ValueStore() rules.ValueStore {
	store := make(rules.MapValueStore, len(s.Options))
	for _, option := range s.Options {
		store[option.ID] = option.Values
	}
	return store
}

// PriceQuote is the storefront price breakdown for a selection state.
type PriceQuote struct {
	BasePrice     float64 `json:"base_price"`
	ValueModifier float64 `json:"value_modifier"`
	RuleModifier  float64 `json:"rule_modifier"`
	Total         float64 `json:"total"`
}

// ValidationResult reports per-option submission problems.
type ValidationResult struct {
	Valid  bool            `json:"valid"`
	Errors map[uint]string `json:"errors,omitempty"`
}

// UpdateNotifier is told when a set's snapshot is invalidated so live
// storefront sessions can refresh their evaluation state.
type UpdateNotifier interface {
	NotifySetUpdated(setID uint)
}

type EvaluationService interface {
	Evaluate(ctx context.Context, setID uint, selections rules.Selections) (*rules.AggregateEffect, error)
	Price(ctx context.Context, setID, productID uint, selections rules.Selections) (*PriceQuote, error)
	Validate(ctx context.Context, setID uint, selections rules.Selections) (*ValidationResult, error)
	InvalidateSnapshot(ctx context.Context, setID uint)
	SetUpdateNotifier(n UpdateNotifier)
}

type evaluationService struct {
	setRepo     repository.OptionSetRepository
	optionRepo  repository.OptionRepository
	ruleRepo    repository.RuleRepository
	productRepo repository.ProductRepository
	cache       SnapshotCache
	cacheTTL    time.Duration
	notifier    UpdateNotifier
}

// NewEvaluationService builds the service. cache may be nil, which disables
// snapshot caching entirely.
func NewEvaluationService(
	setRepo repository.OptionSetRepository,
	optionRepo repository.OptionRepository,
	ruleRepo repository.RuleRepository,
	productRepo repository.ProductRepository,
	cache SnapshotCache,
	cacheTTL time.Duration,
) EvaluationService {
	return &evaluationService{
		setRepo:     setRepo,
		optionRepo:  optionRepo,
		ruleRepo:    ruleRepo,
		productRepo: productRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

// snapshot loads the evaluation view of a set, preferring the cache. Cache
// failures degrade to a database read, never to an error.
func (s *evaluationService) snapshot(ctx context.Context, setID uint) (*Snapshot, error) {
	if s.cache != nil {
		payload, err := s.cache.Get(ctx, setID)
		if err != nil {
			logger.Warn("Snapshot cache read failed, falling back to database", map[string]interface{}{
				"option_set_id": setID,
				"error":         err.Error(),
			})
		} else if payload != nil {
			var snap Snapshot
			if err := json.Unmarshal(payload, &snap); err == nil {
				return &snap, nil
			}
			logger.Warn("Discarding corrupt snapshot cache entry", map[string]interface{}{
				"option_set_id": setID,
			})
		}
	}

	set, err := s.setRepo.FindByID(setID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionSetNotFound
		}
		return nil, err
	}
	if set.Status != model.StatusActive {
		return nil, ErrOptionSetNotFound
	}

	options, err := s.optionRepo.FindBySetID(setID)
	if err != nil {
		return nil, err
	}
	ruleList, err := s.ruleRepo.FindActiveBySetID(setID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{SetID: setID, Options: options, Rules: ruleList}

	if s.cache != nil {
		if payload, err := json.Marshal(snap); err == nil {
			if err := s.cache.Set(ctx, setID, payload, s.cacheTTL); err != nil {
				logger.Warn("Snapshot cache write failed", map[string]interface{}{
					"option_set_id": setID,
					"error":         err.Error(),
				})
			}
		}
	}
	return snap, nil
}

func (s *evaluationService) Evaluate(ctx context.Context, setID uint, selections rules.Selections) (*rules.AggregateEffect, error) {
	snap, err := s.snapshot(ctx, setID)
	if err != nil {
		return nil, err
	}

	effect := rules.Apply(snap.Rules, selections)

	logger.Debug("Evaluated option set rules", map[string]interface{}{
		"option_set_id":    setID,
		"rules":            len(snap.Rules),
		"hidden_options":   len(effect.HiddenOptions),
		"required_options": len(effect.RequiredOptions),
	})
	return &effect, nil
}

// Price quotes base price plus option value modifiers plus rule price
// effects, with the total clamped at zero.
func (s *evaluationService) Price(ctx context.Context, setID, productID uint, selections rules.Selections) (*PriceQuote, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	snap, err := s.snapshot(ctx, setID)
	if err != nil {
		return nil, err
	}

	effect := rules.Apply(snap.Rules, selections)
	valueModifier := rules.TotalModifier(selections, snap.ValueStore())

	total := product.BasePrice + valueModifier + effect.PriceModifier
	if total < 0 {
		total = 0
	}

	return &PriceQuote{
		BasePrice:     product.BasePrice,
		ValueModifier: valueModifier,
		RuleModifier:  effect.PriceModifier,
		Total:         total,
	}, nil
}

// Validate checks a submission against effective visibility and requirement
// state. Hidden options are exempt from every check, including required.
func (s *evaluationService) Validate(ctx context.Context, setID uint, selections rules.Selections) (*ValidationResult, error) {
	snap, err := s.snapshot(ctx, setID)
	if err != nil {
		return nil, err
	}

	effect := rules.Apply(snap.Rules, selections)
	result := &ValidationResult{Valid: true, Errors: make(map[uint]string)}

	for i := range snap.Options {
		option := &snap.Options[i]
		if option.Status != model.StatusActive || effect.OptionHidden(option.ID) {
			continue
		}

		selected := selections[option.ID]
		required := option.Required || effect.OptionRequired(option.ID)

		if selected.IsEmpty() {
			if required {
				result.Errors[option.ID] = fmt.Sprintf("%s is required", option.Name)
			}
			continue
		}

		if option.IsMultiple() {
			count := len(selected.List())
			if !selected.IsList() {
				count = 1
			}
			if option.MinSelection > 0 && count < option.MinSelection {
				result.Errors[option.ID] = fmt.Sprintf("%s needs at least %d selections", option.Name, option.MinSelection)
				continue
			}
			if option.MaxSelection > 0 && count > option.MaxSelection {
				result.Errors[option.ID] = fmt.Sprintf("%s allows at most %d selections", option.Name, option.MaxSelection)
				continue
			}
		}

		// a selection pointing at a hidden value is invalid
		if option.HasValues() {
			for _, value := range option.Values {
				if effect.ValueHidden(option.ID, value.Value) && selected.Has(value.Value) {
					result.Errors[option.ID] = fmt.Sprintf("%s has an unavailable selection", option.Name)
					break
				}
			}
		}
	}

	if len(result.Errors) > 0 {
		result.Valid = false
	}
	return result, nil
}

// InvalidateSnapshot drops the cached snapshot after a writer path touches
// the set. Failures only log; the entry expires by TTL regardless.
func (s *evaluationService) InvalidateSnapshot(ctx context.Context, setID uint) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, setID); err != nil {
			logger.Warn("Snapshot invalidation failed", map[string]interface{}{
				"option_set_id": setID,
				"error":         err.Error(),
			})
		}
	}
	if s.notifier != nil {
		s.notifier.NotifySetUpdated(setID)
	}
}

// SetUpdateNotifier attaches the live session notifier. Wired at startup
// after the websocket hub exists.
func (s *evaluationService) SetUpdateNotifier(n UpdateNotifier) {
	s.notifier = n
}
