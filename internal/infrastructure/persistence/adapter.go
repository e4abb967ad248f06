package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"
	"token-research.backend/internal/domain/entities"
	domainerrors "token-research.backend/internal/domain/errors"
	"token-research.backend/internal/domain/repositories"
	"token-research.backend/internal/infrastructure/metrics"
	"token-research.backend/pkg/logger"
)

// Slot names
const (
	SlotTokens = "tokens"
	SlotNotes  = "notes"
)

const (
	keyPrefix = "token-research"
	// SchemaVersion is part of every slot key. Data written under another
	// version is never read; bump it for incompatible format changes.
	SchemaVersion = "v1"
)

// SlotKey returns the storage key of a slot for the current schema version
func SlotKey(slot string) string {
	return keyPrefix + ":" + slot + ":" + SchemaVersion
}

// Adapter is the best-effort persistence layer for the two durable slots.
// Loads report absence instead of failing; saves log and swallow errors.
type Adapter struct {
	store   repositories.SlotStore
	timeout time.Duration
}

// NewAdapter creates a new adapter. A zero timeout leaves ctx deadlines untouched.
func NewAdapter(store repositories.SlotStore, timeout time.Duration) *Adapter {
	return &Adapter{store: store, timeout: timeout}
}

func (a *Adapter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.timeout)
}

// LoadTokens returns the saved token collection, or false when the slot is
// missing, unparsable, not a JSON array, or violates id uniqueness.
func (a *Adapter) LoadTokens(ctx context.Context) ([]*entities.Token, bool) {
	raw, ok := a.load(ctx, SlotTokens)
	if !ok {
		return nil, false
	}

	tokens, err := decodeTokens(raw)
	if err != nil {
		a.corrupt(ctx, SlotTokens, err)
		return nil, false
	}
	metrics.ObserveLoad(SlotTokens, metrics.LoadOK)
	return tokens, true
}

// LoadNotes returns the saved notes, or false when the slot is missing,
// unparsable, or not a JSON object of token id to text.
func (a *Adapter) LoadNotes(ctx context.Context) (map[int]string, bool) {
	raw, ok := a.load(ctx, SlotNotes)
	if !ok {
		return nil, false
	}

	notes, err := decodeNotes(raw)
	if err != nil {
		a.corrupt(ctx, SlotNotes, err)
		return nil, false
	}
	metrics.ObserveLoad(SlotNotes, metrics.LoadOK)
	return notes, true
}

// SaveTokens serializes and writes the token collection
func (a *Adapter) SaveTokens(ctx context.Context, tokens []*entities.Token) {
	if tokens == nil {
		tokens = []*entities.Token{}
	}
	a.save(ctx, SlotTokens, tokens)
}

// SaveNotes serializes and writes the notes mapping
func (a *Adapter) SaveNotes(ctx context.Context, notes map[int]string) {
	if notes == nil {
		notes = map[int]string{}
	}
	a.save(ctx, SlotNotes, notes)
}

// Clear deletes both slots. Failures are logged only.
func (a *Adapter) Clear(ctx context.Context) {
	for _, slot := range []string{SlotTokens, SlotNotes} {
		opCtx, cancel := a.withTimeout(ctx)
		err := a.store.Delete(opCtx, SlotKey(slot))
		cancel()

		metrics.ObserveWrite(slot, metrics.OpClear, err)
		if err != nil {
			logger.Warn(ctx, "Failed to clear slot", zap.String("slot", slot), zap.Error(err))
		}
	}
}

func (a *Adapter) load(ctx context.Context, slot string) ([]byte, bool) {
	opCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	raw, err := a.store.Get(opCtx, SlotKey(slot))
	if err != nil {
		if errors.Is(err, domainerrors.ErrSlotAbsent) {
			metrics.ObserveLoad(slot, metrics.LoadAbsent)
			return nil, false
		}
		metrics.ObserveLoad(slot, metrics.LoadError)
		logger.Warn(ctx, "Failed to read slot, using defaults", zap.String("slot", slot), zap.Error(err))
		return nil, false
	}
	return []byte(raw), true
}

func (a *Adapter) corrupt(ctx context.Context, slot string, err error) {
	metrics.ObserveLoad(slot, metrics.LoadCorrupt)
	logger.Warn(ctx, "Ignoring corrupt slot, using defaults", zap.String("slot", slot), zap.Error(err))
}

func (a *Adapter) save(ctx context.Context, slot string, value interface{}) {
	data, err := json.Marshal(value)
	if err == nil {
		opCtx, cancel := a.withTimeout(ctx)
		err = a.store.Set(opCtx, SlotKey(slot), string(data))
		cancel()
	}

	metrics.ObserveWrite(slot, metrics.OpSave, err)
	if err != nil {
		logger.Warn(ctx, "Failed to save slot", zap.String("slot", slot), zap.Error(err))
	}
}

var (
	errNotArray     = errors.New("tokens slot is not a JSON array")
	errNotObject    = errors.New("notes slot is not a JSON object")
	errNullToken    = errors.New("tokens slot contains null entry")
	errDuplicateID  = errors.New("tokens slot contains duplicate ids")
	errTokenID      = errors.New("tokens slot contains an id outside 1..MaxInt-1")
	errNoteKey      = errors.New("notes slot key is not a canonical token id")
	errNoteValue    = errors.New("notes slot value is not a string")
	errChecklistIDs = errors.New("token checklist contains duplicate item ids")
)

func decodeTokens(raw []byte) ([]*entities.Token, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, errNotArray
	}

	var tokens []*entities.Token
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(tokens))
	for _, t := range tokens {
		if t == nil {
			return nil, errNullToken
		}
		if t.ID < 1 || t.ID == math.MaxInt {
			return nil, errTokenID
		}
		if _, dup := seen[t.ID]; dup {
			return nil, errDuplicateID
		}
		seen[t.ID] = struct{}{}
		if !t.HasUniqueChecklist() {
			return nil, errChecklistIDs
		}
		if t.Thesis == nil {
			t.Thesis = []string{}
		}
		if t.Risks == nil {
			t.Risks = []string{}
		}
		if t.Checklist == nil {
			t.Checklist = []entities.ChecklistItem{}
		}
	}
	if tokens == nil {
		tokens = []*entities.Token{}
	}
	return tokens, nil
}

func decodeNotes(raw []byte) (map[int]string, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return nil, errNotObject
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}

	notes := make(map[int]string, len(entries))
	for key, value := range entries {
		id, err := strconv.Atoi(key)
		if err != nil || strconv.Itoa(id) != key {
			return nil, errNoteKey
		}
		if !bytes.HasPrefix(bytes.TrimSpace(value), []byte(`"`)) {
			return nil, errNoteValue
		}
		var text string
		if err := json.Unmarshal(value, &text); err != nil {
			return nil, err
		}
		notes[id] = text
	}
	return notes, nil
}
