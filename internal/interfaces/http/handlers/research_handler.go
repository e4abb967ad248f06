package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"token-research.backend/internal/domain/entities"
	domainerrors "token-research.backend/internal/domain/errors"
	"token-research.backend/internal/interfaces/http/response"
	"token-research.backend/internal/usecases"
	"token-research.backend/pkg/utils"
)

// ResearchHandler delivers presentation intents to the research store.
// The store handles one intent at a time, so every request holds mu.
type ResearchHandler struct {
	mu    sync.Mutex
	store *usecases.ResearchStore
}

// NewResearchHandler creates a new research handler
func NewResearchHandler(store *usecases.ResearchStore) *ResearchHandler {
	return &ResearchHandler{store: store}
}

type stateResponse struct {
	Navigation    entities.Navigation `json:"navigation"`
	SelectedToken *entities.Token     `json:"selectedToken"`
	Empty         bool                `json:"empty"`
	Tokens        []*entities.Token   `json:"tokens"`
}

type noteRequest struct {
	Note *string `json:"note"`
}

type searchRequest struct {
	Query string `json:"query"`
}

// state must be called with mu held
func (h *ResearchHandler) state() stateResponse {
	nav := h.store.Navigation()
	selected := h.store.SelectedToken()
	return stateResponse{
		Navigation:    nav,
		SelectedToken: selected,
		Empty:         nav.View == entities.ViewDetail && selected == nil,
		Tokens:        nonNilTokens(h.store.FilteredTokens()),
	}
}

// GetState returns navigation, the selected token and the filtered list
// GET /api/v1/state
func (h *ResearchHandler) GetState(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	response.Success(c, http.StatusOK, h.state())
}

// ListTokens lists tokens matching q, or the current search query when q is omitted
// GET /api/v1/tokens?q=&page=&limit=
func (h *ResearchHandler) ListTokens(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	params := utils.GetPaginationParams(page, limit)

	h.mu.Lock()
	var tokens []*entities.Token
	if q, ok := c.GetQuery("q"); ok {
		tokens = usecases.FilterTokens(h.store.Tokens(), q)
	} else {
		tokens = h.store.FilteredTokens()
	}
	h.mu.Unlock()

	total := int64(len(tokens))
	response.Success(c, http.StatusOK, gin.H{
		"items": nonNilTokens(utils.Paginate(tokens, params)),
		"meta":  utils.CalculateMeta(total, params.Page, params.Limit),
	})
}

// CreateToken adds a token from the new-token form
// POST /api/v1/tokens
func (h *ResearchHandler) CreateToken(c *gin.Context) {
	var in entities.NewTokenInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, domainerrors.BadRequest("invalid request body"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	token, err := h.store.SubmitNew(writeContext(c), in)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidInput) {
			response.Error(c, domainerrors.BadRequest("name, ticker, chain and category are required"))
			return
		}
		response.Error(c, domainerrors.InternalError(err))
		return
	}
	response.Success(c, http.StatusCreated, token)
}

// ToggleChecklistItem flips one checklist item. Unknown ids are a no-op.
// POST /api/v1/tokens/:id/checklist/:itemId/toggle
func (h *ResearchHandler) ToggleChecklistItem(c *gin.Context) {
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.store.ToggleChecklist(writeContext(c), id, c.Param("itemId"))
	response.Success(c, http.StatusOK, gin.H{"token": h.store.Token(id)})
}

// GetNote returns the research note for a token
// GET /api/v1/tokens/:id/notes
func (h *ResearchHandler) GetNote(c *gin.Context) {
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}

	h.mu.Lock()
	note, exists := h.store.Note(id)
	h.mu.Unlock()

	response.Success(c, http.StatusOK, gin.H{"note": note, "exists": exists})
}

// PutNote replaces the research note for a token
// PUT /api/v1/tokens/:id/notes
func (h *ResearchHandler) PutNote(c *gin.Context) {
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Note == nil {
		response.Error(c, domainerrors.BadRequest("note is required"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.store.SaveResearchOutput(writeContext(c), id, *req.Note)
	response.Success(c, http.StatusOK, gin.H{"note": *req.Note, "exists": true})
}

// Select opens the detail view
// POST /api/v1/navigation/select/:id
func (h *ResearchHandler) Select(c *gin.Context) {
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.store.Select(writeContext(c), id)
	response.Success(c, http.StatusOK, h.state())
}

// Back returns to the list view
// POST /api/v1/navigation/back
func (h *ResearchHandler) Back(c *gin.Context) {
	h.navigate(c, h.store.Back)
}

// OpenNew shows the new-token form
// POST /api/v1/navigation/new
func (h *ResearchHandler) OpenNew(c *gin.Context) {
	h.navigate(c, h.store.OpenNew)
}

// Cancel abandons the new-token form
// POST /api/v1/navigation/cancel
func (h *ResearchHandler) Cancel(c *gin.Context) {
	h.navigate(c, h.store.Cancel)
}

// SetSearch replaces the search query
// PUT /api/v1/navigation/search
func (h *ResearchHandler) SetSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest("invalid request body"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.store.SetSearchQuery(req.Query)
	response.Success(c, http.StatusOK, h.state())
}

// Reset deletes saved data and restores the starter tokens
// POST /api/v1/reset
func (h *ResearchHandler) Reset(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.store.ResetDemoData(writeContext(c))
	response.Success(c, http.StatusOK, h.state())
}

func (h *ResearchHandler) navigate(c *gin.Context, intent func(ctx context.Context)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	intent(writeContext(c))
	response.Success(c, http.StatusOK, h.state())
}

// writeContext keeps request values for logging but drops cancellation, so a
// client that disconnects mid-request cannot abort a slot write after the
// in-memory state has already changed. STORAGE_TIMEOUT still bounds the write.
func writeContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func tokenIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid token id"))
		return 0, false
	}
	return id, true
}

func nonNilTokens(tokens []*entities.Token) []*entities.Token {
	if tokens == nil {
		return []*entities.Token{}
	}
	return tokens
}
