package api

import (
	"errors"
	"net/http"

	"autoshop/internal/domain/identity"
	reqdto "autoshop/internal/handler/dto/request"
	resdto "autoshop/internal/handler/dto/response"
	"autoshop/internal/handler/httperr"
	"autoshop/internal/handler/middleware"
	"autoshop/internal/pkg/errs"
	"autoshop/internal/usecase/commands"
	"autoshop/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	errMissingIdentity = errs.New("request identity not resolved")
	errInvalidItemID   = errs.New("invalid item id")
)

type AutoShopHandler struct {
	commands commands.AutoShopCommands
	queries  queries.AutoShopQueries
}

func NewAutoShopHandler(commands commands.AutoShopCommands, queries queries.AutoShopQueries) *AutoShopHandler {
	return &AutoShopHandler{
		commands: commands,
		queries:  queries,
	}
}

// @Summary Save settings and start
// @Description Validates the settings and starts AutoShop with them unless a session is already active
// @Tags autoshop
// @Accept json
// @Produce json
// @Param request body reqdto.SettingsRequest true "AutoShop settings"
// @Success 200 {object} resdto.StartResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/autoshop/settings [post]
func (h *AutoShopHandler) SaveSettings(c *gin.Context) {
	key, ok := h.userKey(c)
	if !ok {
		return
	}

	var req reqdto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	settings, err := req.ToDomain()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	res, err := h.commands.Start(c.Request.Context(), key, &settings)
	if err != nil {
		h.handleCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, startResponse(res))
}

// @Summary Start AutoShop
// @Description Starts AutoShop with the last used settings, or the defaults for a first session
// @Tags autoshop
// @Produce json
// @Success 200 {object} resdto.StartResponse
// @Failure 500 {object} httperr.Response
// @Router /api/autoshop/start [post]
func (h *AutoShopHandler) Start(c *gin.Context) {
	key, ok := h.userKey(c)
	if !ok {
		return
	}

	res, err := h.commands.Start(c.Request.Context(), key, nil)
	if err != nil {
		h.handleCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, startResponse(res))
}

// @Summary Stop AutoShop
// @Description Cancels the timer and refunds every pending item
// @Tags autoshop
// @Produce json
// @Success 200 {object} resdto.StopResponse
// @Failure 500 {object} httperr.Response
// @Router /api/autoshop/stop [post]
func (h *AutoShopHandler) Stop(c *gin.Context) {
	key, ok := h.userKey(c)
	if !ok {
		return
	}

	res, err := h.commands.Stop(c.Request.Context(), key)
	if err != nil {
		h.handleCommandError(c, err)
		return
	}

	msg := "AutoShop stopped"
	switch {
	case res.Session == nil:
		msg = "AutoShop was not started"
	case res.Finalized:
		msg = "AutoShop session had already ended"
	}
	c.JSON(http.StatusOK, resdto.StopResponse{
		ActionResponse: resdto.ActionResponse{Success: true, Message: msg},
		Refunded:       res.Refunded,
		RefundedCoins:  res.RefundedCoins,
		Settled:        res.Settled,
		Finalized:      res.Finalized,
	})
}

// @Summary Clear pending items
// @Description Rejects every pending recommendation and refunds its coins
// @Tags autoshop
// @Produce json
// @Success 200 {object} resdto.ClearResponse
// @Failure 500 {object} httperr.Response
// @Router /api/autoshop/clear [post]
func (h *AutoShopHandler) Clear(c *gin.Context) {
	key, ok := h.userKey(c)
	if !ok {
		return
	}

	res, err := h.commands.Clear(c.Request.Context(), key)
	if err != nil {
		h.handleCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.ClearResponse{
		ActionResponse: resdto.ActionResponse{Success: true, Message: "Pending items cleared"},
		Rejected:       res.Rejected,
		RefundedCoins:  res.RefundedCoins,
	})
}

// @Summary Remove item
// @Description Rejects a pending recommendation and refunds its coins
// @Tags autoshop
// @Produce json
// @Param id path string true "Recommendation ID"
// @Success 200 {object} resdto.ItemResponse
// @Failure 404 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/autoshop/item/{id} [delete]
func (h *AutoShopHandler) RemoveItem(c *gin.Context) {
	key, ok := h.userKey(c)
	if !ok {
		return
	}
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	res, err := h.commands.RemoveItem(c.Request.Context(), key, id)
	if err != nil {
		h.handleCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, itemResponse(res, "Item removed"))
}

// @Summary Add item to cart
// @Description Spends the item's reserved coins and moves it to the cart
// @Tags autoshop
// @Produce json
// @Param id path string true "Recommendation ID"
// @Success 200 {object} resdto.ItemResponse
// @Failure 404 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/autoshop/item/{id}/cart [post]
func (h *AutoShopHandler) AddToCart(c *gin.Context) {
	key, ok := h.userKey(c)
	if !ok {
		return
	}
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	res, err := h.commands.AddToCart(c.Request.Context(), key, id)
	if err != nil {
		h.handleCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, itemResponse(res, "Item added to cart"))
}

// @Summary Pending items
// @Tags autoshop
// @Produce json
// @Success 200 {object} resdto.ListResponse
// @Failure 500 {object} httperr.Response
// @Router /api/autoshop/pending [get]
func (h *AutoShopHandler) Pending(c *gin.Context) {
	key, ok := h.userKey(c)
	if !ok {
		return
	}

	views, err := h.queries.PendingList(c.Request.Context(), key)
	if err != nil {
		h.handleQueryError(c, err)
		return
	}
	h.writeList(c, views)
}

// @Summary Purchase history
// @Tags autoshop
// @Produce json
// @Success 200 {object} resdto.ListResponse
// @Failure 500 {object} httperr.Response
// @Router /api/autoshop/history [get]
func (h *AutoShopHandler) History(c *gin.Context) {
	key, ok := h.userKey(c)
	if !ok {
		return
	}

	views, err := h.queries.HistoryList(c.Request.Context(), key)
	if err != nil {
		h.handleQueryError(c, err)
		return
	}
	h.writeList(c, views)
}

// @Summary AutoShop status
// @Tags autoshop
// @Produce json
// @Success 200 {object} resdto.StatusResponse
// @Failure 500 {object} httperr.Response
// @Router /api/autoshop/status [get]
func (h *AutoShopHandler) Status(c *gin.Context) {
	key, ok := h.userKey(c)
	if !ok {
		return
	}

	view, err := h.queries.Status(c.Request.Context(), key)
	if err != nil {
		h.handleQueryError(c, err)
		return
	}
	resp, err := resdto.FromStatusView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Coin balance
// @Tags autoshop
// @Produce json
// @Success 200 {object} resdto.BalanceResponse
// @Failure 500 {object} httperr.Response
// @Router /api/autoshop/balance [get]
func (h *AutoShopHandler) Balance(c *gin.Context) {
	key, ok := h.userKey(c)
	if !ok {
		return
	}

	view, err := h.queries.Balance(c.Request.Context(), key)
	if err != nil {
		h.handleQueryError(c, err)
		return
	}
	resp, err := resdto.FromBalanceView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AutoShopHandler) userKey(c *gin.Context) (identity.UserKey, bool) {
	key, ok := middleware.GetUserKey(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingIdentity, "Internal server error", nil)
		return identity.UserKey{}, false
	}
	return key, true
}

// an id that is not a UUID cannot name any item
func (h *AutoShopHandler) itemID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusNotFound, errs.Mark(err, errInvalidItemID), "Item not found", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *AutoShopHandler) writeList(c *gin.Context, views []*queries.RecommendationView) {
	resp, err := resdto.FromRecommendationViews(views)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AutoShopHandler) handleCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrInvalidSettings):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid settings", nil)
	case errors.Is(err, commands.ErrItemNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Item not found", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func (h *AutoShopHandler) handleQueryError(c *gin.Context, err error) {
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}

func startResponse(res *commands.StartResult) resdto.StartResponse {
	msg := "AutoShop started"
	if res.AlreadyActive {
		msg = "AutoShop is already running"
	}
	return resdto.StartResponse{
		ActionResponse: resdto.ActionResponse{Success: true, Message: msg},
		Session:        resdto.FromSession(res.Session),
		AlreadyActive:  res.AlreadyActive,
		FirstTick:      string(res.FirstTick),
	}
}

func itemResponse(res *commands.ItemResult, msg string) resdto.ItemResponse {
	if !res.Changed {
		msg = "Item was already resolved"
	}
	return resdto.ItemResponse{
		ActionResponse: resdto.ActionResponse{Success: true, Message: msg},
		Item:           resdto.FromRecommendation(res.Item),
		Changed:        res.Changed,
	}
}
