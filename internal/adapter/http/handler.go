package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"emberdelve/internal/app/game"
	"emberdelve/internal/app/ports"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const heroIDHeader = "X-Hero-ID"

type Handler struct {
	GameUC *game.UseCase
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	g := s.Group("/api/game")
	g.POST("/start", h.start)
	g.POST("/observe", h.observe)
	g.POST("/action", h.action)
	g.POST("/save", h.save)
	g.POST("/load", h.load)
	g.GET("/history", h.history)
}

type startRequest struct {
	HeroName string `json:"hero_name"`
}

var ErrMissingHeroIDHeader = errors.New("missing x-hero-id header")

func requireHeroID(ctx *app.RequestContext) (string, error) {
	heroID := strings.TrimSpace(string(ctx.GetHeader(heroIDHeader)))
	if heroID == "" {
		return "", ErrMissingHeroIDHeader
	}
	return heroID, nil
}

func (h Handler) start(c context.Context, ctx *app.RequestContext) {
	heroID, err := requireHeroID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body startRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.GameUC.StartRun(c, heroID, body.HeroName)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) observe(c context.Context, ctx *app.RequestContext) {
	heroID, err := requireHeroID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	resp, err := h.GameUC.Observe(c, heroID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) action(c context.Context, ctx *app.RequestContext) {
	heroID, err := requireHeroID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body game.Request
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	body.HeroID = heroID

	resp, err := h.GameUC.Act(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) save(c context.Context, ctx *app.RequestContext) {
	heroID, err := requireHeroID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	if err := h.GameUC.Save(c, heroID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"saved": true})
}

func (h Handler) load(c context.Context, ctx *app.RequestContext) {
	heroID, err := requireHeroID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	resp, err := h.GameUC.Load(c, heroID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) history(c context.Context, ctx *app.RequestContext) {
	heroID, err := requireHeroID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	limit := 0
	if raw := string(ctx.Query("limit")); raw != "" {
		if v, convErr := strconv.Atoi(raw); convErr == nil && v > 0 {
			limit = v
		}
	}

	events, err := h.GameUC.History(c, heroID, limit)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"events": events})
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingHeroIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_hero_id", err.Error())
	case errors.Is(err, game.ErrInvalidRequest), errors.Is(err, game.ErrUnknownAction):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, game.ErrNoSession), errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, game.ErrHeroDead):
		writeErrorBody(ctx, consts.StatusConflict, "hero_dead", err.Error())
	case errors.Is(err, game.ErrActionRejected):
		writeErrorBody(ctx, consts.StatusConflict, "action_rejected", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
