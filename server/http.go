package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"sueca/game"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// PlayRequest is the body of POST /api/play
type PlayRequest struct {
	CardID *int `json:"cardId"`
}

// ActionResponse answers a successful API action
type ActionResponse struct {
	Events []game.Event  `json:"events"`
	Update ServerMessage `json:"update"`
}

// NewRouter builds the HTTP API, the websocket endpoint and the static UI
func NewRouter(gs *GameServer, staticDir string, logger *zap.Logger) *echo.Echo {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	api := e.Group("/api")
	api.GET("/state", func(c echo.Context) error {
		return c.JSON(http.StatusOK, NewStateUpdateMessage(gs.Table.Snapshot()))
	})
	api.POST("/play", func(c echo.Context) error {
		var req PlayRequest
		if err := c.Bind(&req); err != nil || req.CardID == nil {
			return c.JSON(http.StatusBadRequest, NewErrorMessage("bad_request", "cardId is required"))
		}
		return respond(c, gs.Table, func() ([]game.Event, error) {
			return gs.Table.Play(*req.CardID)
		})
	})
	api.POST("/continue", func(c echo.Context) error {
		return respond(c, gs.Table, gs.Table.Continue)
	})
	api.POST("/restart", func(c echo.Context) error {
		return respond(c, gs.Table, gs.Table.Restart)
	})

	e.GET("/ws", func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			logger.Warn("websocket upgrade error", zap.Error(err))
			return nil
		}
		gs.Connect(conn)
		return nil
	})

	if staticDir != "" {
		e.Static("/", staticDir)
	}
	return e
}

func respond(c echo.Context, table *Table, action func() ([]game.Event, error)) error {
	events, err := action()
	if err != nil {
		return c.JSON(statusFor(err), NewActionErrorMessage(err))
	}
	return c.JSON(http.StatusOK, ActionResponse{
		Events: events,
		Update: NewStateUpdateMessage(table.Snapshot()),
	})
}

// statusFor maps rule violations to 400 and out-of-turn requests to 409
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrMustFollowSuit),
		errors.Is(err, game.ErrIllegalMove),
		errors.Is(err, game.ErrInvalidCard):
		return http.StatusBadRequest
	case errors.Is(err, ErrAIPending),
		errors.Is(err, ErrGameNotStarted),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrInvalidAction):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
