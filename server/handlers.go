package server

import (
	"errors"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sueca/game"
)

// GameServer routes client messages to the table and fans table updates out
// to every connected client
type GameServer struct {
	Hub    *Hub
	Table  *Table
	logger *zap.Logger
}

// NewGameServer wires a hub to a table
func NewGameServer(hub *Hub, table *Table, logger *zap.Logger) *GameServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	gs := &GameServer{Hub: hub, Table: table, logger: logger}
	table.OnUpdate(gs.broadcastUpdate)
	return gs
}

// Run starts processing incoming messages
func (gs *GameServer) Run() {
	for msg := range gs.Hub.Incoming {
		gs.HandleMessage(msg.Client, msg.Message)
	}
}

// Connect registers a new websocket client and queues the current table for it
func (gs *GameServer) Connect(conn *websocket.Conn) *Client {
	client := NewClient(gs.Hub, conn)
	gs.attach(client)

	go client.WritePump()
	go client.ReadPump()
	return client
}

// attach registers the client before reading the table, so every later change
// reaches it as a broadcast queued behind this state
func (gs *GameServer) attach(client *Client) {
	gs.Hub.Add(client)
	gs.Table.WithSnapshot(func(snap Snapshot) {
		gs.Hub.SendToClient(client, NewStateUpdateMessage(snap))
	})
}

// HandleMessage routes a message to the appropriate handler
func (gs *GameServer) HandleMessage(client *Client, msg ClientMessage) {
	var err error

	switch msg.Type {
	case MsgPlayCard:
		err = gs.handlePlayCard(msg)
	case MsgContinue:
		_, err = gs.Table.Continue()
	case MsgRestart:
		_, err = gs.Table.Restart()
		if err == nil {
			gs.logger.Info("game restarted by client", zap.String("client_id", client.ID.String()))
		}
	case MsgRequestState:
		gs.Hub.SendToClient(client, NewStateUpdateMessage(gs.Table.Snapshot()))
		return
	default:
		gs.Hub.SendToClient(client, NewErrorMessage("unknown_message", "Unknown message type"))
		return
	}

	if err != nil {
		gs.Hub.SendToClient(client, NewActionErrorMessage(err))
	}
}

func (gs *GameServer) handlePlayCard(msg ClientMessage) error {
	if msg.CardID == nil {
		return game.ErrInvalidCard
	}
	_, err := gs.Table.Play(*msg.CardID)
	var rejected *game.RejectedPlayError
	if errors.As(err, &rejected) {
		gs.logger.Info("play rejected", zap.Int("card_id", rejected.CardID), zap.Error(rejected.Err))
	}
	return err
}

// broadcastUpdate sends the events, then the resulting state, to everyone
func (gs *GameServer) broadcastUpdate(snap Snapshot, events []game.Event) {
	for _, ev := range events {
		gs.Hub.BroadcastMessage(NewEventMessage(ev))
	}
	gs.Hub.BroadcastMessage(NewStateUpdateMessage(snap))
}
