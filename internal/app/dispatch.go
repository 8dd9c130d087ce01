package app

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"werewolf/internal/domain"
)

// Dispatcher parses inbound text commands and routes them to rooms. It is
// the single entry point for both room-scoped commands and player-scoped
// private commands; the latter arrive without room context and are routed by
// scanning the registry for the issuing player.
type Dispatcher struct {
	hub    *RoomHub
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher over the given hub
func NewDispatcher(hub *RoomHub, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{hub: hub, logger: logger}
}

// Dispatch handles one inbound command and returns the notification intents
// it produced. A rejected command produces a private rejection notice, never
// a silent drop.
func (d *Dispatcher) Dispatch(roomID, playerID, name, text string) []domain.Notification {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return nil
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/kill", "/check", "/save", "/heal", "/poison", "/shoot":
		return d.playerCommand(playerID, cmd, args)
	}
	return d.roomCommand(roomID, playerID, name, cmd, args)
}

// roomCommand handles commands addressed to a specific room
func (d *Dispatcher) roomCommand(roomID, playerID, name, cmd string, args []string) []domain.Notification {
	switch cmd {
	case "/help":
		return d.private(playerID, helpText())
	case "/create":
		if roomID == "" {
			return d.private(playerID, "Rooms live in group conversations; /create only works there.")
		}
		if _, err := d.hub.Create(roomID, playerID); err != nil {
			return d.reject(playerID, err)
		}
		return []domain.Notification{domain.NotifyRoom(roomID, roomCreatedText())}
	}

	session, err := d.hub.Get(roomID)
	if err != nil {
		return d.private(playerID, "No room here yet. Open one with /create.")
	}

	switch cmd {
	case "/join":
		notes, err := session.Join(playerID, name)
		return d.result(playerID, notes, err)
	case "/leave":
		notes, err := session.Leave(playerID)
		return d.result(playerID, notes, err)
	case "/start":
		notes, err := session.Start(playerID)
		return d.result(playerID, notes, err)
	case "/swap":
		if len(args) != 1 {
			return d.private(playerID, "Usage: /swap witch or /swap hunter")
		}
		switch strings.ToLower(args[0]) {
		case "witch":
			notes, err := session.SwapWitch(playerID)
			return d.result(playerID, notes, err)
		case "hunter":
			notes, err := session.SwapHunter(playerID)
			return d.result(playerID, notes, err)
		default:
			return d.private(playerID, "Usage: /swap witch or /swap hunter")
		}
	case "/confirm":
		notes, err := session.Confirm(playerID)
		return d.result(playerID, notes, err)
	case "/vote":
		seat, ok := parseIntArg(args)
		if !ok {
			return d.private(playerID, "Usage: /vote N (e.g. /vote 3)")
		}
		notes, err := session.Vote(playerID, seat)
		return d.result(playerID, notes, err)
	case "/dawn":
		notes, err := session.ForceNight(playerID)
		return d.result(playerID, notes, err)
	case "/endday":
		notes, err := session.ForceDay(playerID)
		return d.result(playerID, notes, err)
	case "/extend":
		minutes, ok := parseIntArg(args)
		if !ok || minutes < 1 {
			return d.private(playerID, "Usage: /extend M (minutes)")
		}
		notes, err := session.Extend(playerID, time.Duration(minutes)*time.Minute)
		return d.result(playerID, notes, err)
	case "/status":
		return session.Status()
	case "/reset":
		d.hub.Destroy(roomID)
		return []domain.Notification{domain.NotifyRoom(roomID, resetText())}
	default:
		return d.private(playerID, helpText())
	}
}

// playerCommand handles private role actions, addressed by player identity
// alone
func (d *Dispatcher) playerCommand(playerID, cmd string, args []string) []domain.Notification {
	session, err := d.hub.FindByPlayer(playerID)
	if err != nil {
		return d.private(playerID, "You are not seated in any room.")
	}

	switch cmd {
	case "/heal":
		notes, err := session.WitchHeal(playerID)
		return d.result(playerID, notes, err)
	case "/kill", "/check", "/save", "/poison", "/shoot":
		seat, ok := parseIntArg(args)
		if !ok {
			return d.private(playerID, "Usage: "+cmd+" N (seat number)")
		}
		switch cmd {
		case "/kill":
			notes, err := session.Nominate(playerID, seat)
			return d.result(playerID, notes, err)
		case "/check":
			notes, err := session.SeerInspect(playerID, seat)
			return d.result(playerID, notes, err)
		case "/save":
			notes, err := session.DoctorProtect(playerID, seat)
			return d.result(playerID, notes, err)
		case "/poison":
			notes, err := session.WitchPoison(playerID, seat)
			return d.result(playerID, notes, err)
		case "/shoot":
			notes, err := session.HunterShoot(playerID, seat)
			return d.result(playerID, notes, err)
		}
	}
	return d.private(playerID, helpText())
}

// result turns a session outcome into deliverable notifications, converting
// an error into a private rejection notice
func (d *Dispatcher) result(playerID string, notes []domain.Notification, err error) []domain.Notification {
	if err != nil {
		return d.reject(playerID, err)
	}
	return notes
}

func (d *Dispatcher) reject(playerID string, err error) []domain.Notification {
	return d.private(playerID, "❌ "+err.Error())
}

func (d *Dispatcher) private(playerID, text string) []domain.Notification {
	return []domain.Notification{domain.NotifyPlayer(playerID, text)}
}

func parseIntArg(args []string) (int, bool) {
	if len(args) != 1 {
		return 0, false
	}
	seat, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, false
	}
	return seat, true
}
