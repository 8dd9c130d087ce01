package app

import (
	"fmt"
	"strings"
	"time"

	"werewolf/internal/domain"
)

// User-facing notification texts. Command tokens and wording are a
// localizable surface; the engine's behavior never depends on them.

func helpText() string {
	return strings.Join([]string{
		"📝 Commands:",
		"Room:",
		"  /create — open a room here",
		"  /join, /leave — take or give up a seat",
		"  /start — begin (5-8 players, host only)",
		"  /swap witch | /swap hunter — adjust roles (host only)",
		"  /confirm — deal roles and start the first night (host only)",
		"  /vote N — vote to banish seat N during the day",
		"  /dawn — end the night now (host only)",
		"  /endday — close the vote now (host only)",
		"  /extend M — push the current deadline M minutes (host only)",
		"  /status — room overview",
		"  /reset — tear the room down",
		"Night (private messages):",
		"  werewolf /kill N · seer /check N · doctor /save N",
		"  witch /heal, /poison N · hunter /shoot N",
	}, "\n")
}

func roomCreatedText() string {
	return fmt.Sprintf("🟢 Room open! Take a seat with /join. The host can /start once %d-%d players are in.", domain.MinPlayers, domain.MaxPlayers)
}

func joinedText(p *domain.Player, count int) string {
	return fmt.Sprintf("✅ %s joined, seat %d. Players: %d", p.Name, p.Seat, count)
}

func leftText(name string, count int) string {
	return fmt.Sprintf("🚪 %s left; seats renumbered. Players: %d", name, count)
}

func templateText(roles []domain.Role) string {
	counts := domain.CountRoles(roles)
	parts := make([]string, 0, len(domain.RoleOrder))
	for _, role := range domain.RoleOrder {
		if c := counts[role]; c > 0 {
			parts = append(parts, fmt.Sprintf("%s×%d", role, c))
		}
	}
	return "🎭 Role setup: " + strings.Join(parts, ", ") + "\nHost may /swap witch or /swap hunter, then /confirm."
}

func roleDealtText(p *domain.Player) string {
	return fmt.Sprintf("🎭 You are seat %d: %s\n%s", p.Seat, p.Role, p.Role.Description())
}

func nightOpenText(deadline time.Time) string {
	return fmt.Sprintf("🌙 Night falls. Special roles, check your private messages. Dawn breaks %s.", deadlineText(deadline))
}

func nightPromptText(p *domain.Player, game *domain.GameState) string {
	switch p.Role {
	case domain.RoleWerewolf:
		return "【Night】You are a werewolf. Nominate a victim: /kill N"
	case domain.RoleSeer:
		return "【Night】You are the seer. Inspect someone: /check N"
	case domain.RoleDoctor:
		return "【Night】You are the doctor. Protect someone: /save N"
	case domain.RoleWitch:
		return fmt.Sprintf("【Night】You are the witch. Potion %s (/heal), poison %s (/poison N).",
			chargeText(game.HealCharge), chargeText(game.PoisonCharge))
	}
	return ""
}

func chargeText(available bool) string {
	if available {
		return "available"
	}
	return "spent"
}

func nominateAckText(target *domain.Player) string {
	return fmt.Sprintf("Nomination recorded: seat %d (%s)", target.Seat, target.Name)
}

func seerResultText(target *domain.Player, isWolf bool) string {
	verdict := "NOT a werewolf"
	if isWolf {
		verdict = "a WEREWOLF"
	}
	return fmt.Sprintf("🔮 Seat %d (%s) is %s.", target.Seat, target.Name, verdict)
}

func protectAckText(target *domain.Player) string {
	return fmt.Sprintf("Protection set: seat %d (%s)", target.Seat, target.Name)
}

func healAckText() string {
	return "🧪 The healing potion will be used on tonight's victim, if there is one."
}

func poisonAckText(target *domain.Player) string {
	return fmt.Sprintf("☠️ Poison set: seat %d (%s)", target.Seat, target.Name)
}

func dawnText(day int, out *domain.NightOutcome) string {
	if len(out.Deaths) == 0 {
		return fmt.Sprintf("☀️ Day %d — a peaceful night, nobody died.", day)
	}
	names := make([]string, 0, len(out.Deaths))
	for _, p := range out.Deaths {
		names = append(names, fmt.Sprintf("seat %d (%s)", p.Seat, p.Name))
	}
	return fmt.Sprintf("☀️ Day %d — found dead this morning: %s.", day, strings.Join(names, ", "))
}

func dayOpenText(deadline time.Time) string {
	return fmt.Sprintf("🗳 Discuss, then /vote N. The vote closes %s.", deadlineText(deadline))
}

func voteAckText(voter, target *domain.Player) string {
	return fmt.Sprintf("🗳 %s votes for seat %d (%s).", voter.Name, target.Seat, target.Name)
}

func dayResultText(out *domain.DayOutcome) string {
	if out.Eliminated == nil {
		return "📣 Nobody voted; nobody is banished. Night falls again..."
	}
	text := fmt.Sprintf("📣 Seat %d (%s) is banished with %d vote(s). They were a %s.",
		out.Eliminated.Seat, out.Eliminated.Name, out.VoteCount, out.Eliminated.Role)
	if out.Tied {
		text += " (tie broken by lot)"
	}
	return text
}

func hunterShotText(shooter, target *domain.Player) string {
	return fmt.Sprintf("🔫 Hunter %s takes seat %d (%s) down with them!", shooter.Name, target.Seat, target.Name)
}

func hunterPromptText() string {
	return "🔫 You were a hunter. You may take one player with you: /shoot N"
}

func winText(winner domain.Winner) string {
	if winner == domain.WinnerWerewolves {
		return "🐺 The werewolves win. Game over — the room is closed."
	}
	return "🎉 The village wins, all werewolves are gone. Game over — the room is closed."
}

func extendText(deadline time.Time) string {
	return fmt.Sprintf("⏰ The deadline moved; the phase now ends %s.", deadlineText(deadline))
}

func resetText() string {
	return "🔁 Room reset. /create to play again."
}

func statusText(room *domain.Room, deadline time.Time) string {
	lines := []string{
		fmt.Sprintf("📋 Werewolf — Day %d — Phase: %s", room.Day, room.Phase),
		fmt.Sprintf("Players: %d (alive %d)", len(room.Players), len(room.AlivePlayers())),
	}
	for _, id := range room.Seats {
		p := room.Players[id]
		mark := "alive"
		if !p.Alive {
			mark = "dead"
		}
		lines = append(lines, fmt.Sprintf("%d. %s (%s)", p.Seat, p.Name, mark))
	}
	if room.Phase == domain.PhaseConfiguring {
		lines = append(lines, templateText(room.CurrentRoles))
	}
	if !deadline.IsZero() {
		lines = append(lines, fmt.Sprintf("Phase ends %s", deadlineText(deadline)))
	}
	return strings.Join(lines, "\n")
}

func deadlineText(deadline time.Time) string {
	remaining := time.Until(deadline).Round(time.Second)
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("in %s", remaining)
}
