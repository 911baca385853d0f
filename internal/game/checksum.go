package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/manaforge/engine/internal/game/state"
)

// Checksum returns a SHA-256 over a canonical rendering of gs. Timestamps
// are excluded, so two runs of the same seed and actions agree.
func Checksum(gs *state.GameState) (string, error) {
	if gs == nil {
		return "", fmt.Errorf("%w: nil game state", state.ErrStructural)
	}
	hash := sha256.New()
	if _, err := hash.Write(canonical(gs)); err != nil {
		return "", fmt.Errorf("failed to compute hash: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// canonical renders every rules-relevant field. Zone order is kept since
// library order is the draw order.
func canonical(gs *state.GameState) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%d|%s|%s|%d|%s|%s\n",
		gs.ID, gs.ActivePlayer, gs.PriorityPlayerID, gs.Phase, gs.Turn, gs.Status, gs.WinnerID)

	for _, p := range gs.Players {
		pool := p.ManaPool
		fmt.Fprintf(&buf, "PLAYER:%s|%s|%d|%d|%t|%d/%d/%d/%d/%d/%d\n",
			p.ID, p.Name, p.Life, p.MaxHandSize, p.LandPlayed,
			pool.White, pool.Blue, pool.Black, pool.Red, pool.Green, pool.Colorless)
		for _, zone := range []state.Zone{state.ZoneLibrary, state.ZoneHand, state.ZoneBattlefield, state.ZoneGraveyard, state.ZoneExile} {
			fmt.Fprintf(&buf, "  %s:\n", strings.ToUpper(string(zone)))
			for _, card := range p.Cards(zone) {
				writeCard(&buf, card)
			}
		}
	}

	buf.WriteString("STACK:\n")
	for i, item := range gs.Stack {
		fmt.Fprintf(&buf, "  %d:%s|%s|%s|%s|%s\n", i, item.ID, item.Kind, item.SourceID, item.Controller,
			strings.Join(item.Targets, ","))
	}

	fmt.Fprintf(&buf, "COMBAT:%s\n", gs.Combat.Step)
	for _, atk := range gs.Combat.Attackers {
		fmt.Fprintf(&buf, "  ATTACKER:%s->%s|%s\n", atk.CreatureID, atk.DefenderID, strings.Join(atk.BlockedBy, ","))
	}
	for _, blk := range gs.Combat.Blockers {
		fmt.Fprintf(&buf, "  BLOCKER:%s->%s\n", blk.CreatureID, blk.AttackerID)
	}
	return buf.Bytes()
}

func writeCard(buf *bytes.Buffer, card *state.CardInPlay) {
	slug := ""
	if card.Template != nil {
		slug = card.Template.Slug
	}
	fmt.Fprintf(buf, "    CARD:%s|%s|%s|%s|%s|%t|%d|%t|%s|%d/%d\n",
		card.InstanceID, slug, card.Zone, card.OwnerID, card.ControllerID,
		card.Tapped, card.DamageMarked, card.SummoningSick, card.AttachedTo,
		card.Counters.PlusOne, card.Counters.MinusOne)
	for _, name := range card.Counters.Names() {
		fmt.Fprintf(buf, "      COUNTER:%s=%d\n", name, card.Counters.Named[name])
	}
}
