package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stratsim/meta"
)

func TestParticipantMessages(t *testing.T) {
	p := NewParticipant("DeepCog", PrivateInfo{}, PublicView{})
	p.AddMessage(Message{From: "Axiom", To: "DeepCog", Content: "truce?", Round: 1})
	p.AddMessage(Message{From: "Axiom", To: "DeepCog", Content: "final offer", Round: 2})

	require.Len(t, p.MessagesForRound(2), 1)
	require.Equal(t, "final offer", p.MessagesForRound(2)[0].Content)
	require.Empty(t, p.MessagesForRound(3))
}

func TestParticipantResultHistoryBounded(t *testing.T) {
	p := NewParticipant("DeepCog", PrivateInfo{}, PublicView{})
	for i := 0; i < meta.RESULT_HISTORY+10; i++ {
		p.RecordResults([]string{fmt.Sprintf("Success:action %d", i)})
	}
	require.Len(t, p.RecentResults, meta.RESULT_HISTORY)
	require.Equal(t, fmt.Sprintf("Success:action %d", meta.RESULT_HISTORY+9),
		p.RecentResults[len(p.RecentResults)-1])
}

func TestParticipantNotices(t *testing.T) {
	p := NewParticipant("DeepCog", PrivateInfo{}, PublicView{})
	p.AddNotice("espionage result")
	drained := p.DrainNotices()
	require.Equal(t, []string{"espionage result"}, drained)
	require.Empty(t, p.DrainNotices(), "drain should clear pending notices")
}

func TestRosterLookup(t *testing.T) {
	roster := Roster{
		NewParticipant("DeepCog", PrivateInfo{}, PublicView{}),
		NewParticipant("Axiom", PrivateInfo{}, PublicView{}),
	}

	require.NotNil(t, roster.Find("Axiom"))
	require.Nil(t, roster.Find("Nexus"))
	require.Equal(t, []string{"Axiom"}, roster.OtherNames("DeepCog"))
}

func TestRoundStateAdvance(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	st := NewRoundState(start)
	st.AdvanceRound()

	require.Equal(t, 1, st.Round)
	require.Equal(t, start.AddDate(0, 0, meta.ROUND_DAYS), st.CurrentDate)
}

func TestRoundStateRecentEvents(t *testing.T) {
	st := NewRoundState(time.Now())
	for i := 0; i < 8; i++ {
		st.AddEvent(fmt.Sprintf("event %d", i))
	}
	recent := st.RecentEvents(meta.EVENT_WINDOW)
	require.Len(t, recent, meta.EVENT_WINDOW)
	require.Equal(t, "event 7", recent[len(recent)-1])
}
