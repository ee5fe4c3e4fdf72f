package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/argus/internal/contracts"
)

func verdict(agent string, signal contracts.Signal, confidence int) contracts.AgentVerdict {
	return contracts.AgentVerdict{Agent: agent, Signal: signal, Confidence: confidence}
}

func TestCombineMajority(t *testing.T) {
	// 3 bullish / 1 bearish / 1 neutral: majority = ceil(5/2) = 3.
	verdicts := []contracts.AgentVerdict{
		verdict("a", contracts.SignalBullish, 70),
		verdict("b", contracts.SignalBullish, 60),
		verdict("c", contracts.SignalBullish, 80),
		verdict("d", contracts.SignalBearish, 90),
		verdict("e", contracts.SignalNeutral, 50),
	}
	result := Combine(verdicts, 0)

	assert.Equal(t, contracts.SignalBullish, result.Signal)
	assert.Equal(t, 5, result.Votes.Total())
	// mean(70,60,80,90,50) = 70
	assert.Equal(t, 70, result.Confidence)
}

func TestCombineNoAbsoluteMajority(t *testing.T) {
	// 2 bullish / 2 bearish / 1 neutral: nothing reaches 3, so neutral
	// wins even though neutral has the fewest votes.
	verdicts := []contracts.AgentVerdict{
		verdict("a", contracts.SignalBullish, 70),
		verdict("b", contracts.SignalBullish, 70),
		verdict("c", contracts.SignalBearish, 70),
		verdict("d", contracts.SignalBearish, 70),
		verdict("e", contracts.SignalNeutral, 70),
	}
	result := Combine(verdicts, 0)

	assert.Equal(t, contracts.SignalNeutral, result.Signal)
}

func TestCombineEmpty(t *testing.T) {
	result := Combine(nil, 3)

	assert.Equal(t, contracts.SignalNeutral, result.Signal)
	assert.Equal(t, 0, result.Confidence)
	assert.True(t, result.NoData, "empty panel must carry the no-data marker")
	assert.Equal(t, 3, result.Abstained)
}

func TestCombinePartialPanel(t *testing.T) {
	// 16 analysts, 9 return bullish at 70 and 7 fail: n=9, majority=5.
	var verdicts []contracts.AgentVerdict
	for i := 0; i < 9; i++ {
		verdicts = append(verdicts, verdict(string(rune('a'+i)), contracts.SignalBullish, 70))
	}
	result := Combine(verdicts, 7)

	assert.Equal(t, contracts.SignalBullish, result.Signal)
	assert.Equal(t, 70, result.Confidence)
	assert.Equal(t, 9, result.Votes.Total(), "tally counts only present verdicts")
	assert.Equal(t, 7, result.Abstained)
}

func TestCombineIdempotent(t *testing.T) {
	verdicts := []contracts.AgentVerdict{
		verdict("a", contracts.SignalBullish, 73),
		verdict("b", contracts.SignalBearish, 41),
		verdict("c", contracts.SignalNeutral, 58),
	}
	first := Combine(verdicts, 1)
	second := Combine(verdicts, 1)

	require.Equal(t, first, second)
}

func TestCombineTallyAlwaysSumsToN(t *testing.T) {
	signals := []contracts.Signal{contracts.SignalBullish, contracts.SignalBearish, contracts.SignalNeutral}
	for n := 1; n <= 7; n++ {
		var verdicts []contracts.AgentVerdict
		for i := 0; i < n; i++ {
			verdicts = append(verdicts, verdict(string(rune('a'+i)), signals[i%3], 50+i))
		}
		result := Combine(verdicts, 0)
		assert.Equal(t, n, result.Votes.Total(), "n=%d", n)
	}
}

func TestCombineRoundsMeanConfidence(t *testing.T) {
	verdicts := []contracts.AgentVerdict{
		verdict("a", contracts.SignalNeutral, 50),
		verdict("b", contracts.SignalNeutral, 51),
	}
	// mean 50.5 rounds to 51
	assert.Equal(t, 51, Combine(verdicts, 0).Confidence)
}

func TestMajoritySignal(t *testing.T) {
	tests := []struct {
		name  string
		tally contracts.VoteTally
		want  contracts.Signal
	}{
		{"bullish majority", contracts.VoteTally{Bullish: 3, Bearish: 1, Neutral: 1}, contracts.SignalBullish},
		{"bearish majority", contracts.VoteTally{Bullish: 0, Bearish: 2, Neutral: 1}, contracts.SignalBearish},
		{"split", contracts.VoteTally{Bullish: 2, Bearish: 2, Neutral: 1}, contracts.SignalNeutral},
		{"empty", contracts.VoteTally{}, contracts.SignalNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MajoritySignal(tt.tally))
		})
	}
}
