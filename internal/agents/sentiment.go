package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/internal/gateway"
)

const sentimentHeadlineCount = 20

// Common board vocabulary with a clear directional tone.
var (
	bullishTerms = []string{"利好", "涨停", "突破", "增持", "加仓", "反弹", "放量上攻", "超预期", "主力流入"}
	bearishTerms = []string{"利空", "跌停", "减持", "清仓", "亏损", "跳水", "破位", "出货", "主力流出"}
)

// Sentiment scores a target on the tone of its recent message-board
// headlines. It abstains when the board is quiet.
type Sentiment struct {
	headlines gateway.HeadlineProvider
}

// NewSentiment creates the sentiment analyst.
func NewSentiment(headlines gateway.HeadlineProvider) *Sentiment {
	return &Sentiment{headlines: headlines}
}

func (s *Sentiment) Name() string  { return "sentiment" }
func (s *Sentiment) Group() string { return GroupSentiment }

func (s *Sentiment) Evaluate(ctx context.Context, target Target) (contracts.AgentVerdict, error) {
	headlines, err := s.headlines.GetHeadlines(ctx, target.Symbol, sentimentHeadlineCount)
	if err != nil {
		return contracts.AgentVerdict{}, fmt.Errorf("fetch headlines: %w", err)
	}
	if len(headlines) == 0 {
		return contracts.AgentVerdict{}, ErrNotApplicable
	}

	positive, negative := scoreHeadlines(headlines)
	total := positive + negative

	verdict := contracts.AgentVerdict{
		Rationale: []string{
			fmt.Sprintf("%d headlines: %d positive, %d negative", len(headlines), positive, negative),
		},
	}
	if total == 0 {
		verdict.Signal = contracts.SignalNeutral
		verdict.Confidence = 40
		return verdict, nil
	}

	ratio := float64(positive) / float64(total)
	switch {
	case ratio >= 0.65:
		verdict.Signal = contracts.SignalBullish
		verdict.Confidence = 45 + int(ratio*30)
	case ratio <= 0.35:
		verdict.Signal = contracts.SignalBearish
		verdict.Confidence = 45 + int((1-ratio)*30)
	default:
		verdict.Signal = contracts.SignalNeutral
		verdict.Confidence = 50
	}
	return verdict, nil
}

// scoreHeadlines counts directional keyword hits across headlines.
func scoreHeadlines(headlines []string) (positive, negative int) {
	for _, h := range headlines {
		for _, term := range bullishTerms {
			if strings.Contains(h, term) {
				positive++
				break
			}
		}
		for _, term := range bearishTerms {
			if strings.Contains(h, term) {
				negative++
				break
			}
		}
	}
	return positive, negative
}
