package engine

import (
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/piwi3910/jigsnap/internal/model"
)

// ErrNoStages indicates a campaign was created without any stage.
var ErrNoStages = errors.New("engine: campaign needs at least one stage")

// CampaignOptions are applied to every stage session of a campaign.
type CampaignOptions struct {
	Threshold float64
	Scramble  bool
	Seed      int64
	Logger    *log.Logger
	Debug     bool
}

// Campaign plays a fixed list of stages in order and records the time taken
// for each one.
type Campaign struct {
	stages  []model.Stage
	opts    CampaignOptions
	rng     *rand.Rand
	current int
	session *Session
	results []model.StageResult
}

func NewCampaign(stages []model.Stage, opts CampaignOptions) (*Campaign, error) {
	if len(stages) == 0 {
		return nil, ErrNoStages
	}
	plan := make([]model.Stage, len(stages))
	copy(plan, stages)
	return &Campaign{
		stages:  plan,
		opts:    opts,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		current: -1,
	}, nil
}

// Stages returns the stage plan.
func (c *Campaign) Stages() []model.Stage {
	out := make([]model.Stage, len(c.stages))
	copy(out, c.stages)
	return out
}

// Current returns the index of the stage in play, or -1 before Start.
func (c *Campaign) Current() int { return c.current }

// Session returns the session of the stage in play, or nil before Start.
func (c *Campaign) Session() *Session { return c.session }

// Results returns the results recorded so far, in stage order.
func (c *Campaign) Results() []model.StageResult {
	out := make([]model.StageResult, len(c.results))
	copy(out, c.results)
	return out
}

// Start begins the campaign at its first stage, discarding any results.
func (c *Campaign) Start(now time.Time) (*Session, error) {
	c.results = nil
	return c.begin(0, now)
}

// Restart replays the stage in play from a fresh board and clock.
func (c *Campaign) Restart(now time.Time) (*Session, error) {
	if c.current < 0 {
		return c.Start(now)
	}
	return c.begin(c.current, now)
}

// Advance moves on to the next stage. It returns false once the last stage
// has been played.
func (c *Campaign) Advance(now time.Time) (*Session, bool, error) {
	next := c.current + 1
	if next >= len(c.stages) {
		return nil, false, nil
	}
	s, err := c.begin(next, now)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func (c *Campaign) begin(index int, now time.Time) (*Session, error) {
	s, err := NewSession(SessionConfig{
		Stage:     c.stages[index],
		Index:     index,
		Threshold: c.opts.Threshold,
		Scramble:  c.opts.Scramble,
		Rand:      c.rng,
		Logger:    c.opts.Logger,
		Debug:     c.opts.Debug,
		Start:     now,
	})
	if err != nil {
		return nil, err
	}
	c.current = index
	c.session = s
	return s, nil
}

// Poll polls the stage in play and records its result the first time it is
// solved.
func (c *Campaign) Poll(now time.Time) (model.StageResult, bool) {
	if c.session == nil {
		return model.StageResult{}, false
	}
	result, ok := c.session.Poll(now)
	if !ok {
		return model.StageResult{}, false
	}
	c.results = append(c.results, result)
	return result, true
}

// IsLastStage reports whether the stage in play is the final one.
func (c *Campaign) IsLastStage() bool {
	return c.current == len(c.stages)-1
}

// Finished reports whether the final stage has been solved.
func (c *Campaign) Finished() bool {
	if !c.IsLastStage() || c.session == nil {
		return false
	}
	_, fired := c.session.done.Fired()
	return fired
}

// TotalElapsed sums the recorded stage times.
func (c *Campaign) TotalElapsed() time.Duration {
	var total time.Duration
	for _, r := range c.results {
		total += r.Elapsed
	}
	return total
}
