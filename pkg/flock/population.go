package flock

import (
	"context"
	"fmt"
	"image/color"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Population is an ordered flock of agents sharing a display colour.
// It is not safe for concurrent use; the goroutines started by TickParallel
// only ever read the frozen member slice.
type Population struct {
	area    Area
	members []Agent
	// back receives the next state during a tick, then is swapped with members
	back  []Agent
	color color.RGBA
}

// NewPopulation returns an empty population living in area.
func NewPopulation(area Area) (*Population, error) {
	if err := area.validate(); err != nil {
		return nil, err
	}
	return &Population{area: area}, nil
}

// Area is the plane shared by every member.
func (p *Population) Area() Area { return p.area }

// Len is the number of members.
func (p *Population) Len() int { return len(p.members) }

// At returns a copy of the i-th member.
func (p *Population) At(i int) Agent { return p.members[i] }

// Members returns a copy of the member slice, in insertion order.
func (p *Population) Members() []Agent { return slices.Clone(p.members) }

// Append adds an agent at the end of the flock.
func (p *Population) Append(a Agent) {
	p.members = append(p.members, a)
}

// Reset removes every member. Calling it on an empty population is a no-op.
func (p *Population) Reset() {
	clear(p.members)
	p.members = p.members[:0]
	clear(p.back)
	p.back = p.back[:0]
}

// SetColor sets the colour the flock is drawn with.
func (p *Population) SetColor(c color.RGBA) { p.color = c }

// Color is the display colour, zero until SetColor is called.
func (p *Population) Color() color.RGBA { return p.color }

// SetParameters gives every member the same rules.
func (p *Population) SetParameters(rules RuleParameters) error {
	if err := rules.Validate(); err != nil {
		return err
	}
	for i := range p.members {
		if err := p.members[i].SetRules(rules); err != nil {
			return fmt.Errorf("member %d: %w", i, err)
		}
	}
	return nil
}

// nextBuffer returns the back buffer sized for the current members.
func (p *Population) nextBuffer() []Agent {
	return slices.Grow(p.back[:0], len(p.members))[:len(p.members)]
}

// Tick advances every member by dt. All members see the state the flock had
// before the tick started.
func (p *Population) Tick(dt float64) {
	snapshot := p.members
	next := p.nextBuffer()
	for i := range snapshot {
		next[i] = snapshot[i]
		next[i].Tick(snapshot, dt)
	}
	p.members, p.back = next, snapshot
}

// TickParallel computes the same step as Tick with up to workers goroutines.
// When ctx is cancelled before all members are done the population is left untouched.
func (p *Population) TickParallel(ctx context.Context, dt float64, workers int) error {
	if workers < 1 {
		workers = 1
	}
	snapshot := p.members
	next := p.nextBuffer()

	chunk := (len(snapshot) + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(snapshot); start += chunk {
		end := min(start+chunk, len(snapshot))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				next[i] = snapshot[i]
				next[i].Tick(snapshot, dt)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	p.members, p.back = next, snapshot
	return nil
}

// AverageDistance computes the statistics of the toroidal distance over every
// unordered pair of members, measured from the earlier member to the later one.
func (p *Population) AverageDistance() (Statistics, error) {
	n := len(p.members)
	if n < 2 {
		return Statistics{}, fmt.Errorf("%w: %d members give no pair", ErrInsufficientData, n)
	}
	distances := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		pos1 := p.members[i].position
		for j := i + 1; j < n; j++ {
			distances = append(distances, p.area.Distance(pos1, p.members[j].position))
		}
	}
	return sampleStatistics(distances)
}

// AverageSpeed computes the statistics of the member speeds.
func (p *Population) AverageSpeed() (Statistics, error) {
	speeds := make([]float64, len(p.members))
	for i := range p.members {
		speeds[i] = p.members[i].Speed()
	}
	return sampleStatistics(speeds)
}
