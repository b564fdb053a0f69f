// Package netsim simulates the decorative agent network drawn behind the
// landing page hero: agents drifting in a box, linked when close, trading
// request/response/broadcast messages along curved paths.
//
// The simulation has no correctness contract beyond looking plausible. It
// is deterministic for a given *rand.Rand, which keeps it testable.
package netsim

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"
)

// AgentType controls an agent's size and colour.
type AgentType string

const (
	Primary   AgentType = "primary"
	Secondary AgentType = "secondary"
	Tertiary  AgentType = "tertiary"
)

// MessageKind controls a message's colour and follow-up behaviour.
type MessageKind string

const (
	Request   MessageKind = "request"
	Response  MessageKind = "response"
	Broadcast MessageKind = "broadcast"
	Data      MessageKind = "data"
)

const (
	pathPoints          = 20
	dataPointCount      = 8
	initialMessages     = 5
	responseProbability = 0.7
	reconnectChance     = 0.01
	broadcastChance     = 0.002
	pulseGrowth         = 0.5
	bounceJitter        = 0.1
	controlPointJitter  = 80
)

// Config tunes the network.
type Config struct {
	Width, Height      float64
	NumAgents          int
	ConnectionDistance float64
	AgentTypes         []AgentType
	// MessageFrequency is the per-frame chance an idle agent sends a request.
	MessageFrequency float64
	// MessageSpeed is how many path points a message advances per frame.
	MessageSpeed float64
	AgentSpeed   float64
}

// DefaultConfig matches the hero background.
func DefaultConfig() Config {
	return Config{
		Width:              1440,
		Height:             900,
		NumAgents:          40,
		ConnectionDistance: 180,
		AgentTypes:         []AgentType{Primary, Secondary, Tertiary},
		MessageFrequency:   0.02,
		MessageSpeed:       2,
		AgentSpeed:         0.4,
	}
}

// Validate rejects configurations that cannot be simulated.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("netsim: canvas must have positive size, got %vx%v", c.Width, c.Height)
	case c.NumAgents < 0:
		return fmt.Errorf("netsim: negative agent count %d", c.NumAgents)
	case len(c.AgentTypes) == 0:
		return fmt.Errorf("netsim: at least one agent type is required")
	case c.ConnectionDistance <= 0:
		return fmt.Errorf("netsim: connection distance must be positive")
	}
	return nil
}

// Point is a canvas coordinate.
type Point struct {
	X, Y float64
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// RGBA is a CSS colour.
type RGBA struct {
	R, G, B uint8
	A       float64
}

func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// WithAlpha returns c with its alpha replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

// DataPoint is one spoke of the radial glyph drawn around larger agents.
type DataPoint struct {
	Angle  float64
	Height float64
}

// Agent is a node of the network.
type Agent struct {
	ID          string
	Type        AgentType
	Pos         Point
	Vel         Point
	Radius      float64
	Color       RGBA
	Pulsing     bool
	PulseRadius float64
	// Connections are the agents within ConnectionDistance at the last
	// (re)connection pass. They go stale as agents drift.
	Connections      []*Agent
	LastMessage      time.Duration
	MessageThreshold time.Duration
	ProcessingPower  float64
	DataPoints       [dataPointCount]DataPoint
}

// Message travels from Source to Target along Path.
type Message struct {
	Source, Target *Agent
	Kind           MessageKind
	Color          RGBA
	Size           float64
	Speed          float64
	Path           []Point
	// Progress is a fractional index into Path.
	Progress  float64
	Pos       Point
	Completed bool
}

// Network is the whole simulation state. It is not safe for concurrent use.
type Network struct {
	cfg      Config
	rng      *rand.Rand
	Agents   []*Agent
	Messages []*Message
}

// New seeds a network: agents at random positions, connections between
// nearby agents and a handful of initial requests.
func New(cfg Config, rng *rand.Rand) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := &Network{cfg: cfg, rng: rng}
	for i := 0; i < cfg.NumAgents; i++ {
		n.Agents = append(n.Agents, n.newAgent(cfg.AgentTypes[rng.Intn(len(cfg.AgentTypes))]))
	}
	n.reconnect()
	for i := 0; i < initialMessages && len(n.Agents) > 0; i++ {
		source := n.Agents[rng.Intn(len(n.Agents))]
		if len(source.Connections) > 0 {
			target := source.Connections[rng.Intn(len(source.Connections))]
			n.Messages = append(n.Messages, n.newMessage(source, target, Request))
		}
	}
	return n, nil
}

// Config returns the configuration the network was built with.
func (n *Network) Config() Config {
	return n.cfg
}

func (n *Network) newAgent(t AgentType) *Agent {
	rng := n.rng
	a := &Agent{
		ID:               strconv.FormatInt(rng.Int63(), 36),
		Type:             t,
		Pos:              Point{rng.Float64() * n.cfg.Width, rng.Float64() * n.cfg.Height},
		Vel:              Point{(rng.Float64() - 0.5) * n.cfg.AgentSpeed, (rng.Float64() - 0.5) * n.cfg.AgentSpeed},
		MessageThreshold: time.Second + time.Duration(rng.Float64()*float64(4*time.Second)),
		ProcessingPower:  0.5 + rng.Float64()*0.5,
	}
	switch t {
	case Primary:
		a.Radius = 4 + rng.Float64()*2
		a.Color = RGBA{100, 255, 218, 0.7 + rng.Float64()*0.3}
	case Secondary:
		a.Radius = 3 + rng.Float64()*1.5
		a.Color = RGBA{118, 228, 247, 0.6 + rng.Float64()*0.3}
	case Tertiary:
		a.Radius = 2 + rng.Float64()
		a.Color = RGBA{255, 255, 255, 0.5 + rng.Float64()*0.3}
	default:
		a.Radius = 3
		a.Color = RGBA{255, 255, 255, 0.7}
	}
	for i := range a.DataPoints {
		a.DataPoints[i] = DataPoint{
			Angle:  2 * math.Pi / dataPointCount * float64(i),
			Height: 0.5 + rng.Float64()*0.5,
		}
	}
	return a
}

func (n *Network) newMessage(source, target *Agent, kind MessageKind) *Message {
	rng := n.rng
	m := &Message{
		Source: source,
		Target: target,
		Kind:   kind,
		Speed:  n.cfg.MessageSpeed * (0.8 + rng.Float64()*0.4),
		Size:   2 + rng.Float64()*2,
		Pos:    source.Pos,
	}
	switch kind {
	case Request:
		m.Color = RGBA{100, 255, 218, 0.9}
	case Response:
		m.Color = RGBA{118, 228, 247, 0.9}
	case Broadcast:
		m.Color = RGBA{255, 214, 118, 0.9}
	default:
		m.Color = RGBA{255, 255, 255, 0.8}
	}
	control := Point{
		X: (source.Pos.X+target.Pos.X)/2 + (rng.Float64()-0.5)*controlPointJitter,
		Y: (source.Pos.Y+target.Pos.Y)/2 + (rng.Float64()-0.5)*controlPointJitter,
	}
	m.Path = quadraticPath(source.Pos, control, target.Pos, pathPoints)
	return m
}

// quadraticPath samples the quadratic Bézier curve from p0 to p2 through
// control point p1 at segments+1 evenly spaced parameters.
func quadraticPath(p0, p1, p2 Point, segments int) []Point {
	points := make([]Point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		u := 1 - t
		points = append(points, Point{
			X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
			Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
		})
	}
	return points
}

// Step advances the simulation by one frame. now is the time since the
// animation started and drives each agent's messaging cadence.
func (n *Network) Step(now time.Duration) {
	for _, a := range n.Agents {
		n.stepAgent(a, now)
	}

	live := n.Messages[:0:0]
	var spawned []*Message
	for _, m := range n.Messages {
		if reply := n.stepMessage(m); reply != nil {
			spawned = append(spawned, reply)
		}
		if !m.Completed {
			live = append(live, m)
		}
	}
	n.Messages = append(live, spawned...)

	if n.rng.Float64() < reconnectChance {
		n.reconnect()
	}
	if n.rng.Float64() < broadcastChance {
		n.broadcast()
	}
}

func (n *Network) stepAgent(a *Agent, now time.Duration) {
	rng := n.rng
	a.Pos.X += a.Vel.X
	a.Pos.Y += a.Vel.Y

	if a.Pos.X < a.Radius || a.Pos.X > n.cfg.Width-a.Radius {
		a.Vel.X = -a.Vel.X + (rng.Float64()-0.5)*bounceJitter
	}
	if a.Pos.Y < a.Radius || a.Pos.Y > n.cfg.Height-a.Radius {
		a.Vel.Y = -a.Vel.Y + (rng.Float64()-0.5)*bounceJitter
	}
	a.Pos.X = clamp(a.Pos.X, a.Radius, n.cfg.Width-a.Radius)
	a.Pos.Y = clamp(a.Pos.Y, a.Radius, n.cfg.Height-a.Radius)

	if a.Pulsing {
		a.PulseRadius += pulseGrowth
		if a.PulseRadius > n.cfg.ConnectionDistance {
			a.Pulsing = false
			a.PulseRadius = 0
		}
	}

	if now-a.LastMessage > a.MessageThreshold && rng.Float64() < n.cfg.MessageFrequency {
		a.Pulsing = true
		a.PulseRadius = 0
		a.LastMessage = now
		if len(a.Connections) > 0 {
			target := a.Connections[rng.Intn(len(a.Connections))]
			n.Messages = append(n.Messages, n.newMessage(a, target, Request))
		}
	}

	for i := range a.DataPoints {
		a.DataPoints[i].Height = clamp(a.DataPoints[i].Height+(rng.Float64()-0.5)*0.05, 0.3, 1)
	}
}

// stepMessage moves m along its path. A request that arrives may be
// answered; the answer is returned for the caller to enqueue.
func (n *Network) stepMessage(m *Message) *Message {
	m.Progress += m.Speed
	last := len(m.Path) - 1
	if m.Progress >= float64(last) {
		m.Completed = true
		m.Pos = m.Path[last]
		if m.Kind == Request && n.rng.Float64() < responseProbability {
			return n.newMessage(m.Target, m.Source, Response)
		}
		return nil
	}
	i := int(math.Floor(m.Progress))
	next := min(i+1, last)
	frac := m.Progress - float64(i)
	m.Pos = Point{
		X: m.Path[i].X + (m.Path[next].X-m.Path[i].X)*frac,
		Y: m.Path[i].Y + (m.Path[next].Y-m.Path[i].Y)*frac,
	}
	return nil
}

// reconnect links every pair of agents closer than ConnectionDistance.
func (n *Network) reconnect() {
	for _, a := range n.Agents {
		a.Connections = a.Connections[:0]
		for _, b := range n.Agents {
			if a != b && a.Pos.Dist(b.Pos) < n.cfg.ConnectionDistance {
				a.Connections = append(a.Connections, b)
			}
		}
	}
}

// broadcast makes a random primary agent message all of its connections.
func (n *Network) broadcast() {
	var primaries []*Agent
	for _, a := range n.Agents {
		if a.Type == Primary {
			primaries = append(primaries, a)
		}
	}
	if len(primaries) == 0 {
		return
	}
	sender := primaries[n.rng.Intn(len(primaries))]
	sender.Pulsing = true
	for _, target := range sender.Connections {
		n.Messages = append(n.Messages, n.newMessage(sender, target, Broadcast))
	}
}

// Run advances the network by frames steps at the given frame interval.
func (n *Network) Run(frames int, interval time.Duration) {
	for i := 1; i <= frames; i++ {
		n.Step(time.Duration(i) * interval)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
