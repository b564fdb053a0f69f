package netsim

import (
	"github.com/montanaflynn/stats"
)

// Summary describes the current shape of a network.
type Summary struct {
	Agents   int `json:"agents"`
	Messages int `json:"messages"`
	Links    int `json:"links"`
	// MeanDegree is the average number of connections per agent.
	MeanDegree float64 `json:"mean_degree"`
	// P90LinkLength is the 90th percentile distance between connected agents.
	P90LinkLength float64 `json:"p90_link_length"`
}

// Summary computes connection statistics over the live network.
func (n *Network) Summary() Summary {
	s := Summary{Agents: len(n.Agents), Messages: len(n.Messages)}
	if len(n.Agents) == 0 {
		return s
	}

	degrees := make(stats.Float64Data, 0, len(n.Agents))
	var lengths stats.Float64Data
	for _, a := range n.Agents {
		degrees = append(degrees, float64(len(a.Connections)))
		for _, b := range a.Connections {
			lengths = append(lengths, a.Pos.Dist(b.Pos))
		}
	}
	s.Links = len(lengths) / 2

	if mean, err := degrees.Mean(); err == nil {
		s.MeanDegree = mean
	}
	if p90, err := lengths.Percentile(90); err == nil {
		s.P90LinkLength = p90
	}
	return s
}
