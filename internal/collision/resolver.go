// Package collision is the collision resolver spec.md treats as an
// external collaborator: the mercurana predictor only detects physical
// overlaps and hands the pair list off; what happens to N afterwards is
// this package's concern.
package collision

import "mercurana/internal/physics"

// Resolver consumes one batch of overlapping particle-index pairs
// detected during a single predictor pass and returns the indices that
// were removed from the particle array as a result (merges, absorption,
// fragmentation — whatever the host's physics calls for). spec.md §4.7:
// any change in N is a structural invalidation the predictor must
// restart from.
type Resolver interface {
	Resolve(particles *[]*physics.Particle, pairs [][2]int) (removed []int, err error)
}

// MergeResolver is the bundled default: on every detected overlap it
// merges the lower-mass particle into the higher-mass one, conserving
// linear momentum and total mass, and removes the absorbed particle.
// This is a simple, stdlib-only resolver — spec.md explicitly puts
// "non-direct collision detection" out of scope, and a full
// fragmentation/bouncing model is outside what this core needs to
// demonstrate the hand-off contract.
type MergeResolver struct{}

// Resolve implements Resolver.
func (MergeResolver) Resolve(particles *[]*physics.Particle, pairs [][2]int) ([]int, error) {
	dead := make(map[int]bool)
	var removed []int

	for _, pair := range pairs {
		i, j := pair[0], pair[1]
		if dead[i] || dead[j] {
			continue // already absorbed by an earlier pair this batch
		}
		ps := *particles
		survivor, victim := i, j
		if ps[j].Mass > ps[i].Mass {
			survivor, victim = j, i
		}
		merge(ps[survivor], ps[victim])
		dead[victim] = true
		removed = append(removed, victim)
	}

	if len(removed) == 0 {
		return nil, nil
	}

	*particles = compact(*particles, dead)
	return removed, nil
}

func merge(survivor, victim *physics.Particle) {
	totalMass := survivor.Mass + victim.Mass
	momentum := survivor.Velocity.Scale(float64(survivor.Mass)).Add(victim.Velocity.Scale(float64(victim.Mass)))
	survivor.Velocity = momentum.Scale(1.0 / float64(totalMass))
	survivor.Mass = totalMass
}

func compact(particles []*physics.Particle, dead map[int]bool) []*physics.Particle {
	out := make([]*physics.Particle, 0, len(particles)-len(dead))
	for i, p := range particles {
		if dead[i] {
			continue
		}
		out = append(out, p)
	}
	return out
}
