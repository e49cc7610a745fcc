package cuds

import (
	"iter"
	"sync"

	"github.com/google/uuid"
)

// MemoryParticles is an in-memory Particles container.
type MemoryParticles struct {
	mu        sync.RWMutex
	name      string
	particles []Particle
	bonds     []Bond
}

var _ Particles = (*MemoryParticles)(nil)

// NewParticles creates an empty particle system.
func NewParticles(name string) *MemoryParticles {
	return &MemoryParticles{name: name}
}

func (p *MemoryParticles) Name() string { return p.name }
func (p *MemoryParticles) Kind() Kind   { return KindParticles }

// AddParticles stores particles and returns their UIDs.
func (p *MemoryParticles) AddParticles(particles ...Particle) []UID {
	p.mu.Lock()
	defer p.mu.Unlock()

	uids := make([]UID, len(particles))
	for i, particle := range particles {
		if particle.UID == uuid.Nil {
			particle.UID = uuid.New()
		}
		particle.Data = particle.Data.Clone()
		p.particles = append(p.particles, particle)
		uids[i] = particle.UID
	}
	return uids
}

// AddBonds stores bonds and returns their UIDs.
func (p *MemoryParticles) AddBonds(bonds ...Bond) []UID {
	p.mu.Lock()
	defer p.mu.Unlock()

	uids := make([]UID, len(bonds))
	for i, b := range bonds {
		b = copyBond(b)
		if b.UID == uuid.Nil {
			b.UID = uuid.New()
		}
		p.bonds = append(p.bonds, b)
		uids[i] = b.UID
	}
	return uids
}

func (p *MemoryParticles) Particles() iter.Seq[Particle] {
	return func(yield func(Particle) bool) {
		p.mu.RLock()
		particles := p.particles
		p.mu.RUnlock()
		for _, particle := range particles {
			particle.Data = particle.Data.Clone()
			if !yield(particle) {
				return
			}
		}
	}
}

func (p *MemoryParticles) Bonds() iter.Seq[Bond] {
	return func(yield func(Bond) bool) {
		p.mu.RLock()
		bonds := p.bonds
		p.mu.RUnlock()
		for _, b := range bonds {
			if !yield(copyBond(b)) {
				return
			}
		}
	}
}

// Counts returns the number of particles and bonds.
func (p *MemoryParticles) Counts() (particles, bonds int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.particles), len(p.bonds)
}

func copyBond(b Bond) Bond {
	return Bond{UID: b.UID, Particles: append([]UID(nil), b.Particles...), Data: b.Data.Clone()}
}
