package sim

import (
	"github.com/cory-johannsen/inferno/internal/game/projectile"
)

// ProjectileSnapshot is the render view of one projectile in flight.
type ProjectileSnapshot struct {
	X              float64 `yaml:"x" json:"x"`
	Y              float64 `yaml:"y" json:"y"`
	Style          string  `yaml:"style" json:"style"`
	Color          string  `yaml:"color" json:"color"`
	RemainingDelay int     `yaml:"remaining_delay" json:"remaining_delay"`
}

// UnitSnapshot is the render view of one unit.
type UnitSnapshot struct {
	ID          string               `yaml:"id" json:"id"`
	Name        string               `yaml:"name" json:"name"`
	Kind        string               `yaml:"kind" json:"kind"`
	X           int                  `yaml:"x" json:"x"`
	Y           int                  `yaml:"y" json:"y"`
	Size        int                  `yaml:"size" json:"size"`
	Hitpoint    int                  `yaml:"hitpoint" json:"hitpoint"`
	MaxHitpoint int                  `yaml:"max_hitpoint" json:"max_hitpoint"`
	Prayer      int                  `yaml:"prayer" json:"prayer"`
	Overhead    string               `yaml:"overhead,omitempty" json:"overhead,omitempty"`
	Prayers     []string             `yaml:"prayers,omitempty" json:"prayers,omitempty"`
	Aggro       string               `yaml:"aggro,omitempty" json:"aggro,omitempty"`
	Dying       bool                 `yaml:"dying" json:"dying"`
	CombatLevel int                  `yaml:"combat_level" json:"combat_level"`
	Incoming    []ProjectileSnapshot `yaml:"incoming,omitempty" json:"incoming,omitempty"`
}

// ObstacleSnapshot is the render view of one obstacle.
type ObstacleSnapshot struct {
	Name string `yaml:"name" json:"name"`
	X    int    `yaml:"x" json:"x"`
	Y    int    `yaml:"y" json:"y"`
	Size int    `yaml:"size" json:"size"`
}

// Snapshot is the render view of a region at a tick boundary.
type Snapshot struct {
	Tick      int                `yaml:"tick" json:"tick"`
	Units     []UnitSnapshot     `yaml:"units" json:"units"`
	Obstacles []ObstacleSnapshot `yaml:"obstacles,omitempty" json:"obstacles,omitempty"`
}

// Snapshot captures the state external renderers consume. Hidden projectiles
// and hits that have landed are left out.
func (r *Region) Snapshot() Snapshot {
	snap := Snapshot{Tick: r.tick}
	for _, u := range r.units {
		us := UnitSnapshot{
			ID:          u.ID.String(),
			Name:        u.Name,
			Kind:        u.Kind().String(),
			X:           u.Location().X,
			Y:           u.Location().Y,
			Size:        u.Size(),
			Hitpoint:    u.Current.Hitpoint,
			MaxHitpoint: u.Stats.Hitpoint,
			Prayer:      u.Current.Prayer,
			Dying:       u.IsDying(),
			CombatLevel: u.CombatLevel(),
		}
		if oh := u.Overhead(); oh != nil {
			us.Overhead = oh.ID
		}
		for _, p := range u.ActivePrayers() {
			us.Prayers = append(us.Prayers, p.ID)
		}
		if u.Aggro != nil {
			us.Aggro = u.Aggro.ID.String()
		}
		for _, p := range u.Incoming.All() {
			if p.Options.Hidden || p.RemainingDelay <= 0 {
				continue
			}
			us.Incoming = append(us.Incoming, ProjectileSnapshot{
				X:              p.X,
				Y:              p.Y,
				Style:          string(p.Style),
				Color:          projectile.StyleColor(p.Style, r.logger),
				RemainingDelay: p.RemainingDelay,
			})
		}
		snap.Units = append(snap.Units, us)
	}
	for _, o := range r.obstacles {
		snap.Obstacles = append(snap.Obstacles, ObstacleSnapshot{Name: o.Name, X: o.location.X, Y: o.location.Y, Size: o.size})
	}
	return snap
}
