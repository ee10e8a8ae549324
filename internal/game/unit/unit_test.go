package unit_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/inferno/internal/game/combat"
	"github.com/cory-johannsen/inferno/internal/game/grid"
	"github.com/cory-johannsen/inferno/internal/game/prayer"
	"github.com/cory-johannsen/inferno/internal/game/projectile"
	"github.com/cory-johannsen/inferno/internal/game/unit"
)

func TestNewMob_FromTemplate(t *testing.T) {
	c := testCatalog(t)
	tmpl := meleeTemplate(4)
	tmpl.StunOnSpawn = 1
	tmpl.Bonuses = combat.Bonuses{Defence: combat.StyleBonuses{Slash: 65}, Other: combat.OtherBonuses{MeleeStrength: 40}}
	m := newMob(t, c, tmpl, grid.Location{X: 5, Y: 10}, unit.SpawnOptions{SpawnDelay: 2, Cooldown: 3})

	assert.Equal(t, combat.KindMob, m.Kind())
	assert.Equal(t, 4, m.Size())
	assert.Equal(t, 1, m.Stunned)
	assert.Equal(t, 2, m.SpawnDelay)
	assert.Equal(t, 3, m.AttackDelay)
	assert.Equal(t, -1, m.Dying)
	assert.Equal(t, 65, m.Bonuses().Defence.Slash)
	assert.Equal(t, 1.0, m.Bonuses().Other.MagicDamage)
	assert.Equal(t, combat.StyleSlash, m.AttackStyle())
	assert.Equal(t, 1, m.AttackRange())
	assert.Equal(t, 2, m.FlinchDelay())
	assert.Equal(t, grid.CollisionBlockMovement, m.Collision())
	assert.Nil(t, m.ActivePrayers())

	m.Current.Hitpoint = 10
	assert.Equal(t, 50, m.Stats.Hitpoint, "current stats are a copy")
}

func TestNewMob_UnknownWeapon(t *testing.T) {
	tmpl := meleeTemplate(1)
	tmpl.Weapons[combat.StyleSlash] = "nope"
	_, err := unit.NewMob(tmpl, testCatalog(t), grid.Location{}, unit.SpawnOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, unit.ErrUnknownWeapon))
}

func TestTemplate_Validate(t *testing.T) {
	tmpl := meleeTemplate(3)
	tmpl.Size = 0
	tmpl.AttackStyle = combat.StyleRange
	tmpl.MeleeIfClose = combat.StyleMagic
	err := tmpl.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "size must be >= 1")
	assert.Contains(t, err.Error(), `attack_style "range" has no weapon`)
	assert.Contains(t, err.Error(), "is not a melee style")
}

func TestLoadTemplates(t *testing.T) {
	dir := t.TempDir()
	doc := `
id: jal_ak_rek_xil
name: Jal-AkRek-Xil
size: 1
stats: {attack: 1, strength: 1, defence: 95, range: 120, magic: 1, hitpoint: 15}
attack_style: range
attack_range: 15
attack_speed: 4
weapons:
  range: spines
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "xil.yaml"), []byte(doc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	got, err := unit.LoadTemplates(dir)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 95, got["jal_ak_rek_xil"].Stats.Defence)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "xil2.yaml"), []byte(doc), 0o644))
	_, err = unit.LoadTemplates(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already defined")
}

func TestLoadTemplateFromBytes_RejectsUnknownFields(t *testing.T) {
	_, err := unit.LoadTemplateFromBytes([]byte("id: x\nname: X\nsize: 1\nhp: 3\n"))
	require.Error(t, err)
}

func TestCatalog_Load(t *testing.T) {
	c := testCatalog(t)
	def, err := c.Weapon("spines")
	require.NoError(t, err)
	assert.Equal(t, 2, def.Projectile.ReduceDelay)
	assert.Equal(t, 2, def.LaunchDelay)

	_, err = c.Weapon("missing")
	assert.True(t, errors.Is(err, unit.ErrUnknownWeapon))

	err = c.Load([]byte("weapons:\n  - {id: spines, style: range, range: 1, speed: 1}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	err = unit.NewCatalog().Load([]byte("items:\n  - {id: axe, slot: weapon, weapon: axe}\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, unit.ErrUnknownWeapon))
}

func TestWeaponDef_Validate(t *testing.T) {
	def := &unit.WeaponDef{ID: "wand", Style: combat.StyleMagic, Range: 10, Speed: 5, HealFraction: 2}
	err := def.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_spell_damage")
	assert.Contains(t, err.Error(), "heal_fraction")
}

func TestEquipmentChanged_SumsBonusesAndSets(t *testing.T) {
	c := testCatalog(t)
	p := newPlayer(t, c, grid.Location{X: 1, Y: 1}, "bow", "void_top")

	assert.Equal(t, 70, p.Bonuses().Attack.Range)
	assert.Equal(t, 45, p.Bonuses().Defence.Stab)
	assert.Empty(t, p.SetEffects(), "set is incomplete")
	assert.Equal(t, combat.StyleRange, p.AttackStyle())
	assert.Equal(t, 10, p.AttackRange())
	assert.Equal(t, 5, p.AttackSpeed())

	robe, ok := c.Item("void_robe")
	require.True(t, ok)
	prev, err := p.Equip(c, robe)
	require.NoError(t, err)
	assert.Nil(t, prev)
	require.Len(t, p.SetEffects(), 1)
	assert.Equal(t, "void_ranger", p.SetEffects()[0].ID)
	assert.Equal(t, 75, p.Bonuses().Defence.Stab)
	assert.Equal(t, 2, p.Bonuses().Other.Prayer)

	_, err = p.Unequip(c, unit.SlotWeapon)
	require.NoError(t, err)
	assert.Equal(t, combat.StyleCrush, p.AttackStyle())
	assert.Equal(t, 1, p.AttackRange())
	assert.Equal(t, 0, p.Bonuses().Attack.Range)
}

func TestNewPlayer_Defaults(t *testing.T) {
	p := newPlayer(t, testCatalog(t), grid.Location{X: 1, Y: 1})
	assert.Equal(t, unit.PlayerStats, p.Stats)
	assert.Equal(t, 99, p.Current.Prayer)
	assert.Equal(t, grid.CollisionNone, p.Collision())
	assert.Equal(t, 1, p.Speed())
	p.Running = true
	assert.Equal(t, 2, p.Speed())
	assert.Equal(t, 126, p.CombatLevel())
}

func TestCanMoveCanAttack(t *testing.T) {
	m := newMob(t, testCatalog(t), meleeTemplate(1), grid.Location{X: 1, Y: 1}, unit.SpawnOptions{})
	assert.True(t, m.CanMove())
	assert.True(t, m.CanAttack())

	m.HasLOS = true
	assert.False(t, m.CanMove())
	assert.True(t, m.CanAttack())
	m.HasLOS = false

	m.Freeze(3)
	assert.False(t, m.CanMove())
	assert.True(t, m.CanAttack())
	m.Freeze(1)
	assert.Equal(t, 3, m.Frozen, "a shorter freeze is ignored")
	m.Frozen = 0

	m.Stun(2)
	assert.False(t, m.CanMove())
	assert.False(t, m.CanAttack())
	m.Stunned = 0

	m.Dying = 2
	assert.False(t, m.CanMove())
	assert.False(t, m.CanAttack())
}

func TestCenter(t *testing.T) {
	m := newMob(t, testCatalog(t), meleeTemplate(4), grid.Location{X: 10, Y: 10}, unit.SpawnOptions{})
	x, y := m.Center()
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 9.0, y)
}

func TestProcessIncomingAttacks_DamageAndClamp(t *testing.T) {
	w := newTestWorld(20)
	c := testCatalog(t)
	p := w.add(newPlayer(t, c, grid.Location{X: 2, Y: 2}))
	m := w.add(newMob(t, c, meleeTemplate(1), grid.Location{X: 2, Y: 3}, unit.SpawnOptions{}))

	p.AddProjectile(projectile.New(m, p, 30, combat.StyleSlash, 2, projectile.Options{}))
	p.AddProjectile(projectile.New(m, p, 200, combat.StyleSlash, 1, projectile.Options{}))

	p.ProcessIncomingAttacks(w)
	assert.Equal(t, 0, p.Current.Hitpoint, "hitpoints never go negative")
	assert.Equal(t, 2, p.Incoming.Len(), "landed hits stay queued until the next step")
	assert.Nil(t, p.Aggro, "players do not auto retaliate")

	p.ProcessIncomingAttacks(w)
	assert.Equal(t, 0, p.Current.Hitpoint)
	assert.Len(t, w.eventsOf(unit.EventLanded), 2)
}

func TestProcessIncomingAttacks_HealOnlyWhenHurt(t *testing.T) {
	w := newTestWorld(20)
	c := testCatalog(t)
	m := w.add(newMob(t, c, meleeTemplate(1), grid.Location{X: 2, Y: 2}, unit.SpawnOptions{}))
	m.AutoRetaliate = false

	m.AddProjectile(projectile.New(nil, m, -10, combat.StyleHeal, 1, projectile.Options{}))
	m.ProcessIncomingAttacks(w)
	assert.Equal(t, 50, m.Current.Hitpoint)

	m.Current.Hitpoint = 45
	m.AddProjectile(projectile.New(nil, m, -10, combat.StyleHeal, 1, projectile.Options{}))
	m.ProcessIncomingAttacks(w)
	assert.Equal(t, 50, m.Current.Hitpoint)
}

func TestProcessIncomingAttacks_RetaliateWithFlinch(t *testing.T) {
	w := newTestWorld(20)
	c := testCatalog(t)
	p := w.add(newPlayer(t, c, grid.Location{X: 2, Y: 2}))
	m := w.add(newMob(t, c, meleeTemplate(1), grid.Location{X: 8, Y: 8}, unit.SpawnOptions{}))

	m.AddProjectile(projectile.New(p, m, 1, combat.StyleRange, 1, projectile.Options{}))
	m.ProcessIncomingAttacks(w)
	assert.Same(t, p, m.Aggro)
	assert.Equal(t, 3, m.AttackDelay, "flinch delay plus one")
}

func TestProcessIncomingAttacks_RetaliateOnAnyHit(t *testing.T) {
	w := newTestWorld(20)
	c := testCatalog(t)
	p := w.add(newPlayer(t, c, grid.Location{X: 2, Y: 2}))
	other := w.add(newMob(t, c, meleeTemplate(1), grid.Location{X: 12, Y: 12}, unit.SpawnOptions{}))

	sticky := w.add(newMob(t, c, meleeTemplate(1), grid.Location{X: 8, Y: 8}, unit.SpawnOptions{Aggro: other}))
	sticky.AddProjectile(projectile.New(p, sticky, 1, combat.StyleRange, 1, projectile.Options{}))
	sticky.ProcessIncomingAttacks(w)
	assert.Same(t, other, sticky.Aggro, "default retaliation keeps an existing aggro")

	tmpl := meleeTemplate(1)
	tmpl.RetaliateOnAnyHit = true
	fickle := w.add(newMob(t, c, tmpl, grid.Location{X: 5, Y: 5}, unit.SpawnOptions{Aggro: other}))
	fickle.AddProjectile(projectile.New(p, fickle, 1, combat.StyleRange, 1, projectile.Options{}))
	fickle.ProcessIncomingAttacks(w)
	assert.Same(t, p, fickle.Aggro)
}

func TestAddProjectile_SpawnDelayTakesAggro(t *testing.T) {
	c := testCatalog(t)
	p := newPlayer(t, c, grid.Location{X: 2, Y: 2})
	m := newMob(t, c, meleeTemplate(1), grid.Location{X: 8, Y: 8}, unit.SpawnOptions{SpawnDelay: 3})

	m.AddProjectile(projectile.New(p, m, 1, combat.StyleRange, 3, projectile.Options{}))
	assert.Same(t, p, m.Aggro)
	assert.Equal(t, 1, m.Incoming.Len())
}

func TestDetectDeath_Sequence(t *testing.T) {
	w := newTestWorld(10)
	m := w.add(newMob(t, testCatalog(t), meleeTemplate(1), grid.Location{X: 2, Y: 2}, unit.SpawnOptions{}))

	assert.False(t, m.DetectDeath(w))
	assert.Equal(t, -1, m.Dying)

	m.Current.Hitpoint = 0
	assert.False(t, m.DetectDeath(w))
	assert.Equal(t, unit.DeathAnimationLength, m.Dying)
	assert.True(t, m.IsDying())
	require.Len(t, w.eventsOf(unit.EventDied), 1)

	assert.False(t, m.DetectDeath(w))
	assert.False(t, m.DetectDeath(w))
	assert.True(t, m.DetectDeath(w))
	assert.False(t, m.IsDying())
	assert.True(t, m.IsDead())
	assert.Len(t, w.eventsOf(unit.EventDied), 1, "death fires once")
}

// TestDetectDeath_Property verifies every unit whose hitpoints reach zero is
// removable exactly DeathAnimationLength ticks later.
func TestDetectDeath_Property(t *testing.T) {
	c := testCatalog(t)
	rapid.Check(t, func(rt *rapid.T) {
		w := newTestWorld(10)
		m := w.add(newMob(t, c, meleeTemplate(1), grid.Location{X: 2, Y: 2}, unit.SpawnOptions{}))
		alive := rapid.IntRange(0, 5).Draw(rt, "alive")
		for range alive {
			if m.DetectDeath(w) {
				rt.Fatalf("removed while alive")
			}
		}
		m.Current.Hitpoint = 0
		ticks := 0
		for !m.DetectDeath(w) {
			ticks++
			if ticks > 10 {
				rt.Fatalf("never removed")
			}
		}
		if ticks != unit.DeathAnimationLength {
			rt.Fatalf("removed after %d ticks", ticks)
		}
	})
}

func TestDrainPrayer(t *testing.T) {
	w := newTestWorld(10)
	p := w.add(newPlayer(t, testCatalog(t), grid.Location{X: 2, Y: 2}))
	piety, ok := prayer.Standard().Get("piety")
	require.True(t, ok)
	require.True(t, p.ActivatePrayer(piety))

	assert.Equal(t, 0, p.DrainPrayer(w))
	assert.Equal(t, 0, p.DrainPrayer(w))
	assert.Equal(t, 1, p.DrainPrayer(w))
	assert.Equal(t, 98, p.Current.Prayer)

	p.Current.Prayer = 1
	for range 3 {
		p.DrainPrayer(w)
	}
	assert.Equal(t, 0, p.Current.Prayer)
	assert.Empty(t, p.ActivePrayers())
	assert.Len(t, w.eventsOf(unit.EventPrayerDepleted), 1)
	assert.False(t, p.ActivatePrayer(piety), "no prayer points left")
}

func TestDrainPrayer_EmptyPoolWithoutLoss(t *testing.T) {
	w := newTestWorld(10)
	p := w.add(newPlayer(t, testCatalog(t), grid.Location{X: 2, Y: 2}))
	rigour, ok := prayer.Standard().Get("rigour")
	require.True(t, ok)
	require.True(t, p.ActivatePrayer(rigour))
	p.Current.Prayer = 0

	assert.Equal(t, 0, p.DrainPrayer(w), "counter is still below resistance")
	assert.Empty(t, p.ActivePrayers())
	assert.Len(t, w.eventsOf(unit.EventPrayerDepleted), 1)

	p.DrainPrayer(w)
	assert.Len(t, w.eventsOf(unit.EventPrayerDepleted), 1, "nothing left to switch off")
}
