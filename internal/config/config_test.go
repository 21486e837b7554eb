package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avelarde/gymcore/internal/model"
)

func TestLoadSlotRulesDefaults(t *testing.T) {
	t.Setenv("SLOT_FIXED_DURATION_MIN", "")
	t.Setenv("SLOT_WINDOW", "")
	t.Setenv("SLOT_CAPACITY_TIERS", "")

	rules := loadSlotRules()
	assert.Zero(t, rules.FixedDurationMin)
	assert.Empty(t, rules.WindowStart)
	assert.Empty(t, rules.WindowEnd)
	assert.Empty(t, rules.AllowedCapacities)
}

func TestLoadSlotRulesStrictVariant(t *testing.T) {
	t.Setenv("SLOT_FIXED_DURATION_MIN", "60")
	t.Setenv("SLOT_WINDOW", "06:00-22:00")
	t.Setenv("SLOT_CAPACITY_TIERS", "2,3")

	rules := loadSlotRules()
	assert.Equal(t, 60, rules.FixedDurationMin)
	assert.Equal(t, "06:00", rules.WindowStart)
	assert.Equal(t, "22:00", rules.WindowEnd)
	assert.Equal(t, []int{2, 3}, rules.AllowedCapacities)
}

func TestParseRoles(t *testing.T) {
	set := parseRoles("OWNER,ADMIN")
	assert.True(t, set.Contains(model.RoleOwner))
	assert.True(t, set.Contains(model.RoleAdmin))
	assert.False(t, set.Contains(model.RoleStaff))

	withStaff := parseRoles("OWNER, ADMIN, STAFF")
	assert.True(t, withStaff.Contains(model.RoleStaff))
}
