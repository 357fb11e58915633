package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/transitlog-sink/internal/domain"
)

func flag(v bool) *bool { return &v }

func entities(ids ...string) []domain.AffectedEntity {
	out := make([]domain.AffectedEntity, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.AffectedEntity{EntityID: id})
	}
	return out
}

func TestExpandBulletin(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Bulletin
		want []domain.AffectedRow
	}{
		{
			name: "routes then stops in source order",
			in: domain.Bulletin{
				AffectedRoutes: entities("R1", "R2"),
				AffectedStops:  entities("S1"),
			},
			want: []domain.AffectedRow{
				{Kind: domain.EntityRoute, EntityID: "R1"},
				{Kind: domain.EntityRoute, EntityID: "R2"},
				{Kind: domain.EntityStop, EntityID: "S1"},
			},
		},
		{
			name: "stops only",
			in:   domain.Bulletin{AffectedStops: entities("S2", "S1")},
			want: []domain.AffectedRow{
				{Kind: domain.EntityStop, EntityID: "S2"},
				{Kind: domain.EntityStop, EntityID: "S1"},
			},
		},
		{
			name: "affects all routes with no entities yields one none row",
			in:   domain.Bulletin{AffectsAllRoutes: flag(true)},
			want: []domain.AffectedRow{{Kind: domain.EntityNone}},
		},
		{
			name: "affects all stops with no entities yields one none row",
			in:   domain.Bulletin{AffectsAllStops: flag(true)},
			want: []domain.AffectedRow{{Kind: domain.EntityNone}},
		},
		{
			name: "both flags still yield a single none row",
			in:   domain.Bulletin{AffectsAllRoutes: flag(true), AffectsAllStops: flag(true)},
			want: []domain.AffectedRow{{Kind: domain.EntityNone}},
		},
		{
			name: "flag set alongside entities adds no none row",
			in: domain.Bulletin{
				AffectsAllRoutes: flag(true),
				AffectedRoutes:   entities("R1"),
			},
			want: []domain.AffectedRow{{Kind: domain.EntityRoute, EntityID: "R1"}},
		},
		{
			name: "nothing affected is dropped",
			in:   domain.Bulletin{},
			want: []domain.AffectedRow{},
		},
		{
			name: "flags explicitly false are dropped",
			in:   domain.Bulletin{AffectsAllRoutes: flag(false), AffectsAllStops: flag(false)},
			want: []domain.AffectedRow{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.ExpandBulletin(tc.in))
		})
	}
}

func TestBulletin_AllFlags(t *testing.T) {
	var b domain.Bulletin
	assert.False(t, b.AllRoutes(), "absent flag counts as false")
	assert.False(t, b.AllStops(), "absent flag counts as false")

	b.AffectsAllRoutes = flag(true)
	b.AffectsAllStops = flag(false)
	assert.True(t, b.AllRoutes())
	assert.False(t, b.AllStops())
}

func TestEntityKind_String(t *testing.T) {
	assert.Equal(t, "NONE", domain.EntityNone.String())
	assert.Equal(t, "ROUTE", domain.EntityRoute.String())
	assert.Equal(t, "STOP", domain.EntityStop.String())
}
