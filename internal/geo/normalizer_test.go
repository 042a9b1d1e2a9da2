package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanecon/mexmetro/internal/model"
)

func testMapping() []model.MetroMapping {
	return []model.MetroMapping{
		{Geocode: "19039", CodeZM: 31, ZM: "Monterrey", Entidad: "Nuevo León"},
		{Geocode: "19026", CodeZM: 31, ZM: "Monterrey", Entidad: "Nuevo León"},
		{Geocode: "05030", CodeZM: 5, ZM: "Saltillo-Ramos Arizpe", Entidad: "Coahuila"},
		{Geocode: "24028", CodeZM: 37, ZM: "San Luis Potosí-Soledad", Entidad: "San Luis Potosí"},
	}
}

func TestGeocodePadding(t *testing.T) {
	assert.Equal(t, "05030", Geocode("5", "30"))
	assert.Equal(t, "19039", Geocode("19", "039"))
	assert.Equal(t, "09002", Geocode(" 9 ", " 2 "))
}

func TestPriorGeocodeOffsets(t *testing.T) {
	// Wider fixed-width residence fields keep leading filler characters.
	assert.Equal(t, "19039", PriorGeocode("019", "0039"))
	assert.Equal(t, "05030", PriorGeocode("5", "30"))
}

func TestResolveAppliesOverrides(t *testing.T) {
	n := NewNormalizer(testMapping(), map[int]string{5: "Saltillo", 37: "San Luis Potosí"})

	m, ok := n.Resolve("05030")
	require.True(t, ok)
	assert.Equal(t, 5, m.CodeZM)
	assert.Equal(t, "Saltillo", m.ZM)

	m, ok = n.Resolve("24028")
	require.True(t, ok)
	assert.Equal(t, "San Luis Potosí", m.ZM)

	m, ok = n.Resolve("19039")
	require.True(t, ok)
	assert.Equal(t, "Monterrey", m.ZM)
}

func TestResolveUnpadded(t *testing.T) {
	n := NewNormalizer(testMapping(), nil)
	m, ok := n.Resolve("5030")
	require.True(t, ok)
	assert.Equal(t, 5, m.CodeZM)
}

func TestNameByCode(t *testing.T) {
	n := NewNormalizer(testMapping(), map[int]string{5: "Saltillo"})

	name, ok := n.NameByCode(5)
	require.True(t, ok)
	assert.Equal(t, "Saltillo", name)

	_, ok = n.NameByCode(999)
	assert.False(t, ok)
}

func TestJoinIsStrictLeftJoin(t *testing.T) {
	n := NewNormalizer(testMapping(), nil)
	in := []string{"19039", "99999", "05030", "99998"}

	out := n.Join(in)
	require.Len(t, out, len(in))

	assert.True(t, out[0].Matched)
	assert.Equal(t, 31, out[0].Metro.CodeZM)

	assert.False(t, out[1].Matched)
	assert.Zero(t, out[1].Metro.CodeZM)
	assert.Empty(t, out[1].Metro.ZM)

	assert.True(t, out[2].Matched)
	assert.False(t, out[3].Matched)
}
