package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHierarchicalCategories_Path(t *testing.T) {
	h := &HierarchicalCategories{
		Lvl0: "Appliances",
		Lvl1: "Appliances > Air Conditioners",
		Lvl2: "Appliances > Air Conditioners > In-Wall Air Conditioners",
	}

	assert.Equal(t, []string{"Appliances", "Air Conditioners", "In-Wall Air Conditioners"}, h.Path())
	assert.Equal(t, "Appliances > Air Conditioners > In-Wall Air Conditioners", h.Deepest())
}

func TestHierarchicalCategories_PartialDepth(t *testing.T) {
	h := &HierarchicalCategories{Lvl0: "Audio"}
	assert.Equal(t, []string{"Audio"}, h.Path())
	assert.Equal(t, "Audio", h.Deepest())
}

func TestHierarchicalCategories_Nil(t *testing.T) {
	var h *HierarchicalCategories
	assert.Nil(t, h.Path())
	assert.Equal(t, "", h.Deepest())
	assert.Equal(t, "", h.Level(0))
}

func TestCart_Totals(t *testing.T) {
	cart := Cart{
		UserID: "u1",
		Items: []CartItem{
			{ProductID: "p1", Name: "TV", Price: 499.99, Quantity: 2},
			{ProductID: "p2", Name: "Cable", Price: 9.99, Quantity: 3},
		},
	}

	assert.InDelta(t, 1029.95, cart.TotalPrice(), 0.001)
	assert.Equal(t, 5, cart.ItemCount())
	assert.Equal(t, 1, cart.FindItemIndex("p2"))
	assert.Equal(t, -1, cart.FindItemIndex("missing"))
}

func TestParsePriceRange(t *testing.T) {
	tests := []struct {
		token    string
		min, max *float64
	}{
		{"100:500", f(100), f(500)},
		{"100:", f(100), nil},
		{":500", nil, f(500)},
		{"", nil, nil},
		{"abc:def", nil, nil},
		{"50", f(50), nil},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			gotMin, gotMax := ParsePriceRange(tt.token)
			assert.Equal(t, tt.min, gotMin)
			assert.Equal(t, tt.max, gotMax)
		})
	}
}

func f(v float64) *float64 { return &v }

func TestAnalyticsEvent_DecodeData(t *testing.T) {
	raw := []byte(`{
		"event_type": "add_to_cart",
		"data": {"product_id": "p1", "product_name": "TV", "quantity": 2}
	}`)

	var event AnalyticsEvent
	require.NoError(t, json.Unmarshal(raw, &event))

	data, err := event.DecodeData()
	require.NoError(t, err)

	cart, ok := data.(*CartEventData)
	require.True(t, ok)
	assert.Equal(t, "p1", cart.ProductID)
	assert.Equal(t, 2, cart.Quantity)
}

func TestAnalyticsEvent_DecodeData_UnknownType(t *testing.T) {
	event := AnalyticsEvent{EventType: "made_up", Data: []byte(`{}`)}
	_, err := event.DecodeData()
	assert.Error(t, err)
}

func TestAnalyticsEvent_DecodeData_MalformedPayload(t *testing.T) {
	event := AnalyticsEvent{EventType: EventSearch, Data: []byte(`{"query": 5}`)}
	_, err := event.DecodeData()
	assert.Error(t, err)
}
