package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalStringAndNumber(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"grill","b":42,"c":null}`), &v))
	assert.Equal(t, ID("grill"), v.A)
	assert.Equal(t, ID("42"), v.B)
	assert.Equal(t, ID(""), v.C)
}

func TestID_RejectsObjects(t *testing.T) {
	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &id))
}

func TestMoney_DecodeRoundsToCents(t *testing.T) {
	tests := map[string]Money{
		`28.99`:  2899,
		`"12.5"`: 1250,
		`0.1`:    10,
		`19.999`: 2000,
		`null`:   0,
		`1e2`:    10000,
	}
	for in, want := range tests {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(in), &m), in)
		assert.Equal(t, want, m, in)
	}
}

func TestMoney_InvalidInput(t *testing.T) {
	for _, in := range []string{`"abc"`, `"NaN"`, `"Inf"`, `"-Infinity"`, `1e300`, `-1e14`} {
		m := Money(7)
		assert.Error(t, json.Unmarshal([]byte(in), &m), in)
		assert.Equal(t, Money(7), m, "a rejected amount leaves the value untouched: %s", in)
	}

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`12345678.91`), &m))
	assert.Equal(t, Money(1234567891), m)
}

func TestMoney_EncodeAndFloat(t *testing.T) {
	m := Money(2899)
	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "28.99", string(b))
	assert.Equal(t, 28.99, m.Float64())
	assert.Equal(t, "5.00", Money(500).String())
}

func TestCartLine_Total(t *testing.T) {
	line := CartLine{
		Price:    MoneyFromFloat(10.50),
		Quantity: 2,
		Modifiers: []SelectedModifier{
			{ModifierID: "1", Quantity: 2, Price: MoneyFromFloat(0.75)},
			{ModifierID: "2", Quantity: 1, Price: MoneyFromFloat(1.20)},
		},
	}
	assert.Equal(t, Money(1320), line.UnitPrice())
	assert.Equal(t, Money(2640), line.Total())
}

func TestCartInputFromMenuItem_PrefersImageURL(t *testing.T) {
	in := CartInputFromMenuItem(MenuItem{ID: "5", Name: "Steak", Price: 2899, Image: "steak.png", ImageURL: "https://cdn/steak.png"})
	assert.Equal(t, "https://cdn/steak.png", in.ImageURL)

	in = CartInputFromMenuItem(MenuItem{ID: "5", Name: "Steak", Image: "steak.png"})
	assert.Equal(t, "steak.png", in.ImageURL)
}

func TestMenu_Item(t *testing.T) {
	menu := Menu{Items: []MenuItem{{ID: "5", Name: "Grilled Ribeye Steak"}}}
	it, ok := menu.Item("5")
	assert.True(t, ok)
	assert.Equal(t, "Grilled Ribeye Steak", it.Name)

	_, ok = menu.Item("6")
	assert.False(t, ok)
}

func TestModifier_LocalizedName(t *testing.T) {
	m := Modifier{Name: "Käse", NameEn: "Cheese"}
	assert.Equal(t, "Cheese", m.LocalizedName("en"))
	assert.Equal(t, "Käse", m.LocalizedName("de"))
	assert.Equal(t, "Käse", m.LocalizedName("fr"))
}

func TestCookieConsent_Granted(t *testing.T) {
	def := DefaultCookieConsent()
	assert.True(t, def.Granted(ConsentNecessary))
	assert.False(t, def.Granted(ConsentAnalytics))
	assert.False(t, def.Granted(ConsentKind("unknown")))

	all := AllCookieConsent()
	for _, k := range []ConsentKind{ConsentNecessary, ConsentAnalytics, ConsentMarketing, ConsentPreferences} {
		assert.True(t, all.Granted(k), k)
	}
}

func TestParseConsentKind(t *testing.T) {
	k, err := ParseConsentKind("marketing")
	require.NoError(t, err)
	assert.Equal(t, ConsentMarketing, k)

	_, err = ParseConsentKind("tracking")
	assert.Error(t, err)
}

func TestOrderStatus(t *testing.T) {
	assert.True(t, OrderDelivered.Terminal())
	assert.True(t, OrderCancelled.Terminal())
	assert.False(t, OrderPreparing.Terminal())
	assert.True(t, OrderReady.Valid())
	assert.False(t, OrderStatus("lost").Valid())
}

func TestSessionSnapshot_Authenticated(t *testing.T) {
	assert.True(t, SessionSnapshot{State: SessionAuthenticated, Token: "t"}.Authenticated())
	assert.False(t, SessionSnapshot{State: SessionAuthenticated}.Authenticated())
	assert.False(t, SessionSnapshot{State: SessionLoading, Token: "t"}.Authenticated())
}

func TestUser_IsAdmin(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
}
