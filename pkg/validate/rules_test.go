package validate

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		min, max int
		want     bool
	}{
		{name: "empty", in: "", min: 1, want: false},
		{name: "blank", in: "   ", min: 1, want: false},
		{name: "too short", in: "a", min: 2, max: 10, want: false},
		{name: "lower bound", in: "ab", min: 2, max: 10, want: true},
		{name: "upper bound", in: "abcdefghij", min: 2, max: 10, want: true},
		{name: "too long", in: "abcdefghijk", min: 2, max: 10, want: false},
		{name: "counts runes", in: "台北市", min: 3, max: 3, want: true},
		{name: "trimmed before counting", in: "  ab  ", min: 2, max: 2, want: true},
		{name: "unbounded", in: strings.Repeat("x", 500), min: 1, max: 0, want: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsValidString(tt.in, tt.min, tt.max))
		})
	}
}

func TestIsValidInteger(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidInteger(0))
	assert.True(t, IsValidInteger(3))
	assert.False(t, IsValidInteger(-1))
	assert.False(t, IsValidInteger(1.5))
	assert.False(t, IsValidInteger(math.NaN()))
	assert.False(t, IsValidInteger(math.Inf(1)))

	assert.True(t, IsValidInteger(math.MaxInt32))
	assert.False(t, IsValidInteger(math.MaxInt32+1))
	assert.False(t, IsValidInteger(1e300))
}

func TestPatterns(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidTel("0912345678"))
	assert.False(t, IsValidTel("091234567"))
	assert.False(t, IsValidTel("0812345678"))

	assert.True(t, IsValidEmail("a@b.co"))
	assert.False(t, IsValidEmail("a@b"))
	assert.False(t, IsValidEmail("a b@c.d"))

	assert.True(t, IsValidPassword("Passw0rdOK"))
	assert.False(t, IsValidPassword("password1"))
	assert.False(t, IsValidPassword("PASSWORD1"))
	assert.False(t, IsValidPassword("Pass1"))
	assert.False(t, IsValidPassword("Passw0rd"+strings.Repeat("x", 30)))

	assert.True(t, IsValidRecipient("王小明"))
	assert.True(t, IsValidRecipient("Amy2"))
	assert.False(t, IsValidRecipient("王"))
	assert.False(t, IsValidRecipient("王 小明"))

	assert.True(t, IsValidHTTPS("https://img.example.com/a.png"))
	assert.False(t, IsValidHTTPS("http://img.example.com/a.png"))

	assert.True(t, IsValidUUID(uuid.NewString()))
	assert.False(t, IsValidUUID("42"))
	assert.False(t, IsValidUUID(" "))
}

func TestIsValidPaymentMethod(t *testing.T) {
	t.Parallel()

	for _, v := range []float64{1, 2, 3} {
		assert.True(t, IsValidPaymentMethod(v))
	}
	for _, v := range []float64{0, 4, 2.5, -1} {
		assert.False(t, IsValidPaymentMethod(v))
	}
}

func TestIsValidStringArray(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidStringArray([]string{"紅色", "blue"}, 2, 10))
	assert.False(t, IsValidStringArray(nil, 2, 10))
	assert.False(t, IsValidStringArray([]string{}, 2, 10))
	assert.False(t, IsValidStringArray([]string{"ok", "x"}, 2, 10))
}

func TestRoleFromString(t *testing.T) {
	t.Parallel()

	r, ok := RoleFromString("admin")
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, r)

	r, ok = RoleFromString("user")
	require.True(t, ok)
	assert.Equal(t, RoleUser, r)

	_, ok = RoleFromString("ADMIN")
	assert.False(t, ok)
}

type line struct {
	ProductID *string  `json:"products_id" validate:"required,uuidstr"`
	Quantity  *float64 `json:"quantity" validate:"required,wholenum"`
}

type payload struct {
	Name    *string  `json:"name" validate:"required,textlen=3-50"`
	Colors  []string `json:"colors" validate:"required,min=1,dive,textlen=2-10"`
	Payment *float64 `json:"payment_methods" validate:"required,payment"`
	Lines   []line   `json:"orders" validate:"required,min=1,dive"`
}

func ptr[T any](v T) *T { return &v }

func validPayload() payload {
	return payload{
		Name:    ptr("desk lamp"),
		Colors:  []string{"black"},
		Payment: ptr(2.0),
		Lines:   []line{{ProductID: ptr(uuid.NewString()), Quantity: ptr(0.0)}},
	}
}

func TestStruct_Valid(t *testing.T) {
	t.Parallel()
	require.NoError(t, Struct(validPayload()))
}

func TestStruct_ReportsFirstField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(p *payload)
		field  string
	}{
		{name: "missing name", mutate: func(p *payload) { p.Name = nil }, field: "name"},
		{name: "short name", mutate: func(p *payload) { p.Name = ptr("ab") }, field: "name"},
		{name: "empty colors", mutate: func(p *payload) { p.Colors = []string{} }, field: "colors"},
		{name: "bad color", mutate: func(p *payload) { p.Colors = []string{"x"} }, field: "colors[0]"},
		{name: "payment 4", mutate: func(p *payload) { p.Payment = ptr(4.0) }, field: "payment_methods"},
		{name: "fractional quantity", mutate: func(p *payload) { p.Lines[0].Quantity = ptr(1.5) }, field: "orders[0].quantity"},
		{name: "huge quantity", mutate: func(p *payload) { p.Lines[0].Quantity = ptr(1e300) }, field: "orders[0].quantity"},
		{name: "missing quantity", mutate: func(p *payload) { p.Lines[0].Quantity = nil }, field: "orders[0].quantity"},
		{name: "bad product id", mutate: func(p *payload) { p.Lines[0].ProductID = ptr("7") }, field: "orders[0].products_id"},
		{name: "no lines", mutate: func(p *payload) { p.Lines = nil }, field: "orders"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := validPayload()
			tt.mutate(&p)

			err := Struct(p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}
