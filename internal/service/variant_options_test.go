package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/pkg/errors"
)

func TestCoerceOptions(t *testing.T) {
	options, coerced := CoerceOptions(json.RawMessage(`[{"name":"Color","value":"Red"}]`))
	assert.False(t, coerced)
	assert.Equal(t, domain.OptionList{{Name: "Color", Value: "Red"}}, options)
}

func TestCoerceOptionsLenient(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		coerced bool
	}{
		{"absent", "", false},
		{"json null", "null", true},
		{"object", `{"Color":"Red"}`, true},
		{"scalar", `"red"`, true},
		{"garbage", `[{]`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			options, coerced := CoerceOptions(json.RawMessage(tc.raw))
			assert.Equal(t, domain.OptionList{}, options)
			assert.Equal(t, tc.coerced, coerced)
		})
	}
}

func TestNormalizeForClientStripsLegacySlots(t *testing.T) {
	name, value := "Color", "Red"
	variant := &domain.Variant{
		ID:                 uuid.New(),
		SKU:                "SKU-1",
		Price:              decimal.RequireFromString("10"),
		Options:            nil,
		LegacyOption1Name:  &name,
		LegacyOption1Value: &value,
	}

	view := NormalizeForClient(variant)
	assert.NotNil(t, view.Options, "options must serialize as a list, not null")
	assert.Empty(t, view.Options)

	encoded, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"options":[]`)
	assert.NotContains(t, string(encoded), "option1")
}

func TestReplaceVariants(t *testing.T) {
	repos := newFakeRepos()
	productID := seedProduct(repos, "100")

	svc := NewVariantService(repos, zap.NewNop())
	views, err := svc.ReplaceVariants(context.Background(), productID, []VariantPayload{
		{
			SKU:               "SKU-RED-M",
			Price:             decimal.RequireFromString("120"),
			InventoryQuantity: 5,
			Position:          1,
			Options:           json.RawMessage(`[{"name":"Color","value":"Red"},{"name":"Size","value":"M"}]`),
		},
		{
			SKU:      "SKU-BLUE-M",
			Price:    decimal.RequireFromString("125"),
			Position: 2,
		},
	})
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Len(t, views[0].Options, 2)
	assert.NotNil(t, views[1].Options)
	assert.Empty(t, views[1].Options)

	stored := repos.Variant.(*fakeVariants).replaced[productID]
	require.Len(t, stored, 2)
	assert.Equal(t, "SKU-RED-M", stored[0].SKU)
}

func TestReplaceVariantsValidatesOptions(t *testing.T) {
	repos := newFakeRepos()
	productID := seedProduct(repos, "100")
	svc := NewVariantService(repos, zap.NewNop())

	_, err := svc.ReplaceVariants(context.Background(), productID, []VariantPayload{
		{
			SKU:     "SKU-DUP",
			Price:   decimal.RequireFromString("10"),
			Options: json.RawMessage(`[{"name":"Color","value":"Red"},{"name":"color","value":"Blue"}]`),
		},
	})
	assert.IsType(t, &errors.ErrValidation{}, err)
}

func TestReplaceVariantsUnknownProduct(t *testing.T) {
	repos := newFakeRepos()
	svc := NewVariantService(repos, zap.NewNop())

	_, err := svc.ReplaceVariants(context.Background(), uuid.New(), nil)
	assert.IsType(t, &errors.ErrNotFound{}, err)
}
