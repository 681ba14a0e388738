package commands_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand(t *testing.T) {
	itemID := kernel.NewUUID()
	validLines := []commands.OrderLine{{MenuItemID: itemID, Quantity: 2}}

	tests := []struct {
		name    string
		lines   []commands.OrderLine
		address string
		phone   string
		opts    commands.CreateOrderOptions
		wantErr error
	}{
		{name: "valid", lines: validLines, address: "12 Abay Ave", phone: "+77010000000"},
		{name: "no items", lines: nil, address: "12 Abay Ave", phone: "+77010000000", wantErr: errs.ErrValueIsRequired},
		{
			name:    "zero quantity",
			lines:   []commands.OrderLine{{MenuItemID: itemID, Quantity: 0}},
			address: "12 Abay Ave", phone: "+77010000000",
			wantErr: errs.ErrValueIsOutOfRange,
		},
		{name: "blank address", lines: validLines, address: "   ", phone: "+77010000000", wantErr: errs.ErrValueIsRequired},
		{name: "no phone", lines: validLines, address: "12 Abay Ave", wantErr: errs.ErrValueIsRequired},
		{
			name:  "negative loyalty points",
			lines: validLines, address: "12 Abay Ave", phone: "+77010000000",
			opts:    commands.CreateOrderOptions{LoyaltyPointsToUse: -5},
			wantErr: errs.ErrValueIsInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), tt.lines, tt.address, tt.phone, tt.opts)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, cmd.Validate())
		})
	}
}

func TestCreateOrderCommand_MenuItemIDsAreDistinct(t *testing.T) {
	a, b := kernel.NewUUID(), kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), []commands.OrderLine{
		{MenuItemID: a, Quantity: 1},
		{MenuItemID: b, Quantity: 1},
		{MenuItemID: a, Quantity: 3},
	}, "12 Abay Ave", "+77010000000", commands.CreateOrderOptions{PromoCode: "  save10 "})
	require.NoError(t, err)

	assert.Equal(t, []kernel.UUID{a, b}, cmd.MenuItemIDs())
	assert.Len(t, cmd.Lines(), 3)
	assert.Equal(t, "save10", cmd.Options().PromoCode)
}
