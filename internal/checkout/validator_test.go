package checkout_test

import (
	"strconv"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/cartsim/internal/checkout"
	"github.com/nikolayk812/cartsim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name       string
		accepted   []string
		buyer      func(b domain.Buyer) domain.Buyer
		wantFields []string
	}{
		{
			name:  "complete buyer: ok",
			buyer: func(b domain.Buyer) domain.Buyer { return b },
		},
		{
			name: "empty name: error",
			buyer: func(b domain.Buyer) domain.Buyer {
				b.Name = ""
				return b
			},
			wantFields: []string{"name"},
		},
		{
			name: "several empty fields: all reported",
			buyer: func(b domain.Buyer) domain.Buyer {
				b.Email = ""
				b.DNI = ""
				b.Address = ""
				return b
			},
			wantFields: []string{"email", "dni", "address"},
		},
		{
			name:     "payment outside accepted set: error",
			accepted: []string{"card", "transfer"},
			buyer: func(b domain.Buyer) domain.Buyer {
				b.Payment = "crypto"
				return b
			},
			wantFields: []string{"payment"},
		},
		{
			name:     "payment in accepted set: ok",
			accepted: []string{"card", " mercado "},
			buyer: func(b domain.Buyer) domain.Buyer {
				b.Payment = "mercado"
				return b
			},
		},
		{
			name:     "empty payment with accepted set: reported once",
			accepted: []string{"card"},
			buyer: func(b domain.Buyer) domain.Buyer {
				b.Payment = ""
				return b
			},
			wantFields: []string{"payment"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := checkout.NewValidator(tt.accepted)

			err := v.Validate(tt.buyer(randomBuyer()))
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, domain.ErrValidation)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantFields, verr.Fields)
		})
	}
}

func randomBuyer() domain.Buyer {
	return domain.Buyer{
		Name:    gofakeit.Name(),
		Email:   gofakeit.Email(),
		DNI:     strconv.Itoa(gofakeit.Number(10_000_000, 99_999_999)),
		Address: gofakeit.Street(),
		Payment: "card",
	}
}
