package entity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/portal/internal/entity"
)

func TestParseRoom(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		in      string
		want    entity.Room
		wantErr require.ErrorAssertionFunc
	}{
		{"pharmacy:p-1", entity.PharmacyRoom("p-1"), require.NoError},
		{"chat:t-9", entity.ChatRoom("t-9"), require.NoError},
		{"dispatch:d-3", entity.DispatchRoom("d-3"), require.NoError},
		{"order:o:7", entity.OrderRoom("o:7"), require.NoError},
		{"order:", entity.Room{}, require.Error},
		{"invoice:1", entity.Room{}, require.Error},
		{"pharmacy", entity.Room{}, require.Error},
	} {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := entity.ParseRoom(tt.in)
			tt.wantErr(t, err)
			require.Equal(t, tt.want, got)

			if err == nil {
				require.Equal(t, tt.in, got.String())
			} else {
				require.ErrorIs(t, err, entity.ErrUnknownRoom)
			}
		})
	}
}
