package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/portal/internal/entity"
	"github.com/samandr77/microservices/portal/internal/schema"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name       string
		data       string
		wantOK     bool
		wantFields []schema.FieldError
	}{
		{
			name:   "valid",
			data:   `{"order_id":"o-1","pharmacy_id":"p-1","status":"ready","total":"12.50"}`,
			wantOK: true,
		},
		{
			name: "missing fields",
			data: `{"order_id":"o-1"}`,
			wantFields: []schema.FieldError{
				{Field: "OrderStatusChange.PharmacyID", Rule: "required"},
				{Field: "OrderStatusChange.Status", Rule: "required"},
			},
		},
		{
			name: "malformed",
			data: `{"order_id":`,
		},
		{
			name: "wrong type",
			data: `{"order_id":42}`,
		},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := schema.Decode[entity.OrderStatusChange]([]byte(tt.data))
			require.Equal(t, tt.wantOK, res.OK())

			if tt.wantOK {
				require.Equal(t, "o-1", res.Value.OrderID)
				require.Equal(t, "12.5", res.Value.Total.String())

				return
			}

			require.ErrorIs(t, res.Err, entity.ErrInvalidArgument)

			if tt.wantFields != nil {
				require.Equal(t, tt.wantFields, res.Err.Fields)
			}

			_, err := res.Unpack()
			require.Error(t, err)
		})
	}
}

func TestDecode_NestedMemberships(t *testing.T) {
	t.Parallel()

	res := schema.Decode[entity.User]([]byte(`{"id":"u-1","memberships":[{"pharmacy_id":"","role":"STAFF"}]}`))
	require.False(t, res.OK())
	require.Equal(t, []schema.FieldError{{Field: "User.Memberships[0].PharmacyID", Rule: "required"}}, res.Err.Fields)

	res = schema.Decode[entity.User]([]byte(`{"id":"u-1","memberships":[{"pharmacy_id":"p-1","role":"STAFF","locations":[{"id":"l-1"}]}]}`))
	require.True(t, res.OK())
	require.Len(t, res.Value.Memberships, 1)
}
