package connect_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

func TestError_Is(t *testing.T) {
	t.Parallel()

	orderAPI := &connect.Error{Kind: connect.KindAPI, Resource: connect.ResourceOrder, Status: 422}
	designNet := &connect.Error{Kind: connect.KindNetwork, Resource: connect.ResourceDesign}

	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{name: "kind matches", err: orderAPI, target: connect.ErrAPI, want: true},
		{name: "resource matches", err: orderAPI, target: connect.ErrOrder, want: true},
		{name: "other resource", err: orderAPI, target: connect.ErrDesign, want: false},
		{name: "other kind", err: orderAPI, target: connect.ErrAuth, want: false},
		{name: "network is not a design api error", err: designNet, target: connect.ErrDesign, want: false},
		{name: "network kind", err: designNet, target: connect.ErrNetwork, want: true},
		{name: "wrapped", err: fmt.Errorf("creating order: %w", orderAPI), target: connect.ErrOrder, want: true},
		{name: "plain error", err: errors.New("boom"), target: connect.ErrAPI, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestError_Error(t *testing.T) {
	t.Parallel()

	err := &connect.Error{
		Kind:     connect.KindAPI,
		Resource: connect.ResourceDesign,
		Op:       "designs.create",
		Status:   422,
		Message:  "The given data was invalid.",
		Errors: map[string][]string{
			"sku":        {"The sku field is required."},
			"return_url": {"The return url must be a valid URL."},
		},
	}

	assert.Equal(t,
		"designs.create: design api error (status 422): The given data was invalid.; "+
			"return_url: The return url must be a valid URL.; sku: The sku field is required.",
		err.Error(),
	)
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := &connect.Error{Kind: connect.KindNetwork, Err: cause}

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "network error: connection reset")
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, connect.KindAuth, connect.KindOf(fmt.Errorf("x: %w", connect.ErrAuth)))
	assert.Equal(t, connect.KindUnknown, connect.KindOf(errors.New("plain")))
	assert.Equal(t, "invalid argument", connect.KindInvalidArgument.String())
}
