package request

import (
	"testing"

	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBanIPRequest_Validate(t *testing.T) {
	r := BanIPRequest{IP: " 203.0.113.5 "}
	require.NoError(t, r.Validate())
	assert.Equal(t, "203.0.113.5", r.IP)
	assert.Equal(t, "manual ban", r.Reason)

	v := r.Verdict()
	assert.True(t, v.IsBot())
	assert.Equal(t, "manual ban", v.Reason)

	bad := BanIPRequest{IP: "::1"}
	assert.ErrorIs(t, bad.Validate(), classification.ErrInvalidIP)

	bad = BanIPRequest{IP: "127.0.0.53"}
	assert.ErrorContains(t, bad.Validate(), "loopback")

	bad = BanIPRequest{IP: "999.1.1.1"}
	assert.ErrorIs(t, bad.Validate(), classification.ErrInvalidIP)
}
