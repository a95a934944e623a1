package checkout

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUPILink(t *testing.T) {
	link := BuildUPILink("vastra@upi", "Vastra", 250, "Order #42")

	require.True(t, strings.HasPrefix(link, "upi://pay?"))

	parsed, err := url.Parse(link)
	require.NoError(t, err)

	q := parsed.Query()
	assert.Equal(t, "vastra@upi", q.Get("pa"))
	assert.Equal(t, "Vastra", q.Get("pn"))
	assert.Equal(t, "250.00", q.Get("am"))
	assert.Equal(t, "INR", q.Get("cu"))
	assert.Equal(t, "Order #42", q.Get("tn"))
}

func TestBuildUPILinkOmitsEmptyNote(t *testing.T) {
	link := BuildUPILink("vastra@upi", "Vastra", 99.5, "")

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.False(t, parsed.Query().Has("tn"))
}

func TestGenerateUPIQR(t *testing.T) {
	qr, err := GenerateUPIQR("upi://pay?pa=vastra%40upi&am=100.00&cu=INR")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))
}
